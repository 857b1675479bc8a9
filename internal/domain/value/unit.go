package value

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrUnitConversion = errors.New("unit conversion failed")

type UnitKind uint8

const (
	// UnitNone: единица не указана.
	UnitNone UnitKind = iota
	UnitAbsolute
	// UnitRelativeReading: доля от номинала (%, ppm, % of reading).
	UnitRelativeReading
	// UnitRelativeRange: доля от верхнего предела диапазона (% FS, % of range).
	UnitRelativeRange
)

// Unit: разобранная единица. У абсолютных Scale переводит значение в базовый
// Symbol, у относительных в долю.
type Unit struct {
	Symbol string
	Scale  float64
	Kind   UnitKind
}

func (u Unit) IsRelative() bool {
	return u.Kind == UnitRelativeReading || u.Kind == UnitRelativeRange
}

//nolint:gochecknoglobals
var (
	baseUnits = map[string]struct{}{
		"V": {}, "A": {}, "Ω": {}, "Hz": {}, "W": {}, "F": {}, "H": {}, "s": {}, "S": {},
		"K": {}, "°C": {}, "°F": {}, "Pa": {}, "bar": {}, "psi": {}, "g": {}, "m": {},
		"N": {}, "N·m": {}, "J": {}, "dB": {}, "dBm": {}, "lbf": {}, "in": {}, "ft": {},
		"rpm": {}, "L": {}, "%RH": {}, "VA": {}, "var": {}, "Wh": {},
	}
	siPrefixes = map[string]float64{
		"p": 1e-12, "n": 1e-9, "u": 1e-6, "m": 1e-3, "c": 1e-2,
		"k": 1e3, "M": 1e6, "G": 1e9,
	}
	unitAliases = strings.NewReplacer(
		"µ", "u", "μ", "u",
		"ohms", "Ω", "Ohms", "Ω", "ohm", "Ω", "Ohm", "Ω", "OHM", "Ω",
		"℃", "°C", "degC", "°C", "deg C", "°C", "ºC", "°C",
		"℉", "°F", "degF", "°F", "deg F", "°F",
		"Nm", "N·m", "N.m", "N·m",
	)
	currentSuffixes = []string{" DC", " AC", "DC", "AC", "dc", "ac", " rms", "rms", " RMS", "RMS"}
)

// ParseUnit распознаёт базовые единицы с приставками СИ и относительные.
// Неизвестные символы сохраняются как есть и равны только себе.
func ParseUnit(s string) Unit {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Unit{Kind: UnitNone, Scale: 1}
	}

	if u, ok := parseRelative(raw); ok {
		return u
	}

	symbol := unitAliases.Replace(raw)
	if symbol != "%RH" {
		for _, suffix := range currentSuffixes {
			if trimmed := strings.TrimSuffix(symbol, suffix); trimmed != symbol && trimmed != "" {
				symbol = strings.TrimSpace(trimmed)
				break
			}
		}
	}

	if _, ok := baseUnits[symbol]; ok {
		return Unit{Symbol: symbol, Scale: 1, Kind: UnitAbsolute}
	}

	if r, size := utf8.DecodeRuneInString(symbol); size < len(symbol) {
		if scale, ok := siPrefixes[string(r)]; ok {
			if _, ok := baseUnits[symbol[size:]]; ok {
				return Unit{Symbol: symbol[size:], Scale: scale, Kind: UnitAbsolute}
			}
		}
	}

	return Unit{Symbol: strings.ToLower(symbol), Scale: 1, Kind: UnitAbsolute}
}

func parseRelative(raw string) (Unit, bool) {
	lower := strings.ToLower(raw)

	var scale float64

	switch {
	case strings.HasPrefix(lower, "%rh"):
		return Unit{}, false
	case strings.HasPrefix(lower, "%"):
		scale = 1e-2
	case strings.HasPrefix(lower, "ppm"):
		scale = 1e-6
	case strings.HasPrefix(lower, "ppb"):
		scale = 1e-9
	default:
		return Unit{}, false
	}

	kind := UnitRelativeReading

	for _, marker := range []string{"fs", "full scale", "f.s", "range", "rng", "span"} {
		if strings.Contains(lower, marker) {
			kind = UnitRelativeRange
			break
		}
	}

	return Unit{Symbol: lower, Scale: scale, Kind: kind}, true
}

// Reference: всё, что нужно для перевода относительной величины в абсолютную
// в единице измерения.
type Reference struct {
	Unit       Unit
	Nominal    float64
	HasNominal bool
	// FullScale: верхний предел диапазона, 0 если неизвестен.
	FullScale float64
}

// ToAbsolute переводит v из единицы from в единицу ссылки.
func (r Reference) ToAbsolute(v float64, from Unit) (float64, error) {
	if from.IsRelative() && r.Unit.IsRelative() {
		return v * from.Scale / r.Unit.Scale, nil
	}

	switch from.Kind {
	case UnitNone:
		return v, nil
	case UnitRelativeReading:
		if !r.HasNominal {
			return 0, fmt.Errorf("%w: %q needs a nominal value", ErrUnitConversion, from.Symbol)
		}

		return v * from.Scale * abs(r.Nominal), nil
	case UnitRelativeRange:
		if r.FullScale <= 0 {
			return 0, fmt.Errorf("%w: %q needs a range", ErrUnitConversion, from.Symbol)
		}

		return v * from.Scale * r.FullScale, nil
	}

	switch {
	case r.Unit.Kind == UnitNone:
		return v * from.Scale, nil
	case r.Unit.IsRelative():
		if !r.HasNominal || r.Nominal == 0 {
			return 0, fmt.Errorf("%w: %q against a relative scale without nominal", ErrUnitConversion, from.Symbol)
		}

		return v * from.Scale / abs(r.Nominal) / r.Unit.Scale, nil
	case from.Symbol == r.Unit.Symbol:
		return v * from.Scale / r.Unit.Scale, nil
	default:
		return 0, fmt.Errorf("%w: %s is not comparable with %s", ErrUnitConversion, from.Symbol, r.Unit.Symbol)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
