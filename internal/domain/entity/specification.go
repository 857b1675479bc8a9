package entity

import (
	"math"

	"calibration_analyzer/internal/domain/value"
)

type RangeBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r RangeBounds) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r RangeBounds) Width() float64 {
	return r.Max - r.Min
}

// FullScale: наибольший модуль значения в диапазоне.
func (r RangeBounds) FullScale() float64 {
	return math.Max(math.Abs(r.Min), math.Abs(r.Max))
}

// SpecificationEntry: одна запись допуска производителя.
type SpecificationEntry struct {
	Parameter string
	Unit      string
	// Tolerance is the expression as published, e.g. "±(0.01% + 2 mV)".
	Tolerance string
	Range     *RangeBounds
	// Details: прочие атрибуты, которые вернул источник.
	Details map[string]string
}

// Expression разбирает Tolerance. Числа без единицы получают единицу записи,
// а если её нет, fallbackUnit.
func (e SpecificationEntry) Expression(fallbackUnit string) (value.ToleranceExpr, error) {
	unit := e.Unit
	if unit == "" {
		unit = fallbackUnit
	}

	return value.ParseTolerance(e.Tolerance, unit)
}

// RangeWidth возвращает +Inf для записи без диапазона.
func (e SpecificationEntry) RangeWidth() float64 {
	if e.Range == nil {
		return math.Inf(1)
	}

	return e.Range.Width()
}

// AppliesTo сообщает, попадает ли номинал в диапазон записи. Номинал без
// своей единицы берётся в pointUnit и пересчитывается в единицу записи.
// Запись без диапазона подходит всегда, даже при неизвестном номинале.
func (e SpecificationEntry) AppliesTo(nominal value.Quantity, pointUnit string) bool {
	if e.Range == nil {
		return true
	}

	if !nominal.IsParsed() {
		return false
	}

	unit := nominal.Unit
	if unit == "" {
		unit = pointUnit
	}

	return e.Range.Contains(convert(nominal.Value, unit, e.Unit))
}

// FullScaleIn возвращает верхнюю границу диапазона в единице unit. Ноль
// означает, что диапазона нет.
func (e SpecificationEntry) FullScaleIn(unit string) float64 {
	if e.Range == nil {
		return 0
	}

	return convert(e.Range.FullScale(), e.Unit, unit)
}

// convert переводит v из from в to. Если единицы несравнимы или одной из них
// нет, значение остаётся как есть.
func convert(v float64, from, to string) float64 {
	fromUnit, toUnit := value.ParseUnit(from), value.ParseUnit(to)
	if fromUnit.Kind != value.UnitAbsolute || toUnit.Kind != value.UnitAbsolute {
		return v
	}

	converted, err := value.Reference{Unit: toUnit}.ToAbsolute(v, fromUnit)
	if err != nil {
		return v
	}

	return converted
}

// SpecificationSet: упорядоченные записи и их источники.
type SpecificationSet struct {
	Entries []SpecificationEntry
	// Sources: метки источников, основной первым.
	Sources []string
}

func (s SpecificationSet) IsEmpty() bool {
	return len(s.Entries) == 0
}

func (s SpecificationSet) PrimarySource() string {
	if len(s.Sources) == 0 {
		return ""
	}

	return s.Sources[0]
}

// Parameters возвращает имена параметров в порядке первого объявления.
func (s SpecificationSet) Parameters() []string {
	seen := make(map[string]struct{}, len(s.Entries))
	result := make([]string, 0, len(s.Entries))

	for _, e := range s.Entries {
		if _, ok := seen[e.Parameter]; ok {
			continue
		}

		seen[e.Parameter] = struct{}{}
		result = append(result, e.Parameter)
	}

	return result
}
