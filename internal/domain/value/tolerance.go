package value

import (
	"fmt"
	"regexp"
	"strings"
)

// ToleranceTerm: одно слагаемое допуска производителя.
type ToleranceTerm struct {
	Value float64
	Unit  Unit
}

// ToleranceExpr: разобранный допуск: сумма слагаемых
// ("±(0.01% of reading + 2 mV)") или явные границы ("-0.03 to +0.05 V").
type ToleranceExpr struct {
	Raw    string
	Terms  []ToleranceTerm
	Limits *[2]ToleranceTerm
}

const (
	limitNumber = `([+-]?[\d.,]+(?:[eE][+-]?\d+)?)`
	limitUnit   = `([^\d\s,;\]+-][^\d,;\]]*?)?`
)

//nolint:gochecknoglobals
var (
	limitsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\[\s*` + limitNumber + `\s*` + limitUnit + `\s*[,;]\s*` + limitNumber + `\s*` + limitUnit + `\s*\]$`),
		regexp.MustCompile(`^` + limitNumber + `\s*` + limitUnit + `\s*(?:to|\.\.|…|–|—|~)\s*` + limitNumber + `\s*` + limitUnit + `$`),
	}
	unsupportedTerms = []string{"digit", "dgt", "count", "lsd"}
)

// ParseTolerance разбирает выражение допуска. defaultUnit достаётся числам
// без единицы, например "±0.03" при defaultUnit "V".
func ParseTolerance(expr, defaultUnit string) (ToleranceExpr, error) {
	raw := strings.TrimSpace(expr)
	if raw == "" {
		return ToleranceExpr{}, fmt.Errorf("empty tolerance: %w", ErrUnparseable)
	}

	if limits, ok := parseLimits(raw, defaultUnit); ok {
		return ToleranceExpr{Raw: raw, Limits: limits}, nil
	}

	body := stripPlusMinus(raw)
	body = strings.NewReplacer("(", " ", ")", " ", "±", " ", "+/-", " ").Replace(body)

	parts := splitTerms(body)
	terms := make([]ToleranceTerm, 0, len(parts))

	for _, part := range parts {
		term, err := parseTerm(part, defaultUnit)
		if err != nil {
			return ToleranceExpr{}, fmt.Errorf("tolerance %q: %w", raw, err)
		}

		terms = append(terms, term)
	}

	if len(terms) == 0 {
		return ToleranceExpr{}, fmt.Errorf("tolerance %q: %w", raw, ErrUnparseable)
	}

	return ToleranceExpr{Raw: raw, Terms: terms}, nil
}

func parseLimits(raw, defaultUnit string) (*[2]ToleranceTerm, bool) {
	var m []string

	for _, pattern := range limitsPatterns {
		if m = pattern.FindStringSubmatch(raw); m != nil {
			break
		}
	}

	if m == nil {
		return nil, false
	}

	lowUnit, highUnit := strings.TrimSpace(m[2]), strings.TrimSpace(m[4])

	switch {
	case lowUnit == "" && highUnit == "":
		lowUnit, highUnit = defaultUnit, defaultUnit
	case lowUnit == "":
		lowUnit = highUnit
	case highUnit == "":
		highUnit = lowUnit
	}

	low, _, err := splitNumber(m[1])
	if err != nil {
		return nil, false
	}

	high, _, err := splitNumber(m[3])
	if err != nil || high < low {
		return nil, false
	}

	return &[2]ToleranceTerm{
		{Value: low, Unit: ParseUnit(lowUnit)},
		{Value: high, Unit: ParseUnit(highUnit)},
	}, true
}

// splitTerms режет по '+', не трогая экспоненты вроде 1e+3.
func splitTerms(s string) []string {
	var (
		parts []string
		start int
	)

	for i := 0; i < len(s); i++ {
		if s[i] != '+' {
			continue
		}

		if i > 0 && (s[i-1] == 'e' || s[i-1] == 'E') && i > 1 && isDigit(s[i-2]) {
			continue
		}

		parts = appendPart(parts, s[start:i])
		start = i + 1
	}

	return appendPart(parts, s[start:])
}

func appendPart(parts []string, part string) []string {
	part = strings.TrimSpace(part)
	if part == "" {
		return parts
	}

	return append(parts, part)
}

func parseTerm(part, defaultUnit string) (ToleranceTerm, error) {
	v, rest, err := splitNumber(part)
	if err != nil {
		return ToleranceTerm{}, err
	}

	lower := strings.ToLower(rest)
	for _, unsupported := range unsupportedTerms {
		if strings.Contains(lower, unsupported) {
			return ToleranceTerm{}, fmt.Errorf("resolution-based term %q: %w", part, ErrUnparseable)
		}
	}

	unitText := strings.TrimSpace(rest)
	if unitText == "" {
		unitText = defaultUnit
	}

	if v < 0 {
		v = -v
	}

	return ToleranceTerm{Value: v, Unit: ParseUnit(unitText)}, nil
}

// HalfWidth вычисляет полуширину допуска в абсолютных единицах ref.
// Несимметричные границы симметризуются: берётся (b - a)/2.
func (t ToleranceExpr) HalfWidth(ref Reference) (float64, error) {
	if t.Limits != nil {
		low, err := ref.ToAbsolute(t.Limits[0].Value, t.Limits[0].Unit)
		if err != nil {
			return 0, err
		}

		high, err := ref.ToAbsolute(t.Limits[1].Value, t.Limits[1].Unit)
		if err != nil {
			return 0, err
		}

		return (high - low) / 2, nil
	}

	var total float64

	for _, term := range t.Terms {
		v, err := ref.ToAbsolute(term.Value, term.Unit)
		if err != nil {
			return 0, err
		}

		total += v
	}

	return total, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
