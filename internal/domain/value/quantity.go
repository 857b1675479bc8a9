package value

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrUnparseable = errors.New("unparseable value")

type quantityState uint8

const (
	quantityAbsent quantityState = iota
	quantityParsed
	quantityUnparseable
)

// Quantity: числовое поле сертификата: отсутствует, разобрано или есть, но
// не разбирается. Raw хранит исходный текст для пояснений.
type Quantity struct {
	Value float64
	Unit  string
	Raw   string
	state quantityState
}

func NewQuantity(v float64, unit string) Quantity {
	return Quantity{
		Value: v,
		Unit:  unit,
		Raw:   strings.TrimSpace(FormatNumber(v) + " " + unit),
		state: quantityParsed,
	}
}

func UnparseableQuantity(raw string) Quantity {
	return Quantity{Raw: raw, state: quantityUnparseable}
}

func (q Quantity) IsPresent() bool {
	return q.state != quantityAbsent
}

func (q Quantity) IsParsed() bool {
	return q.state == quantityParsed
}

func (q Quantity) IsUnparseable() bool {
	return q.state == quantityUnparseable
}

// WithUnit подставляет единицу, если у поля её не было.
func (q Quantity) WithUnit(unit string) Quantity {
	if q.IsParsed() && q.Unit == "" {
		q.Unit = unit
	}

	return q
}

func (q Quantity) String() string {
	switch q.state {
	case quantityParsed:
		return strings.TrimSpace(FormatNumber(q.Value) + " " + q.Unit)
	case quantityUnparseable:
		return q.Raw
	default:
		return "N/A"
	}
}

//nolint:gochecknoglobals
var (
	numberPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:[.,]\d*)*|[.,]\d+)(?:[eE][+-]?\d+)?`)
	parenthetic  = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	absentTokens = map[string]struct{}{
		"": {}, "n/a": {}, "na": {}, "-": {}, "—": {}, "none": {}, "null": {}, "nil": {},
	}
)

// ParseQuantity превращает извлечённое поле в Quantity. Принимаются строки
// вида "10.02 V", "±0.03", "1,5 mV" или "50 ppm".
func ParseQuantity(raw any) Quantity {
	switch v := raw.(type) {
	case nil:
		return Quantity{}
	case float64:
		return finite(v, "", FormatNumber(v))
	case float32:
		return finite(float64(v), "", FormatNumber(float64(v)))
	case int:
		return NewQuantity(float64(v), "")
	case int64:
		return NewQuantity(float64(v), "")
	case fmt.Stringer:
		return ParseQuantityString(v.String())
	case string:
		return ParseQuantityString(v)
	default:
		return UnparseableQuantity(fmt.Sprint(v))
	}
}

func ParseQuantityString(s string) Quantity {
	raw := strings.TrimSpace(s)

	if _, ok := absentTokens[strings.ToLower(raw)]; ok {
		return Quantity{}
	}

	number, rest, err := splitNumber(stripPlusMinus(raw))
	if err != nil {
		return UnparseableQuantity(raw)
	}

	unit := strings.TrimSpace(parenthetic.ReplaceAllString(rest, ""))
	if strings.ContainsAny(unit, "0123456789") && !isUnitWithDigits(unit) {
		return UnparseableQuantity(raw)
	}

	return finite(number, unit, raw)
}

func finite(v float64, unit, raw string) Quantity {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return UnparseableQuantity(raw)
	}

	return Quantity{Value: v, Unit: unit, Raw: raw, state: quantityParsed}
}

func stripPlusMinus(s string) string {
	s = strings.TrimSpace(s)

	for _, prefix := range []string{"±", "+/-", "+-", "+ / -"} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
	}

	return s
}

// splitNumber читает число в начале s и возвращает остаток.
func splitNumber(s string) (float64, string, error) {
	s = strings.TrimSpace(s)

	match := numberPrefix.FindString(s)
	if match == "" {
		return 0, s, ErrUnparseable
	}

	v, err := strconv.ParseFloat(normalizeSeparators(match), 64)
	if err != nil {
		return 0, s, fmt.Errorf("strconv.ParseFloat: %w", ErrUnparseable)
	}

	return v, strings.TrimSpace(s[len(match):]), nil
}

// normalizeSeparators различает разделители тысяч и десятичную запятую.
func normalizeSeparators(s string) string {
	hasDot := strings.Contains(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case commas == 0:
		return s
	case hasDot:
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		idx := strings.Index(s, ",")
		tail := strings.TrimLeft(s[idx+1:], "0123456789")
		digits := len(s) - idx - 1 - len(tail)

		if digits == 3 && hasIntegerPart(s[:idx]) {
			return strings.Replace(s, ",", "", 1)
		}

		return strings.Replace(s, ",", ".", 1)
	default:
		return strings.ReplaceAll(s, ",", "")
	}
}

// hasIntegerPart сообщает, есть ли перед запятой ненулевая целая часть.
// "0,005" и "-0,005" читаются с десятичной запятой.
func hasIntegerPart(s string) bool {
	return strings.Trim(strings.TrimLeft(s, "+-"), "0") != ""
}

// isUnitWithDigits пропускает единицы с цифрой, например "m2".
func isUnitWithDigits(unit string) bool {
	if len(unit) > 4 {
		return false
	}

	last := unit[len(unit)-1]

	return last == '2' || last == '3'
}

// FormatNumber печатает число с шестью значащими цифрами.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
