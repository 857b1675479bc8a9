package value

import (
	"regexp"
	"slices"
	"strings"
)

//nolint:gochecknoglobals
var (
	unitSuffix   = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	nonAlphaNums = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// ParameterKey: нормализованное имя параметра для сопоставления строк
// сертификата с записями спецификации.
type ParameterKey struct {
	Text   string
	tokens []string
}

// NewParameterKey приводит имя к нижнему регистру, убирает единицу в скобках
// ("Voltage (V)") и схлопывает пунктуацию.
func NewParameterKey(name string) ParameterKey {
	s := strings.ToLower(name)
	s = unitSuffix.ReplaceAllString(s, " ")
	s = nonAlphaNums.ReplaceAllString(s, " ")

	tokens := strings.Fields(s)

	sorted := slices.Clone(tokens)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	return ParameterKey{
		Text:   strings.Join(tokens, " "),
		tokens: sorted,
	}
}

func (k ParameterKey) IsZero() bool {
	return len(k.tokens) == 0
}

// Equal сравнивает ключи без учёта порядка слов ("DC Voltage" == "Voltage DC").
func (k ParameterKey) Equal(other ParameterKey) bool {
	return !k.IsZero() && slices.Equal(k.tokens, other.tokens)
}

// Overlaps сообщает, входят ли все слова одного ключа в другой.
func (k ParameterKey) Overlaps(other ParameterKey) bool {
	if k.IsZero() || other.IsZero() {
		return false
	}

	return containsAll(k.tokens, other.tokens) || containsAll(other.tokens, k.tokens)
}

func containsAll(set, sub []string) bool {
	for _, t := range sub {
		if _, found := slices.BinarySearch(set, t); !found {
			return false
		}
	}

	return true
}
