package value

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrInvalidCertificate = errors.New("certificate data must be an object or an array of objects")

// Record: одна извлечённая запись. Ключи сравниваются без учёта регистра,
// пробелов, дефисов и подчёркиваний.
type Record map[string]any

func normalizeKey(k string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.':
			return -1
		}

		return r
	}, strings.ToLower(k))
}

// Get возвращает первое непустое значение среди синонимов.
func (r Record) Get(aliases ...string) (any, bool) {
	wanted := make(map[string]int, len(aliases))
	for i, alias := range aliases {
		wanted[normalizeKey(alias)] = i
	}

	var (
		best    any
		bestKey string
		index   = len(aliases)
	)

	for k, v := range r {
		if v == nil {
			continue
		}

		i, ok := wanted[normalizeKey(k)]
		if !ok || i > index || (i == index && k > bestKey) {
			continue
		}

		best, bestKey, index = v, k, i
	}

	return best, index < len(aliases)
}

// String возвращает текст первого найденного синонима или "".
func (r Record) String(aliases ...string) string {
	v, ok := r.Get(aliases...)
	if !ok {
		return ""
	}

	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return FormatNumber(s)
	case map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// Records возвращает вложенные записи под синонимами. Одиночный объект
// отдаётся срезом из одного элемента.
func (r Record) Records(aliases ...string) []Record {
	v, ok := r.Get(aliases...)
	if !ok {
		return nil
	}

	switch nested := v.(type) {
	case map[string]any:
		return []Record{nested}
	case []any:
		result := make([]Record, 0, len(nested))

		for _, item := range nested {
			if m, ok := item.(map[string]any); ok {
				result = append(result, m)
			}
		}

		return result
	default:
		return nil
	}
}

type RawCertificateKind uint8

const (
	RawSingle RawCertificateKind = iota + 1
	RawMulti
	RawErrorSentinel
)

// RawCertificate: результат извлечения, один раз разобранный в одну из форм:
// запись, список записей или ошибка извлечения.
type RawCertificate struct {
	kind    RawCertificateKind
	records []Record
	reason  string
}

func SingleCertificate(r Record) RawCertificate {
	return RawCertificate{kind: RawSingle, records: []Record{r}}
}

func MultiCertificate(rs []Record) RawCertificate {
	return RawCertificate{kind: RawMulti, records: rs}
}

func ErrorSentinelCertificate(reason string) RawCertificate {
	return RawCertificate{kind: RawErrorSentinel, reason: reason}
}

func (c RawCertificate) Kind() RawCertificateKind {
	return c.kind
}

// Records возвращает записи по порядку. Для ошибки извлечения nil.
func (c RawCertificate) Records() []Record {
	return c.records
}

// Reason: текст ошибки от сервиса извлечения.
func (c RawCertificate) Reason() string {
	return c.reason
}

// DecodeRawCertificate разбирает JSON сервиса извлечения.
func DecodeRawCertificate(data []byte) (RawCertificate, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return RawCertificate{}, fmt.Errorf("json.Unmarshal: %w", errors.Join(ErrInvalidCertificate, err))
	}

	return NewRawCertificate(v)
}

// NewRawCertificate классифицирует уже разобранный JSON. Ключ "error" у объекта
// или у первого элемента массива означает ошибку извлечения.
func NewRawCertificate(v any) (RawCertificate, error) {
	switch data := v.(type) {
	case nil:
		return MultiCertificate(nil), nil
	case map[string]any:
		if reason, ok := errorReason(data); ok {
			return ErrorSentinelCertificate(reason), nil
		}

		return SingleCertificate(data), nil
	case []any:
		if len(data) > 0 {
			if first, ok := data[0].(map[string]any); ok {
				if reason, ok := errorReason(first); ok {
					return ErrorSentinelCertificate(reason), nil
				}
			}
		}

		records := make([]Record, 0, len(data))

		for i, item := range data {
			m, ok := item.(map[string]any)
			if !ok {
				return RawCertificate{}, fmt.Errorf("element %d: %w", i, ErrInvalidCertificate)
			}

			records = append(records, m)
		}

		return MultiCertificate(records), nil
	default:
		return RawCertificate{}, ErrInvalidCertificate
	}
}

// errorReason ищет ровно ключ "error" в нижнем регистре, чтобы строки с
// колонкой погрешности "Error" оставались данными.
func errorReason(m map[string]any) (string, bool) {
	v, ok := m["error"]
	if !ok {
		return "", false
	}

	switch reason := v.(type) {
	case nil:
		return "extraction failed", true
	case string:
		if strings.TrimSpace(reason) == "" {
			return "extraction failed", true
		}

		return strings.TrimSpace(reason), true
	default:
		return fmt.Sprint(reason), true
	}
}
