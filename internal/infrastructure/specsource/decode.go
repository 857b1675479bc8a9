package specsource

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var ErrInvalidDocument = errors.New("invalid specification document")

//nolint:gochecknoglobals
var (
	toleranceKeys = []string{"tolerance", "tolerance_expression", "accuracy", "spec", "specification"}
	unitKeys      = []string{"unit", "units"}
	rangeKeys     = []string{"range_bounds", "range", "bounds"}
	parameterKeys = []string{"parameter", "name", "function"}
	sourceKeys    = []string{"spec_source", "source", "sources"}
	listKeys      = []string{"specifications", "specs", "entries"}
	// metadataKeys описывают прибор, а не параметр, и в записи не попадают.
	metadataKeys = []string{
		"manufacturer", "make", "model", "equipment_type", "type", "equipment",
		"notes", "note", "comments", "description",
	}
)

// DecodeSpecifications читает документ спецификаций. Допустимые формы:
//
//	{"spec_source": "...", "specifications": {"Voltage": "±0.03 V", ...}}
//	{"Voltage": {"tolerance": "±0.03", "unit": "V", "range": [0, 20]}, ...}
//	{"specifications": [{"parameter": "Voltage", "tolerance": "..."}, ...]}
//
// Параметру может соответствовать список записей по диапазонам. Порядок
// объявления сохраняется.
func DecodeSpecifications(data []byte, defaultSource string) (entity.SpecificationSet, error) {
	iter := jsoniter.ParseBytes(json, data)

	var (
		set     entity.SpecificationSet
		entries []entity.SpecificationEntry
		err     error
	)

	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.Skip()
	case jsoniter.ArrayValue:
		entries, err = readEntryList(iter)
	case jsoniter.ObjectValue:
		entries, set.Sources, err = readDocument(iter)
	default:
		return entity.SpecificationSet{}, fmt.Errorf("top level: %w", ErrInvalidDocument)
	}

	if err != nil {
		return entity.SpecificationSet{}, err
	}

	if err := iterError(iter); err != nil {
		return entity.SpecificationSet{}, err
	}

	set.Entries = entries
	if len(set.Sources) == 0 && len(entries) > 0 && defaultSource != "" {
		set.Sources = []string{defaultSource}
	}

	return set, nil
}

func readDocument(iter *jsoniter.Iterator) ([]entity.SpecificationEntry, []string, error) {
	var (
		entries []entity.SpecificationEntry
		sources []string
		mapping []entity.SpecificationEntry
	)

	for field := iter.ReadObject(); field != ""; field = iter.ReadObject() {
		switch {
		case isKey(field, sourceKeys):
			sources = append(sources, readSources(iter)...)
		case isKey(field, metadataKeys):
			iter.Skip()
		case isKey(field, listKeys):
			list, err := readEntries(iter)
			if err != nil {
				return nil, nil, err
			}

			entries = append(entries, list...)
		default:
			list, err := readParameter(iter, field)
			if err != nil {
				return nil, nil, err
			}

			mapping = append(mapping, list...)
		}
	}

	return append(entries, mapping...), sources, iterError(iter)
}

func readSources(iter *jsoniter.Iterator) []string {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		if s := strings.TrimSpace(iter.ReadString()); s != "" {
			return []string{s}
		}
	case jsoniter.ArrayValue:
		var sources []string

		for iter.ReadArray() {
			if iter.WhatIsNext() != jsoniter.StringValue {
				iter.Skip()
				continue
			}

			if s := strings.TrimSpace(iter.ReadString()); s != "" {
				sources = append(sources, s)
			}
		}

		return sources
	default:
		iter.Skip()
	}

	return nil
}

// readEntries читает значение ключа "specifications": объект параметр → детали
// или список записей с полем parameter.
func readEntries(iter *jsoniter.Iterator) ([]entity.SpecificationEntry, error) {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		var entries []entity.SpecificationEntry

		for parameter := iter.ReadObject(); parameter != ""; parameter = iter.ReadObject() {
			list, err := readParameter(iter, parameter)
			if err != nil {
				return nil, err
			}

			entries = append(entries, list...)
		}

		return entries, iterError(iter)
	case jsoniter.ArrayValue:
		return readEntryList(iter)
	case jsoniter.NilValue:
		iter.Skip()
		return nil, nil
	default:
		return nil, fmt.Errorf("specifications: %w", ErrInvalidDocument)
	}
}

func readEntryList(iter *jsoniter.Iterator) ([]entity.SpecificationEntry, error) {
	var entries []entity.SpecificationEntry

	for i := 0; iter.ReadArray(); i++ {
		raw, ok := iter.Read().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d: %w", i, ErrInvalidDocument)
		}

		parameter := stringField(raw, parameterKeys)
		if parameter == "" {
			return nil, fmt.Errorf("entry %d has no parameter: %w", i, ErrInvalidDocument)
		}

		entry, ok := entryFromMap(parameter, raw)
		if ok {
			entries = append(entries, entry)
		}
	}

	return entries, iterError(iter)
}

// readParameter читает детали одного параметра: строку допуска, объект или
// их список.
func readParameter(iter *jsoniter.Iterator, parameter string) ([]entity.SpecificationEntry, error) {
	raw := iter.Read()
	if err := iterError(iter); err != nil {
		return nil, err
	}

	items, isList := raw.([]any)
	if !isList {
		items = []any{raw}
	}

	entries := make([]entity.SpecificationEntry, 0, len(items))

	for _, item := range items {
		switch v := item.(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				entries = append(entries, entity.SpecificationEntry{Parameter: parameter, Tolerance: strings.TrimSpace(v)})
			}
		case float64:
			entries = append(entries, entity.SpecificationEntry{Parameter: parameter, Tolerance: value.FormatNumber(v)})
		case map[string]any:
			if entry, ok := entryFromMap(parameter, v); ok {
				entries = append(entries, entry)
			}
		default:
			return nil, fmt.Errorf("parameter %q: %w", parameter, ErrInvalidDocument)
		}
	}

	return entries, nil
}

// entryFromMap собирает запись из объекта. Объект без допуска пропускается.
func entryFromMap(parameter string, raw map[string]any) (entity.SpecificationEntry, bool) {
	entry := entity.SpecificationEntry{
		Parameter: strings.TrimSpace(parameter),
		Tolerance: stringField(raw, toleranceKeys),
		Unit:      stringField(raw, unitKeys),
		Range:     rangeField(raw),
	}

	if entry.Tolerance == "" {
		return entity.SpecificationEntry{}, false
	}

	skip := make(map[string]struct{})
	for _, keys := range [][]string{toleranceKeys, unitKeys, rangeKeys, parameterKeys} {
		for _, k := range keys {
			skip[foldKey(k)] = struct{}{}
		}
	}

	for k, v := range raw {
		if _, ok := skip[foldKey(k)]; ok || v == nil {
			continue
		}

		if entry.Details == nil {
			entry.Details = make(map[string]string)
		}

		entry.Details[k] = detailString(v)
	}

	return entry, true
}

func stringField(raw map[string]any, keys []string) string {
	v, ok := value.Record(raw).Get(keys...)
	if !ok {
		return ""
	}

	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return value.FormatNumber(s)
	default:
		return ""
	}
}

func rangeField(raw map[string]any) *entity.RangeBounds {
	v, ok := value.Record(raw).Get(rangeKeys...)
	if !ok {
		return nil
	}

	var lowRaw, highRaw any

	switch r := v.(type) {
	case []any:
		if len(r) != 2 { //nolint:mnd // [min, max]
			return nil
		}

		lowRaw, highRaw = r[0], r[1]
	case map[string]any:
		lowRaw, _ = value.Record(r).Get("min", "low", "from")
		highRaw, _ = value.Record(r).Get("max", "high", "to")
	case string:
		expr, err := value.ParseTolerance(r, "")
		if err != nil || expr.Limits == nil {
			return nil
		}

		return &entity.RangeBounds{Min: expr.Limits[0].Value, Max: expr.Limits[1].Value}
	default:
		return nil
	}

	low, high := value.ParseQuantity(lowRaw), value.ParseQuantity(highRaw)
	if !low.IsParsed() || !high.IsParsed() || high.Value < low.Value {
		return nil
	}

	return &entity.RangeBounds{Min: low.Value, Max: high.Value}
}

func detailString(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case float64:
		return value.FormatNumber(d)
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return fmt.Sprint(d)
		}

		return string(b)
	}
}

func isKey(field string, keys []string) bool {
	folded := foldKey(field)

	for _, k := range keys {
		if folded == foldKey(k) {
			return true
		}
	}

	return false
}

func foldKey(k string) string {
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.ToLower(k))
}

func iterError(iter *jsoniter.Iterator) error {
	if iter.Error == nil {
		return nil
	}

	return fmt.Errorf("jsoniter: %w", errors.Join(ErrInvalidDocument, iter.Error))
}
