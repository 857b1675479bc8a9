package specsource_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/infrastructure/specsource"
)

func TestDecodeSpecifications(t *testing.T) {
	rq := require.New(t)

	tests := []struct {
		name     string
		document string
		want     entity.SpecificationSet
	}{
		{
			name: "Source with parameter mapping",
			document: `{
				"spec_source": "Fluke 87V manual",
				"specifications": {
					"Voltage": "±0.03 V",
					"Current": {"tolerance": "±(0.5% + 2 mA)", "unit": "A", "range": [0, 10], "note": "DC"}
				}
			}`,
			want: entity.SpecificationSet{
				Entries: []entity.SpecificationEntry{
					{Parameter: "Voltage", Tolerance: "±0.03 V"},
					{
						Parameter: "Current",
						Unit:      "A",
						Tolerance: "±(0.5% + 2 mA)",
						Range:     &entity.RangeBounds{Min: 0, Max: 10},
						Details:   map[string]string{"note": "DC"},
					},
				},
				Sources: []string{"Fluke 87V manual"},
			},
		},
		{
			name: "Range dependent entries take the default source",
			document: `{"Voltage": [
				{"tolerance": "±0.01 V", "range": "0 to 2 V"},
				{"tolerance": "±0.1 V", "range": {"min": 2, "max": 20}}
			]}`,
			want: entity.SpecificationSet{
				Entries: []entity.SpecificationEntry{
					{Parameter: "Voltage", Tolerance: "±0.01 V", Range: &entity.RangeBounds{Min: 0, Max: 2}},
					{Parameter: "Voltage", Tolerance: "±0.1 V", Range: &entity.RangeBounds{Min: 2, Max: 20}},
				},
				Sources: []string{"catalog"},
			},
		},
		{
			name:     "Entry list",
			document: `[{"parameter": "Resistance", "accuracy": "0.05 %", "unit": "Ω"}, {"name": "Frequency", "spec": 0.01}]`,
			want: entity.SpecificationSet{
				Entries: []entity.SpecificationEntry{
					{Parameter: "Resistance", Unit: "Ω", Tolerance: "0.05 %"},
					{Parameter: "Frequency", Tolerance: "0.01"},
				},
				Sources: []string{"catalog"},
			},
		},
		{
			name:     "List entries come before the mapping",
			document: `{"Voltage": "±1 V", "sources": ["a", "b"], "specs": [{"parameter": "Current", "tolerance": "±1 A"}]}`,
			want: entity.SpecificationSet{
				Entries: []entity.SpecificationEntry{
					{Parameter: "Current", Tolerance: "±1 A"},
					{Parameter: "Voltage", Tolerance: "±1 V"},
				},
				Sources: []string{"a", "b"},
			},
		},
		{
			name:     "Entries without tolerance are skipped",
			document: `{"Voltage": {"unit": "V"}, "Current": null}`,
			want:     entity.SpecificationSet{},
		},
		{
			name:     "Equipment metadata is not a parameter",
			document: `{"manufacturer": "Fluke", "model": "87V", "equipment_type": "Multimeter", "notes": "DC only", "Voltage": "±0.03 V"}`,
			want: entity.SpecificationSet{
				Entries: []entity.SpecificationEntry{{Parameter: "Voltage", Tolerance: "±0.03 V"}},
				Sources: []string{"catalog"},
			},
		},
		{
			name:     "Metadata only",
			document: `{"Manufacturer": "Fluke", "Model": "87V"}`,
			want:     entity.SpecificationSet{},
		},
		{
			name:     "Null document",
			document: `null`,
			want:     entity.SpecificationSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(*testing.T) {
			got, err := specsource.DecodeSpecifications([]byte(tt.document), "catalog")
			rq.NoError(err)
			rq.Equal(tt.want, got)
		})
	}
}

func TestDecodeSpecificationsInvalid(t *testing.T) {
	rq := require.New(t)

	for _, document := range []string{
		`"±0.03 V"`,
		`{"Voltage": `,
		`[{"tolerance": "±1 V"}]`,
		`[1, 2]`,
		`{"Voltage": [true]}`,
	} {
		t.Run(document, func(*testing.T) {
			_, err := specsource.DecodeSpecifications([]byte(document), "catalog")
			rq.ErrorIs(err, specsource.ErrInvalidDocument)
		})
	}
}
