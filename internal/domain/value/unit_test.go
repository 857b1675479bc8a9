package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain/value"
)

func TestParseUnit(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		input  string
		symbol string
		scale  float64
		kind   value.UnitKind
	}{
		{input: "", scale: 1, kind: value.UnitNone},
		{input: "V", symbol: "V", scale: 1, kind: value.UnitAbsolute},
		{input: "mV", symbol: "V", scale: 1e-3, kind: value.UnitAbsolute},
		{input: "µA", symbol: "A", scale: 1e-6, kind: value.UnitAbsolute},
		{input: "kohm", symbol: "Ω", scale: 1e3, kind: value.UnitAbsolute},
		{input: "V DC", symbol: "V", scale: 1, kind: value.UnitAbsolute},
		{input: "degC", symbol: "°C", scale: 1, kind: value.UnitAbsolute},
		{input: "%RH", symbol: "%RH", scale: 1, kind: value.UnitAbsolute},
		{input: "%", symbol: "%", scale: 1e-2, kind: value.UnitRelativeReading},
		{input: "% of reading", symbol: "% of reading", scale: 1e-2, kind: value.UnitRelativeReading},
		{input: "ppm", symbol: "ppm", scale: 1e-6, kind: value.UnitRelativeReading},
		{input: "% FS", symbol: "% fs", scale: 1e-2, kind: value.UnitRelativeRange},
		{input: "% of range", symbol: "% of range", scale: 1e-2, kind: value.UnitRelativeRange},
		{input: "Widgets", symbol: "widgets", scale: 1, kind: value.UnitAbsolute},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(*testing.T) {
			u := value.ParseUnit(tc.input)

			rq.Equal(tc.symbol, u.Symbol)
			rq.InDelta(tc.scale, u.Scale, 1e-15)
			rq.Equal(tc.kind, u.Kind)
		})
	}
}

func TestReferenceToAbsolute(t *testing.T) {
	rq := require.New(t)

	volts := value.Reference{Unit: value.ParseUnit("V"), Nominal: -10, HasNominal: true, FullScale: 100}

	testCases := []struct {
		name   string
		ref    value.Reference
		value  float64
		from   string
		expect float64
		err    error
	}{
		{name: "Bare number", ref: volts, value: 0.03, expect: 0.03},
		{name: "Same unit", ref: volts, value: 0.03, from: "V", expect: 0.03},
		{name: "Prefixed", ref: volts, value: 2, from: "mV", expect: 0.002},
		{name: "Percent of reading", ref: volts, value: 0.01, from: "%", expect: 0.001},
		{name: "Ppm of reading", ref: volts, value: 50, from: "ppm", expect: 0.0005},
		{name: "Percent of full scale", ref: volts, value: 0.05, from: "% FS", expect: 0.05},
		{name: "Other dimension", ref: volts, value: 1, from: "A", err: value.ErrUnitConversion},
		{
			name:  "Relative without nominal",
			ref:   value.Reference{Unit: value.ParseUnit("V")},
			value: 1, from: "%", err: value.ErrUnitConversion,
		},
		{
			name:  "Full scale unknown",
			ref:   value.Reference{Unit: value.ParseUnit("V"), Nominal: 1, HasNominal: true},
			value: 1, from: "% FS", err: value.ErrUnitConversion,
		},
		{
			name:  "Absolute into ppm",
			ref:   value.Reference{Unit: value.ParseUnit("ppm"), Nominal: 10, HasNominal: true},
			value: 0.001, from: "V", expect: 100,
		},
		{
			name:  "Percent into ppm",
			ref:   value.Reference{Unit: value.ParseUnit("ppm")},
			value: 0.01, from: "%", expect: 100,
		},
		{
			name:  "Unitless reference",
			ref:   value.Reference{},
			value: 5, from: "mV", expect: 0.005,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := tc.ref.ToAbsolute(tc.value, value.ParseUnit(tc.from))
			if tc.err != nil {
				rq.ErrorIs(err, tc.err)
				return
			}

			rq.NoError(err)
			rq.InDelta(tc.expect, got, 1e-9)
		})
	}
}
