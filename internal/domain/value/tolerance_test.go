package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain/value"
)

func TestParseToleranceHalfWidth(t *testing.T) {
	rq := require.New(t)

	ref := value.Reference{Unit: value.ParseUnit("V"), Nominal: 10, HasNominal: true, FullScale: 100}

	testCases := []struct {
		expr   string
		unit   string
		expect float64
		limits bool
	}{
		{expr: "±0.03", unit: "V", expect: 0.03},
		{expr: "+/- 0.03 V", expect: 0.03},
		{expr: "30 mV", expect: 0.03},
		{expr: "±(0.01% + 2 mV)", unit: "V", expect: 0.003},
		{expr: "0.01% of reading + 2 mV", unit: "V", expect: 0.003},
		{expr: "50 ppm", unit: "V", expect: 0.0005},
		{expr: "0.05 % FS", unit: "V", expect: 0.05},
		{expr: "9.97 to 10.03", unit: "V", expect: 0.03, limits: true},
		{expr: "9.97 V .. 10.03 V", expect: 0.03, limits: true},
		{expr: "[-0.03, 0.05]", unit: "V", expect: 0.04, limits: true},
		{expr: "-0.03 to +0.05 V", expect: 0.04, limits: true},
		{expr: "1,5 mV", expect: 0.0015},
	}

	for _, tc := range testCases {
		t.Run(tc.expr, func(*testing.T) {
			expr, err := value.ParseTolerance(tc.expr, tc.unit)
			rq.NoError(err)
			rq.Equal(tc.limits, expr.Limits != nil)

			got, err := expr.HalfWidth(ref)
			rq.NoError(err)
			rq.InDelta(tc.expect, got, 1e-9)
		})
	}
}

func TestParseToleranceErrors(t *testing.T) {
	rq := require.New(t)

	for _, expr := range []string{"", "   ", "0.01% + 2 digits", "5 counts", "see manual"} {
		_, err := value.ParseTolerance(expr, "V")
		rq.ErrorIs(err, value.ErrUnparseable, expr)
	}
}

func TestToleranceHalfWidthConversionFailure(t *testing.T) {
	rq := require.New(t)

	expr, err := value.ParseTolerance("0.5 A", "")
	rq.NoError(err)

	_, err = expr.HalfWidth(value.Reference{Unit: value.ParseUnit("V")})
	rq.ErrorIs(err, value.ErrUnitConversion)
}
