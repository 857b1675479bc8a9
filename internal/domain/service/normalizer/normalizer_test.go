package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/service/normalizer"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/pkg/errcodes"
)

func decode(t *testing.T, data string) value.RawCertificate {
	t.Helper()

	raw, err := value.DecodeRawCertificate([]byte(data))
	require.NoError(t, err)

	return raw
}

func TestNormalizeFlatRecord(t *testing.T) {
	rq := require.New(t)

	record, err := normalizer.Normalize(decode(t, `{
		"Manufacturer": "Fluke",
		"Model": "87V",
		"EquipmentType": "Digital Multimeter",
		"SerialNumber": "12345",
		"Parameter": "Voltage",
		"Nominal": 10.00,
		"Measured": "10.02 V",
		"Uncertainty": 0.01
	}`))
	rq.NoError(err)

	rq.Equal(entity.EquipmentIdentity{
		Manufacturer:  "Fluke",
		Model:         "87V",
		EquipmentType: "Digital Multimeter",
		SerialNumber:  "12345",
	}, record.Identity)
	rq.False(record.LowData)
	rq.Len(record.Points, 1)

	p := record.Points[0]
	rq.Equal("Voltage", p.Parameter)
	rq.Equal("V", p.Unit)
	rq.InDelta(10.0, p.Nominal.Value, 1e-12)
	rq.Equal("V", p.Nominal.Unit)
	rq.InDelta(10.02, p.Measured.Value, 1e-12)
	rq.InDelta(0.01, p.Uncertainty.Value, 1e-12)
	rq.False(p.Deviation.IsPresent())
	rq.False(p.Allowance.IsPresent())
}

func TestNormalizeMultiRecord(t *testing.T) {
	rq := require.New(t)

	record, err := normalizer.Normalize(decode(t, `[
		{"Make": "Keysight", "model_number": "34465A", "Results": [
			{"Function": "DC Voltage", "Unit": "V", "Nominal": 1, "Reading": 1.00001},
			{"Unit": "V", "Nominal": 2, "Reading": 2.0},
			{"Function": "DC Current", "Unit": "mA", "Nominal": 10, "Reading": "n/a", "Tolerance": "±0.05"}
		]},
		{"Parameter": "Resistance", "Nominal": "100 Ω", "Deviation": "0.002 Ω"},
		{"Manufacturer": "Ignored", "Measurements": {"Parameter": "Frequency", "Nominal": 1000, "Measured": "1000.1"}}
	]`))
	rq.NoError(err)

	rq.Equal("Keysight", record.Identity.Manufacturer)
	rq.Equal("34465A", record.Identity.Model)
	rq.Equal(entity.UnknownType, record.Identity.EquipmentType)

	params := make([]string, 0, len(record.Points))
	for _, p := range record.Points {
		params = append(params, p.Parameter)
	}

	rq.Equal([]string{"DC Voltage", "DC Current", "Resistance", "Frequency"}, params)

	current := record.Points[1]
	rq.Equal("mA", current.Unit)
	rq.False(current.Measured.IsPresent())
	rq.True(current.Allowance.IsParsed())
	rq.Equal("mA", current.Allowance.Unit)

	resistance := record.Points[2]
	rq.Equal("Ω", resistance.Unit)
	rq.InDelta(0.002, resistance.Deviation.Value, 1e-12)
}

func TestNormalizeUnparseableValue(t *testing.T) {
	rq := require.New(t)

	record, err := normalizer.Normalize(decode(t, `{"Model": "X", "Parameter": "Voltage", "Nominal": 5, "Measured": "overload"}`))
	rq.NoError(err)
	rq.Len(record.Points, 1)
	rq.True(record.Points[0].Measured.IsUnparseable())
	rq.Equal("overload", record.Points[0].Measured.Raw)
	rq.Equal(entity.UnknownManufacturer, record.Identity.Manufacturer)
}

func TestNormalizeLowData(t *testing.T) {
	rq := require.New(t)

	record, err := normalizer.Normalize(decode(t, `{"Manufacturer": "Fluke", "Model": "87V", "Name": "Fluke 87V"}`))
	rq.NoError(err)
	rq.True(record.LowData)
	rq.Empty(record.Points)
	rq.True(record.IsEmpty())
}

func TestNormalizeErrors(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		raw  value.RawCertificate
		code string
	}{
		{name: "Empty array", raw: decode(t, `[]`), code: errcodes.ExtractionEmpty.String()},
		{name: "Empty object", raw: decode(t, `{}`), code: errcodes.ExtractionEmpty.String()},
		{name: "Array of empty objects", raw: decode(t, `[{}, {}]`), code: errcodes.ExtractionEmpty.String()},
		{name: "Sentinel", raw: decode(t, `{"error": "timeout"}`), code: errcodes.ExtractionError.String()},
		{name: "Zero value", raw: value.RawCertificate{}, code: errcodes.InvalidCertificate.String()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			_, err := normalizer.Normalize(tc.raw)
			rq.Error(err)

			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(tc.code, code.String())
		})
	}
}
