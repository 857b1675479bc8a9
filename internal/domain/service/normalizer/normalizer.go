// Package normalizer превращает извлечённые данные в CertificateRecord.
package normalizer

import (
	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/pkg/errcodes"
)

//nolint:gochecknoglobals
var (
	manufacturerKeys  = []string{"Manufacturer", "Make", "Brand"}
	modelKeys         = []string{"Model", "ModelNumber", "ModelNo"}
	equipmentTypeKeys = []string{"EquipmentType", "Type", "Equipment", "Description"}
	serialKeys        = []string{"SerialNumber", "Serial", "SerialNo"}
	certificateKeys   = []string{"CertificateNumber", "CertificateNo", "Certificate"}
	dateKeys          = []string{"CalibrationDate", "Date", "CalDate"}

	rowListKeys = []string{"Measurements", "Results", "MeasurementResults", "Readings", "Data"}

	parameterKeys   = []string{"Parameter", "Function", "Quantity", "Name", "Test"}
	unitKeys        = []string{"Unit", "Units"}
	nominalKeys     = []string{"Nominal", "NominalValue", "Setpoint", "Reference", "Standard", "Applied"}
	measuredKeys    = []string{"Measured", "MeasuredValue", "AsLeft", "AsFound", "Reading", "Indicated"}
	deviationKeys   = []string{"Deviation", "Error", "Difference"}
	uncertaintyKeys = []string{"Uncertainty", "StatedUncertainty", "ExpandedUncertainty", "MU"}
	allowanceKeys   = []string{"Tolerance", "Allowance", "Limit", "AcceptanceLimit", "Spec"}
)

// Normalize берёт данные прибора из первой записи, а строки измерений из всех
// записей по порядку. Одно плохое значение не ломает разбор: неразобранные
// числа остаются unparseable.
func Normalize(raw value.RawCertificate) (entity.CertificateRecord, error) {
	switch raw.Kind() {
	case value.RawErrorSentinel:
		return entity.CertificateRecord{}, domain.NewError(errcodes.ExtractionError, "extraction failed: "+raw.Reason())
	case value.RawSingle, value.RawMulti:
	default:
		return entity.CertificateRecord{}, domain.NewError(errcodes.InvalidCertificate, "certificate data is not classified")
	}

	records := raw.Records()
	if len(records) == 0 || isBlank(records) {
		return entity.CertificateRecord{}, domain.NewError(errcodes.ExtractionEmpty, "certificate data is empty")
	}

	var points []entity.MeasurementPoint

	for _, record := range records {
		points = append(points, rows(record)...)
	}

	return entity.CertificateRecord{
		Identity: identity(records[0]),
		Points:   points,
		LowData:  len(points) == 0,
	}, nil
}

func isBlank(records []value.Record) bool {
	for _, r := range records {
		if len(r) > 0 {
			return false
		}
	}

	return true
}

func identity(r value.Record) entity.EquipmentIdentity {
	return entity.EquipmentIdentity{
		Manufacturer:      orDefault(r.String(manufacturerKeys...), entity.UnknownManufacturer),
		Model:             orDefault(r.String(modelKeys...), entity.UnknownModel),
		EquipmentType:     orDefault(r.String(equipmentTypeKeys...), entity.UnknownType),
		SerialNumber:      r.String(serialKeys...),
		CertificateNumber: r.String(certificateKeys...),
		CalibrationDate:   r.String(dateKeys...),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}

// rows возвращает саму запись, если это плоский сертификат из одной строки,
// а за ней вложенные таблицы измерений.
func rows(r value.Record) []entity.MeasurementPoint {
	var points []entity.MeasurementPoint

	if p, ok := point(r); ok && hasMeasurement(r) {
		points = append(points, p)
	}

	for _, nested := range r.Records(rowListKeys...) {
		if p, ok := point(nested); ok {
			points = append(points, p)
		}

		points = append(points, tableRows(nested)...)
	}

	return points
}

// tableRows разбирает ещё один уровень вложенности, например {"Results": [{"Readings": [...]}]}.
func tableRows(r value.Record) []entity.MeasurementPoint {
	var points []entity.MeasurementPoint

	for _, nested := range r.Records(rowListKeys...) {
		if p, ok := point(nested); ok {
			points = append(points, p)
		}
	}

	return points
}

func hasMeasurement(r value.Record) bool {
	for _, keys := range [][]string{nominalKeys, measuredKeys, deviationKeys} {
		if _, ok := r.Get(keys...); ok {
			return true
		}
	}

	return false
}

func point(r value.Record) (entity.MeasurementPoint, bool) {
	parameter := r.String(parameterKeys...)
	if parameter == "" {
		return entity.MeasurementPoint{}, false
	}

	nominal := quantity(r, nominalKeys)
	measured := quantity(r, measuredKeys)
	deviation := quantity(r, deviationKeys)
	uncertainty := quantity(r, uncertaintyKeys)
	allowance := quantity(r, allowanceKeys)

	unit := r.String(unitKeys...)
	if unit == "" {
		unit = firstUnit(nominal, measured, deviation)
	}

	return entity.MeasurementPoint{
		Parameter:   parameter,
		Unit:        unit,
		Nominal:     nominal.WithUnit(unit),
		Measured:    measured.WithUnit(unit),
		Deviation:   deviation.WithUnit(unit),
		Uncertainty: uncertainty.WithUnit(unit),
		Allowance:   allowance.WithUnit(unit),
	}, true
}

func quantity(r value.Record, keys []string) value.Quantity {
	v, ok := r.Get(keys...)
	if !ok {
		return value.Quantity{}
	}

	return value.ParseQuantity(v)
}

func firstUnit(qs ...value.Quantity) string {
	for _, q := range qs {
		if q.IsParsed() && q.Unit != "" {
			return q.Unit
		}
	}

	return ""
}
