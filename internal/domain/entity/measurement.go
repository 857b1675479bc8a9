package entity

import "calibration_analyzer/internal/domain/value"

// MeasurementPoint: одна строка таблицы калибровки.
type MeasurementPoint struct {
	Parameter string
	Unit      string

	Nominal     value.Quantity
	Measured    value.Quantity
	Deviation   value.Quantity
	Uncertainty value.Quantity
	// Allowance: допуск, напечатанный в самом сертификате.
	Allowance value.Quantity
}

// CertificateRecord: каноническая форма извлечённого сертификата.
type CertificateRecord struct {
	Identity EquipmentIdentity
	Points   []MeasurementPoint
	// LowData выставляется, если не нашлось ни одной строки измерений.
	LowData bool
}

func (c CertificateRecord) IsEmpty() bool {
	return len(c.Points) == 0
}
