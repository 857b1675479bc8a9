package entity

import "strings"

const (
	UnknownManufacturer = "Unknown Manufacturer"
	UnknownModel        = "Unknown Model"
	UnknownType         = "Unknown Type"
)

// EquipmentIdentity: прибор из сертификата. Если извлечь поле не удалось,
// в нём лежит Unknown*.
type EquipmentIdentity struct {
	Manufacturer  string `json:"manufacturer"`
	Model         string `json:"model"`
	EquipmentType string `json:"equipment_type"`

	SerialNumber      string `json:"serial_number,omitempty"`
	CertificateNumber string `json:"certificate_number,omitempty"`
	CalibrationDate   string `json:"calibration_date,omitempty"`
}

// UnknownFields считает поля, оставшиеся Unknown*.
func (e EquipmentIdentity) UnknownFields() int {
	var n int

	for _, v := range []string{e.Manufacturer, e.Model, e.EquipmentType} {
		if isUnknown(v) {
			n++
		}
	}

	return n
}

func (e EquipmentIdentity) IsResolved() bool {
	return e.UnknownFields() == 0
}

func (e EquipmentIdentity) HasManufacturer() bool {
	return !isUnknown(e.Manufacturer)
}

func (e EquipmentIdentity) HasModel() bool {
	return !isUnknown(e.Model)
}

func (e EquipmentIdentity) String() string {
	return strings.TrimSpace(e.Manufacturer + " " + e.Model)
}

func isUnknown(v string) bool {
	return v == "" || strings.HasPrefix(v, "Unknown ")
}
