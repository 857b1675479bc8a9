// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// AnalyzeRequest Запрос на анализ извлечённых данных сертификата
type AnalyzeRequest struct {
	// CertificateData Объект или массив объектов, полученный от экстрактора
	CertificateData any `json:"certificate_data" validate:"required"`

	// CustomInstructions Пожелания к тексту summary, на вердикт не влияют
	CustomInstructions *string `json:"custom_instructions,omitempty" validate:"omitempty,max=2000"`
}

// Status Ответ GET /
type Status struct {
	Message string `json:"message"`
}

// AnalysisResult Результат анализа
type AnalysisResult struct {
	Verdict         string         `json:"verdict"`
	Confidence      string         `json:"confidence"`
	ConfidenceScore int            `json:"confidence_score"`
	Summary         string         `json:"summary"`
	SpecSource      string         `json:"spec_source"`
	Equipment       Equipment      `json:"equipment"`
	Specifications  map[string]any `json:"specifications"`
	Calculations    []Calculation  `json:"calculations"`
	Discrepancies   []Discrepancy  `json:"discrepancies"`
}

type Equipment struct {
	Manufacturer      string `json:"manufacturer"`
	Model             string `json:"model"`
	EquipmentType     string `json:"equipment_type"`
	SerialNumber      string `json:"serial_number,omitempty"`
	CertificateNumber string `json:"certificate_number,omitempty"`
	CalibrationDate   string `json:"calibration_date,omitempty"`
}

// Specification Допуск производителя
type Specification struct {
	Tolerance string            `json:"tolerance"`
	Unit      string            `json:"unit,omitempty"`
	Range     *Range            `json:"range,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Calculation Результат проверки одной точки измерения.
// Nominal: число, исходный текст или null. SpecTolerance: число или "N/A".
type Calculation struct {
	Parameter        string   `json:"parameter"`
	Nominal          any      `json:"nominal"`
	Unit             string   `json:"unit,omitempty"`
	SpecExpression   string   `json:"spec_expression,omitempty"`
	SpecTolerance    any      `json:"spec_tolerance"`
	AppliedTolerance *float64 `json:"applied_tolerance"`
	Equivalent       *bool    `json:"equivalent"`
	Status           string   `json:"status"`
	Explanation      string   `json:"explanation"`
}

type Discrepancy struct {
	Parameter        string   `json:"parameter"`
	Nominal          any      `json:"nominal"`
	Unit             string   `json:"unit,omitempty"`
	SpecTolerance    any      `json:"spec_tolerance"`
	AppliedTolerance *float64 `json:"applied_tolerance"`
	Issue            string   `json:"issue"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
