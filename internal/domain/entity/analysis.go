package entity

type Verdict string

const (
	VerdictPass          Verdict = "PASS"
	VerdictFail          Verdict = "FAIL"
	VerdictIndeterminate Verdict = "INDETERMINATE"
)

func (v Verdict) String() string {
	return string(v)
}

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "High"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceLow    ConfidenceLevel = "Low"
)

type Confidence struct {
	Level ConfidenceLevel
	Score int // 0 - 100
}

// AnalysisResult собирается один раз за анализ и потом не меняется.
type AnalysisResult struct {
	Verdict        Verdict
	Confidence     Confidence
	Summary        string
	SpecSource     string
	Equipment      EquipmentIdentity
	Specifications SpecificationSet
	Calculations   []Calculation
	Discrepancies  []Discrepancy
}

// Alert публикуется для вердиктов, которые требуют внимания человека.
type Alert struct {
	Equipment  EquipmentIdentity
	Verdict    Verdict
	Confidence Confidence
	Summary    string
	TraceID    string
}
