package entity

import "calibration_analyzer/internal/domain/value"

type PointStatus string

const (
	PointCompliant     PointStatus = "COMPLIANT"
	PointDiscrepant    PointStatus = "DISCREPANT"
	PointIndeterminate PointStatus = "INDETERMINATE"
)

// Calculation: оценка одной точки. Допуски это абсолютные полуширины в Unit,
// nil значит недоступно.
type Calculation struct {
	Parameter string
	Unit      string
	Nominal   value.Quantity

	// SpecExpression: допуск производителя, по которому проверялась точка.
	SpecExpression   string
	SpecTolerance    *float64
	AppliedTolerance *float64

	// Equivalent nil, если точку не удалось оценить.
	Equivalent  *bool
	Explanation string
}

func (c Calculation) Status() PointStatus {
	switch {
	case c.Equivalent == nil:
		return PointIndeterminate
	case *c.Equivalent:
		return PointCompliant
	default:
		return PointDiscrepant
	}
}

func (c Calculation) IsIndeterminate() bool {
	return c.Equivalent == nil
}

func (c Calculation) IsDiscrepant() bool {
	return c.Equivalent != nil && !*c.Equivalent
}

// Discrepancy: расчёт, где применённый допуск больше заявленного.
type Discrepancy struct {
	Calculation
	Issue string
}
