package server

import (
	"github.com/samber/lo"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/pkg/rest"
)

const notAvailable = "N/A"

// NewRESTAnalysisResult собирает тело ответа. Отсутствующий допуск
// отдаётся как "N/A".
func NewRESTAnalysisResult(result entity.AnalysisResult) rest.AnalysisResult {
	return rest.AnalysisResult{
		Verdict:         result.Verdict.String(),
		Confidence:      string(result.Confidence.Level),
		ConfidenceScore: result.Confidence.Score,
		Summary:         result.Summary,
		SpecSource:      result.SpecSource,
		Equipment:       newRESTEquipment(result.Equipment),
		Specifications:  newRESTSpecifications(result.Specifications),
		Calculations:    lo.Map(result.Calculations, func(c entity.Calculation, _ int) rest.Calculation { return newRESTCalculation(c) }),
		Discrepancies:   lo.Map(result.Discrepancies, func(d entity.Discrepancy, _ int) rest.Discrepancy { return newRESTDiscrepancy(d) }),
	}
}

func newRESTEquipment(e entity.EquipmentIdentity) rest.Equipment {
	return rest.Equipment{
		Manufacturer:      e.Manufacturer,
		Model:             e.Model,
		EquipmentType:     e.EquipmentType,
		SerialNumber:      e.SerialNumber,
		CertificateNumber: e.CertificateNumber,
		CalibrationDate:   e.CalibrationDate,
	}
}

// newRESTSpecifications: параметр в его допуск, или в список, если допуск
// зависит от диапазона.
func newRESTSpecifications(set entity.SpecificationSet) map[string]any {
	grouped := lo.GroupBy(set.Entries, func(e entity.SpecificationEntry) string { return e.Parameter })
	result := make(map[string]any, len(grouped))

	for parameter, entries := range grouped {
		specs := lo.Map(entries, func(e entity.SpecificationEntry, _ int) rest.Specification { return newRESTSpecification(e) })

		if len(specs) == 1 {
			result[parameter] = specs[0]
			continue
		}

		result[parameter] = specs
	}

	return result
}

func newRESTSpecification(e entity.SpecificationEntry) rest.Specification {
	spec := rest.Specification{
		Tolerance: e.Tolerance,
		Unit:      e.Unit,
		Details:   e.Details,
	}

	if e.Range != nil {
		spec.Range = &rest.Range{Min: e.Range.Min, Max: e.Range.Max}
	}

	return spec
}

func newRESTCalculation(c entity.Calculation) rest.Calculation {
	return rest.Calculation{
		Parameter:        c.Parameter,
		Nominal:          nominal(c.Nominal),
		Unit:             c.Unit,
		SpecExpression:   c.SpecExpression,
		SpecTolerance:    specTolerance(c.SpecTolerance),
		AppliedTolerance: c.AppliedTolerance,
		Equivalent:       c.Equivalent,
		Status:           string(c.Status()),
		Explanation:      c.Explanation,
	}
}

func newRESTDiscrepancy(d entity.Discrepancy) rest.Discrepancy {
	return rest.Discrepancy{
		Parameter:        d.Parameter,
		Nominal:          nominal(d.Nominal),
		Unit:             d.Unit,
		SpecTolerance:    specTolerance(d.SpecTolerance),
		AppliedTolerance: d.AppliedTolerance,
		Issue:            d.Issue,
	}
}

func nominal(q value.Quantity) any {
	switch {
	case q.IsParsed():
		return q.Value
	case q.IsUnparseable():
		return q.Raw
	default:
		return nil
	}
}

func specTolerance(v *float64) any {
	if v == nil {
		return notAvailable
	}

	return *v
}
