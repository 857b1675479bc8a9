// Package verdict собирает расчёты по точкам в AnalysisResult.
package verdict

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
)

const (
	defaultIndeterminateThreshold = 0.5

	missingSourcePenalty   = 20
	unknownIdentityPenalty = 10

	highConfidence   = 80
	mediumConfidence = 50
)

type Input struct {
	Record         entity.CertificateRecord
	Specifications entity.SpecificationSet
	Calculations   []entity.Calculation
	// Instructions влияют только на текст резюме.
	Instructions string
}

type Aggregator struct {
	indeterminateThreshold float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{indeterminateThreshold: defaultIndeterminateThreshold}
}

// WithIndeterminateThreshold задаёт долю неоценённых точек, выше которой
// анализ без провалов получает INDETERMINATE.
func (a *Aggregator) WithIndeterminateThreshold(threshold float64) *Aggregator {
	a.indeterminateThreshold = threshold
	return a
}

func (a *Aggregator) Aggregate(in Input) entity.AnalysisResult {
	discrepancies := Discrepancies(in.Calculations)

	result := entity.AnalysisResult{
		Verdict:        a.classify(in),
		Confidence:     score(in),
		SpecSource:     in.Specifications.PrimarySource(),
		Equipment:      in.Record.Identity,
		Specifications: in.Specifications,
		Calculations:   in.Calculations,
		Discrepancies:  discrepancies,
	}

	result.Summary = Summarize(result, in.Instructions)

	return result
}

func (a *Aggregator) classify(in Input) entity.Verdict {
	if in.Record.IsEmpty() || in.Specifications.IsEmpty() {
		return entity.VerdictIndeterminate
	}

	if lo.SomeBy(in.Calculations, entity.Calculation.IsDiscrepant) {
		return entity.VerdictFail
	}

	indeterminate := lo.CountBy(in.Calculations, entity.Calculation.IsIndeterminate)
	if len(in.Calculations) == 0 || float64(indeterminate)/float64(len(in.Calculations)) > a.indeterminateThreshold {
		return entity.VerdictIndeterminate
	}

	return entity.VerdictPass
}

// score = 100 * evaluated/total минус штрафы за отсутствие источника
// и за каждое неопознанное поле прибора.
func score(in Input) entity.Confidence {
	if in.Record.IsEmpty() || in.Specifications.IsEmpty() || len(in.Calculations) == 0 {
		return entity.Confidence{Level: entity.ConfidenceLow, Score: 0}
	}

	evaluated := len(in.Calculations) - lo.CountBy(in.Calculations, entity.Calculation.IsIndeterminate)
	s := 100 * evaluated / len(in.Calculations)

	if in.Specifications.PrimarySource() == "" {
		s -= missingSourcePenalty
	}

	s -= unknownIdentityPenalty * in.Record.Identity.UnknownFields()
	s = max(0, min(100, s))

	return entity.Confidence{Level: level(s), Score: s}
}

func level(score int) entity.ConfidenceLevel {
	switch {
	case score >= highConfidence:
		return entity.ConfidenceHigh
	case score >= mediumConfidence:
		return entity.ConfidenceMedium
	default:
		return entity.ConfidenceLow
	}
}

// Discrepancies оставляет неэквивалентные расчёты по порядку.
func Discrepancies(calcs []entity.Calculation) []entity.Discrepancy {
	failed := lo.Filter(calcs, func(c entity.Calculation, _ int) bool {
		return c.IsDiscrepant()
	})

	return lo.Map(failed, func(c entity.Calculation, _ int) entity.Discrepancy {
		return entity.Discrepancy{Calculation: c, Issue: Issue(c)}
	})
}

// Issue описывает, насколько точка выходит за спецификацию.
func Issue(c entity.Calculation) string {
	if c.AppliedTolerance == nil || c.SpecTolerance == nil {
		return fmt.Sprintf("%s is outside specification", c.Parameter)
	}

	applied, spec := *c.AppliedTolerance, *c.SpecTolerance

	issue := fmt.Sprintf(
		"%s: applied tolerance %s exceeds specification ±%s by %s",
		c.Parameter, withUnit(applied, c.Unit), withUnit(spec, c.Unit), withUnit(applied-spec, c.Unit),
	)

	if c.Nominal.IsPresent() {
		issue += " at nominal " + c.Nominal.String()
	}

	return issue
}

func withUnit(v float64, unit string) string {
	return strings.TrimSpace(value.FormatNumber(v) + " " + unit)
}
