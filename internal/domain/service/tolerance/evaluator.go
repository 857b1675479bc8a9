// Package tolerance сравнивает точки измерений со спецификациями
// производителя.
package tolerance

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
)

const (
	defaultRelativeEpsilon = 1e-9

	ExplanationNoSpec      = "no matching specification"
	ExplanationNoMeasured  = "no measured value"
	ExplanationNoNominal   = "no nominal value"
	ExplanationConversion  = "unit conversion failed"
	ExplanationUnparseable = "unparseable"
)

type Evaluator struct {
	epsilon float64
}

func NewEvaluator() *Evaluator {
	return &Evaluator{epsilon: defaultRelativeEpsilon}
}

// WithEpsilon задаёт относительную погрешность сравнения применённого и
// заявленного допусков.
func (e *Evaluator) WithEpsilon(epsilon float64) *Evaluator {
	e.epsilon = epsilon
	return e
}

// Evaluate возвращает по расчёту на точку в исходном порядке. Плохое значение
// портит только свою точку.
func (e *Evaluator) Evaluate(points []entity.MeasurementPoint, set entity.SpecificationSet) []entity.Calculation {
	result := make([]entity.Calculation, 0, len(points))

	for _, p := range points {
		result = append(result, e.evaluate(p, set.Entries))
	}

	return result
}

// indeterminate несёт пояснение для точки, которую не удалось оценить.
type indeterminate struct {
	explanation string
}

func (i indeterminate) Error() string {
	return i.explanation
}

func unparseable(field string, q value.Quantity) indeterminate {
	return indeterminate{explanation: fmt.Sprintf("%s %s: %q", ExplanationUnparseable, field, q.Raw)}
}

func (e *Evaluator) evaluate(p entity.MeasurementPoint, entries []entity.SpecificationEntry) entity.Calculation {
	calc := entity.Calculation{
		Parameter: p.Parameter,
		Unit:      p.Unit,
		Nominal:   p.Nominal,
	}

	entry, ok := Match(p, entries)
	if !ok {
		calc.Explanation = ExplanationNoSpec
		return calc
	}

	calc.SpecExpression = entry.Tolerance
	if calc.Unit == "" {
		calc.Unit = entry.Unit
	}

	out, err := e.compute(p, entry, calc.Unit)
	calc.SpecTolerance = out.spec

	if err != nil {
		var ind indeterminate
		if !errors.As(err, &ind) {
			ind = indeterminate{explanation: err.Error()}
		}

		calc.Explanation = ind.explanation
		return calc
	}

	equivalent := e.within(out.applied, *out.spec)

	calc.AppliedTolerance = &out.applied
	calc.Equivalent = &equivalent
	calc.Explanation = explain(out.applied, *out.spec, calc.Unit, equivalent, out.notes)

	return calc
}

type outcome struct {
	spec    *float64
	applied float64
	notes   []string
}

func (e *Evaluator) compute(
	p entity.MeasurementPoint,
	entry entity.SpecificationEntry,
	unit string,
) (outcome, error) {
	for _, f := range []struct {
		name string
		q    value.Quantity
	}{
		{"nominal value", p.Nominal},
		{"measured value", p.Measured},
		{"deviation", p.Deviation},
		{"stated uncertainty", p.Uncertainty},
		{"certificate allowance", p.Allowance},
	} {
		if f.q.IsUnparseable() {
			return outcome{}, unparseable(f.name, f.q)
		}
	}

	ref := value.Reference{
		Unit:      value.ParseUnit(unit),
		FullScale: entry.FullScaleIn(unit),
	}

	if p.Nominal.IsParsed() {
		nominal, err := ref.ToAbsolute(p.Nominal.Value, readingUnit(p.Nominal.Unit, ref))
		if err != nil {
			return outcome{}, conversionFailed("nominal value", err)
		}

		ref.Nominal, ref.HasNominal = nominal, true
	}

	expr, err := entry.Expression(unit)
	if err != nil {
		return outcome{}, indeterminate{explanation: fmt.Sprintf("%s specification tolerance: %q", ExplanationUnparseable, entry.Tolerance)}
	}

	specValue, err := expr.HalfWidth(ref)
	if err != nil {
		return outcome{}, conversionFailed("specification tolerance", err)
	}

	out := outcome{spec: lo.ToPtr(math.Abs(specValue))}

	computed, hasComputed, err := demonstrated(p, ref)
	if err != nil {
		return out, err
	}

	if !p.Allowance.IsParsed() {
		switch {
		case hasComputed:
		case p.Measured.IsParsed():
			return out, indeterminate{explanation: ExplanationNoNominal}
		default:
			return out, indeterminate{explanation: ExplanationNoMeasured}
		}

		out.applied = computed

		return out, nil
	}

	allowance, err := ref.ToAbsolute(p.Allowance.Value, value.ParseUnit(p.Allowance.Unit))
	if err != nil {
		return out, conversionFailed("certificate allowance", err)
	}

	allowance = math.Abs(allowance)

	switch {
	case !hasComputed:
		out.applied = allowance
		out.notes = []string{"applied tolerance taken from certificate allowance " + p.Allowance.String()}
	case e.within(allowance, *out.spec):
		out.applied = math.Max(computed, allowance)
		out.notes = []string{"certificate allowance " + p.Allowance.String() + " is within specification"}
	default:
		out.applied = computed
		out.notes = []string{"certificate allowance " + p.Allowance.String() + " exceeds specification and was ignored"}
	}

	return out, nil
}

// demonstrated = max(|measured - nominal| или |deviation|, uncertainty).
func demonstrated(p entity.MeasurementPoint, ref value.Reference) (float64, bool, error) {
	var (
		deviation float64
		has       bool
	)

	switch {
	case p.Measured.IsParsed() && ref.HasNominal:
		measured, err := ref.ToAbsolute(p.Measured.Value, readingUnit(p.Measured.Unit, ref))
		if err != nil {
			return 0, false, conversionFailed("measured value", err)
		}

		deviation, has = math.Abs(measured-ref.Nominal), true
	case p.Deviation.IsParsed():
		d, err := ref.ToAbsolute(p.Deviation.Value, value.ParseUnit(p.Deviation.Unit))
		if err != nil {
			return 0, false, conversionFailed("deviation", err)
		}

		deviation, has = math.Abs(d), true
	}

	if !has {
		return 0, false, nil
	}

	if p.Uncertainty.IsParsed() {
		u, err := ref.ToAbsolute(p.Uncertainty.Value, value.ParseUnit(p.Uncertainty.Unit))
		if err != nil {
			return 0, false, conversionFailed("stated uncertainty", err)
		}

		deviation = math.Max(deviation, math.Abs(u))
	}

	return deviation, true, nil
}

// readingUnit разбирает единицу показания. Показание в "%": число по шкале
// "%", а не доля от самого себя.
func readingUnit(s string, ref value.Reference) value.Unit {
	u := value.ParseUnit(s)
	if !u.IsRelative() {
		return u
	}

	if ref.Unit.IsRelative() && ref.Unit.Symbol == u.Symbol {
		return value.Unit{Kind: value.UnitNone, Scale: 1}
	}

	return value.Unit{Symbol: u.Symbol, Scale: 1, Kind: value.UnitAbsolute}
}

func conversionFailed(field string, err error) indeterminate {
	return indeterminate{explanation: fmt.Sprintf("%s for %s: %v", ExplanationConversion, field, err)}
}

func (e *Evaluator) within(applied, spec float64) bool {
	if applied <= spec {
		return true
	}

	return applied-spec <= e.epsilon*math.Max(math.Abs(applied), math.Abs(spec))
}

func explain(applied, spec float64, unit string, equivalent bool, notes []string) string {
	relation := "within"
	if !equivalent {
		relation = "exceeds"
	}

	parts := append([]string{fmt.Sprintf(
		"applied tolerance %s %s specification ±%s",
		withUnit(applied, unit), relation, withUnit(spec, unit),
	)}, notes...)

	return strings.Join(parts, "; ")
}

func withUnit(v float64, unit string) string {
	return strings.TrimSpace(value.FormatNumber(v) + " " + unit)
}
