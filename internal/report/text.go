// Package report печатает результат анализа текстовым отчётом по разделам.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
)

const notAvailable = "N/A"

type Printer struct {
	pass    *color.Color
	fail    *color.Color
	warn    *color.Color
	heading *color.Color
}

// NewPrinter создаёт принтер. colored включает ANSI-цвета независимо от
// терминала.
func NewPrinter(colored bool) Printer {
	p := Printer{
		pass:    color.New(color.FgGreen, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		heading: color.New(color.Bold),
	}

	for _, c := range []*color.Color{p.pass, p.fail, p.warn, p.heading} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p Printer) Render(w io.Writer, result entity.AnalysisResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Verdict:     %s\n", p.verdict(result.Verdict))
	fmt.Fprintf(&sb, "Confidence:  %s (%d/100)\n", result.Confidence.Level, result.Confidence.Score)
	fmt.Fprintf(&sb, "Spec source: %s\n", orNA(result.SpecSource))
	fmt.Fprintf(&sb, "Equipment:   %s %s (%s)\n\n",
		result.Equipment.Manufacturer, result.Equipment.Model, result.Equipment.EquipmentType)

	sb.WriteString(p.heading.Sprint("SUMMARY:") + "\n\n" + result.Summary + "\n\n")

	p.calculations(&sb, result.Calculations)
	p.discrepancies(&sb, result.Discrepancies)
	p.specifications(&sb, result.Specifications)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}

	return nil
}

func (p Printer) verdict(v entity.Verdict) string {
	switch v {
	case entity.VerdictPass:
		return p.pass.Sprint(v)
	case entity.VerdictFail:
		return p.fail.Sprint(v)
	default:
		return p.warn.Sprint(v)
	}
}

func (p Printer) calculations(sb *strings.Builder, calcs []entity.Calculation) {
	if len(calcs) == 0 {
		return
	}

	sb.WriteString(p.heading.Sprint("CALCULATIONS:") + "\n\n")

	for i, c := range calcs {
		fmt.Fprintf(sb, "Calculation %d:\n", i+1)
		fmt.Fprintf(sb, "  Parameter: %s\n", c.Parameter)
		fmt.Fprintf(sb, "  Nominal: %s\n", c.Nominal)
		fmt.Fprintf(sb, "  Spec Tolerance: %s\n", tolerance(c.SpecTolerance, c.Unit))
		fmt.Fprintf(sb, "  Applied Tolerance: %s\n", tolerance(c.AppliedTolerance, c.Unit))
		fmt.Fprintf(sb, "  Equivalent: %s\n", p.equivalent(c))
		fmt.Fprintf(sb, "  Explanation: %s\n\n", c.Explanation)
	}
}

func (p Printer) equivalent(c entity.Calculation) string {
	switch c.Status() {
	case entity.PointCompliant:
		return p.pass.Sprint("true")
	case entity.PointDiscrepant:
		return p.fail.Sprint("false")
	default:
		return p.warn.Sprint(notAvailable)
	}
}

func (p Printer) discrepancies(sb *strings.Builder, discrepancies []entity.Discrepancy) {
	if len(discrepancies) == 0 {
		return
	}

	sb.WriteString(p.heading.Sprint("DISCREPANCIES:") + "\n\n")

	for i, d := range discrepancies {
		fmt.Fprintf(sb, "Discrepancy %d:\n", i+1)
		fmt.Fprintf(sb, "  Parameter: %s\n", d.Parameter)
		fmt.Fprintf(sb, "  Nominal: %s\n", d.Nominal)
		fmt.Fprintf(sb, "  Spec Tolerance: %s\n", tolerance(d.SpecTolerance, d.Unit))
		fmt.Fprintf(sb, "  Applied Tolerance: %s\n", tolerance(d.AppliedTolerance, d.Unit))
		fmt.Fprintf(sb, "  Issue: %s\n\n", p.fail.Sprint(d.Issue))
	}
}

func (p Printer) specifications(sb *strings.Builder, set entity.SpecificationSet) {
	if set.IsEmpty() {
		return
	}

	sb.WriteString(p.heading.Sprint("DETAILED SPECIFICATIONS:") + "\n\n")

	for _, parameter := range set.Parameters() {
		fmt.Fprintf(sb, "%s:\n", parameter)

		for _, e := range set.Entries {
			if e.Parameter != parameter {
				continue
			}

			fmt.Fprintf(sb, "  tolerance: %s", e.Tolerance)

			if e.Unit != "" {
				fmt.Fprintf(sb, " (%s)", e.Unit)
			}

			if e.Range != nil {
				fmt.Fprintf(sb, " for %s..%s", value.FormatNumber(e.Range.Min), value.FormatNumber(e.Range.Max))
			}

			sb.WriteString("\n")
		}

		sb.WriteString("\n")
	}
}

func tolerance(v *float64, unit string) string {
	if v == nil {
		return notAvailable
	}

	return strings.TrimSpace("±" + value.FormatNumber(*v) + " " + unit)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}

	return s
}
