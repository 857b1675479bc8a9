// Package view форматирует ответы бота в Telegram HTML.
package view

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/pkg/errcodes"
)

// maxListed ограничивает длину списка несоответствий в одном сообщении.
const maxListed = 10

//nolint:gochecknoglobals
var verdictIcons = map[entity.Verdict]string{
	entity.VerdictPass:          "✅",
	entity.VerdictFail:          "❌",
	entity.VerdictIndeterminate: "⚠️",
}

func FormatResult(result entity.AnalysisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s <b>%s</b>\n\n", verdictIcons[result.Verdict], html.EscapeString(result.Verdict.String()))
	fmt.Fprintf(&sb, "🔧 <b>Equipment:</b> %s\n", html.EscapeString(
		result.Equipment.String()+" ("+result.Equipment.EquipmentType+")",
	))
	fmt.Fprintf(&sb, "📊 <b>Confidence:</b> %s (%d/100)\n", result.Confidence.Level, result.Confidence.Score)

	source := result.SpecSource
	if source == "" {
		source = "N/A"
	}

	fmt.Fprintf(&sb, "📚 <b>Spec source:</b> %s\n\n", html.EscapeString(source))
	sb.WriteString(html.EscapeString(result.Summary))

	if len(result.Discrepancies) > 0 {
		sb.WriteString("\n\n<b>Discrepancies:</b>")

		for i, d := range result.Discrepancies {
			if i == maxListed {
				fmt.Fprintf(&sb, "\n… and %d more", len(result.Discrepancies)-maxListed)
				break
			}

			fmt.Fprintf(&sb, "\n• %s @ %s: %s &gt; %s",
				html.EscapeString(d.Parameter),
				html.EscapeString(d.Nominal.String()),
				tolerance(d.AppliedTolerance, d.Unit),
				tolerance(d.SpecTolerance, d.Unit),
			)
		}
	}

	var indeterminate int

	for _, c := range result.Calculations {
		if c.IsIndeterminate() {
			indeterminate++
		}
	}

	if indeterminate > 0 {
		fmt.Fprintf(&sb, "\n\n⚠️ %d of %d points could not be evaluated.", indeterminate, len(result.Calculations))
	}

	return sb.String()
}

// FormatError объясняет пользователю, почему анализ не выполнен.
func FormatError(err error) string {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return "❌ Analysis failed. Try again later."
	}

	switch appErr.Code {
	case errcodes.ExtractionEmpty:
		return "❌ No certificate data could be extracted."
	case errcodes.InvalidCertificate:
		return "❌ The document is not a valid certificate JSON."
	default:
		return "❌ " + html.EscapeString(appErr.Message)
	}
}

func tolerance(v *float64, unit string) string {
	if v == nil {
		return "N/A"
	}

	return html.EscapeString(strings.TrimSpace("±" + value.FormatNumber(*v) + " " + unit))
}
