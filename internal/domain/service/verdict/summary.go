package verdict

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
)

type Detail uint8

const (
	DetailNormal Detail = iota
	DetailBrief
	DetailFull
)

//nolint:gochecknoglobals
var (
	briefWords = []string{"brief", "briefly", "short", "concise", "concisely"}
	fullWords  = []string{"detail", "detailed", "details", "all", "every", "full", "fully", "verbose"}
)

// Style: чего инструкции пользователя хотят от резюме.
type Style struct {
	Detail Detail
	// Spotlight: параметры из инструкций, в порядке расчётов.
	Spotlight []string
}

// ParseInstructions читает уровень детализации и выделяемые параметры.
func ParseInstructions(instructions string, calcs []entity.Calculation) Style {
	words := strings.Fields(strings.ToLower(instructions))

	var style Style

	switch {
	case hasWord(words, briefWords):
		style.Detail = DetailBrief
	case hasWord(words, fullWords):
		style.Detail = DetailFull
	}

	lower := " " + value.NewParameterKey(instructions).Text + " "

	for _, c := range calcs {
		key := value.NewParameterKey(c.Parameter)
		if key.IsZero() || !strings.Contains(lower, " "+key.Text+" ") {
			continue
		}

		style.Spotlight = append(style.Spotlight, c.Parameter)
	}

	if len(style.Spotlight) > 1 {
		style.Spotlight = lo.Uniq(style.Spotlight)
	}

	return style
}

func hasWord(words, wanted []string) bool {
	return lo.SomeBy(words, func(w string) bool {
		return lo.Contains(wanted, strings.Trim(w, ".,;:!?\"'()"))
	})
}

// Summarize пишет резюме. Читается только структурированный результат, так что
// инструкции меняют формулировки, но не классификацию.
func Summarize(result entity.AnalysisResult, instructions string) string {
	style := ParseInstructions(instructions, result.Calculations)

	sentences := []string{headline(result)}

	if style.Detail == DetailBrief {
		return sentences[0]
	}

	sentences = append(sentences, counts(result))

	switch {
	case len(result.Discrepancies) == 0:
	case style.Detail == DetailFull:
		for _, d := range result.Discrepancies {
			sentences = append(sentences, "Discrepancy: "+d.Issue+".")
		}
	default:
		sentences = append(sentences, "Leading discrepancy: "+result.Discrepancies[0].Issue+".")
	}

	for _, parameter := range style.Spotlight {
		sentences = append(sentences, spotlight(result.Calculations, parameter))
	}

	sentences = append(sentences, fmt.Sprintf("Confidence: %s (%d/100).", result.Confidence.Level, result.Confidence.Score))

	return strings.Join(sentences, " ")
}

func headline(result entity.AnalysisResult) string {
	equipment := result.Equipment.String()
	if equipment == "" {
		equipment = "The equipment"
	}

	switch result.Verdict {
	case entity.VerdictPass:
		return fmt.Sprintf("%s meets the manufacturer specifications (PASS).", equipment)
	case entity.VerdictFail:
		return fmt.Sprintf("%s does not meet the manufacturer specifications (FAIL): %d of %d points exceed tolerance.",
			equipment, len(result.Discrepancies), len(result.Calculations))
	default:
		switch {
		case len(result.Calculations) == 0:
			return fmt.Sprintf("Compliance of %s could not be determined (INDETERMINATE): the certificate has no usable measurements.", equipment)
		case result.Specifications.IsEmpty():
			return fmt.Sprintf("Compliance of %s could not be determined (INDETERMINATE): no manufacturer specifications were found.", equipment)
		default:
			return fmt.Sprintf("Compliance of %s could not be determined (INDETERMINATE): too many points could not be evaluated.", equipment)
		}
	}
}

func counts(result entity.AnalysisResult) string {
	var compliant, discrepant, indeterminate int

	for _, c := range result.Calculations {
		switch c.Status() {
		case entity.PointCompliant:
			compliant++
		case entity.PointDiscrepant:
			discrepant++
		case entity.PointIndeterminate:
			indeterminate++
		}
	}

	text := fmt.Sprintf("Evaluated %d measurement points: %d compliant, %d discrepant, %d indeterminate.",
		len(result.Calculations), compliant, discrepant, indeterminate)

	if result.SpecSource != "" {
		text += " Specifications from " + result.SpecSource + "."
	}

	return text
}

func spotlight(calcs []entity.Calculation, parameter string) string {
	parts := make([]string, 0, 1)

	for _, c := range calcs {
		if c.Parameter != parameter {
			continue
		}

		parts = append(parts, strings.ToLower(string(c.Status()))+" ("+c.Explanation+")")
	}

	return fmt.Sprintf("%s: %s.", parameter, strings.Join(parts, "; "))
}
