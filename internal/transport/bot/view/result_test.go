package view_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/internal/transport/bot/view"
	"calibration_analyzer/pkg/errcodes"
)

func TestFormatResult(t *testing.T) {
	rq := require.New(t)

	failed := entity.Calculation{
		Parameter:        "Resistance <4W>",
		Unit:             "Ω",
		Nominal:          value.NewQuantity(100, "Ω"),
		SpecTolerance:    lo.ToPtr(0.1),
		AppliedTolerance: lo.ToPtr(0.3),
		Equivalent:       lo.ToPtr(false),
	}
	unknown := entity.Calculation{Parameter: "Frequency", Explanation: "no matching specification"}

	text := view.FormatResult(entity.AnalysisResult{
		Verdict:    entity.VerdictFail,
		Confidence: entity.Confidence{Level: entity.ConfidenceMedium, Score: 55},
		Summary:    "Resistance exceeds tolerance & needs adjustment.",
		Equipment: entity.EquipmentIdentity{
			Manufacturer:  "Fluke",
			Model:         "87V",
			EquipmentType: "Multimeter",
		},
		Calculations:  []entity.Calculation{failed, unknown},
		Discrepancies: []entity.Discrepancy{{Calculation: failed, Issue: "exceeds"}},
	})

	rq.Contains(text, "❌ <b>FAIL</b>\n\n")
	rq.Contains(text, "<b>Equipment:</b> Fluke 87V (Multimeter)\n")
	rq.Contains(text, "<b>Confidence:</b> Medium (55/100)\n")
	rq.Contains(text, "<b>Spec source:</b> N/A\n")
	rq.Contains(text, "exceeds tolerance &amp; needs adjustment.")
	rq.Contains(text, "• Resistance &lt;4W&gt; @ 100 Ω: ±0.3 Ω &gt; ±0.1 Ω")
	rq.Contains(text, "1 of 2 points could not be evaluated.")
}

func TestFormatResult_TruncatesDiscrepancies(t *testing.T) {
	rq := require.New(t)

	discrepancies := make([]entity.Discrepancy, 12)
	for i := range discrepancies {
		discrepancies[i] = entity.Discrepancy{Calculation: entity.Calculation{
			Parameter:  fmt.Sprintf("P%d", i),
			Equivalent: lo.ToPtr(false),
		}}
	}

	text := view.FormatResult(entity.AnalysisResult{
		Verdict:       entity.VerdictFail,
		Discrepancies: discrepancies,
	})

	rq.Contains(text, "• P9 @")
	rq.NotContains(text, "• P10 @")
	rq.Contains(text, "… and 2 more")
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "empty extraction",
			err:  domain.NewError(errcodes.ExtractionEmpty, "certificate data is empty"),
			want: "❌ No certificate data could be extracted.",
		},
		{
			name: "extractor sentinel",
			err:  fmt.Errorf("analyzer.Analyze: %w", domain.NewError(errcodes.ExtractionError, "extraction failed: <scan>")),
			want: "❌ extraction failed: &lt;scan&gt;",
		},
		{
			name: "invalid json",
			err:  domain.WrapError(errors.New("eof"), errcodes.InvalidCertificate, "document is not a certificate JSON"),
			want: "❌ The document is not a valid certificate JSON.",
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: "❌ Analysis failed. Try again later.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, view.FormatError(tc.err))
		})
	}
}
