package verdict_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/service/verdict"
)

func TestParseInstructions(t *testing.T) {
	rq := require.New(t)

	calcs := []entity.Calculation{pass("DC Voltage"), fail("Resistance (Ω)"), pass("DC Voltage")}

	testCases := []struct {
		instructions string
		detail       verdict.Detail
		spotlight    []string
	}{
		{instructions: ""},
		{instructions: "Keep it brief.", detail: verdict.DetailBrief},
		{instructions: "List ALL discrepancies", detail: verdict.DetailFull},
		{instructions: "allowance matters", detail: verdict.DetailNormal},
		{instructions: "Focus on dc voltage and resistance", spotlight: []string{"DC Voltage", "Resistance (Ω)"}},
		{instructions: "voltage only"},
	}

	for _, tc := range testCases {
		t.Run(tc.instructions, func(*testing.T) {
			style := verdict.ParseInstructions(tc.instructions, calcs)

			rq.Equal(tc.detail, style.Detail)
			rq.Equal(tc.spotlight, style.Spotlight)
		})
	}
}

func TestSummarize(t *testing.T) {
	rq := require.New(t)

	in := input(fail("Voltage"), pass("Current"), fail("Resistance"))
	result := verdict.NewAggregator().Aggregate(in)

	normal := verdict.Summarize(result, "")
	rq.True(strings.HasPrefix(normal, "Fluke 87V does not meet the manufacturer specifications (FAIL): 2 of 3 points exceed tolerance."))
	rq.Contains(normal, "Leading discrepancy: Voltage:")
	rq.NotContains(normal, "Resistance:")
	rq.Contains(normal, "Specifications from Fluke 87V datasheet.")

	full := verdict.Summarize(result, "full details please")
	rq.Contains(full, "Discrepancy: Voltage:")
	rq.Contains(full, "Discrepancy: Resistance:")

	brief := verdict.Summarize(result, "brief")
	rq.NotContains(brief, "Evaluated")

	spotlit := verdict.Summarize(result, "what about current?")
	rq.Contains(spotlit, "Current: compliant (")
}

func TestSummarizeIndeterminate(t *testing.T) {
	rq := require.New(t)

	in := input(unknown("Voltage"))
	in.Specifications = entity.SpecificationSet{}

	summary := verdict.NewAggregator().Aggregate(in).Summary
	rq.Contains(summary, "no manufacturer specifications were found")

	empty := input()
	summary = verdict.NewAggregator().Aggregate(empty).Summary
	rq.Contains(summary, "no usable measurements")
}
