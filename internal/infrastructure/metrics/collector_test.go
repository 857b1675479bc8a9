package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/infrastructure/metrics"
)

func TestAnalysisCollector(t *testing.T) {
	rq := require.New(t)

	reg := prometheus.NewRegistry()
	collector := metrics.NewAnalysisCollector(reg)

	collector.ObserveAnalysis(entity.AnalysisResult{
		Verdict:    entity.VerdictFail,
		Confidence: entity.Confidence{Level: entity.ConfidenceHigh, Score: 90},
		Calculations: []entity.Calculation{
			{Parameter: "Voltage", Equivalent: lo.ToPtr(true)},
			{Parameter: "Current", Equivalent: lo.ToPtr(false)},
			{Parameter: "Resistance"},
		},
	}, 20*time.Millisecond)
	collector.ObserveAnalysis(entity.AnalysisResult{Verdict: entity.VerdictPass}, time.Millisecond)
	collector.ObserveRejection("ExtractionEmpty")
	collector.ObserveResolverFallback("timeout")
	collector.ObserveResolverFallback("timeout")

	families, err := reg.Gather()
	rq.NoError(err)
	rq.Len(families, 6)

	expected := `
# HELP calibration_analyzer_analyses_total Completed analyses by verdict.
# TYPE calibration_analyzer_analyses_total counter
calibration_analyzer_analyses_total{verdict="FAIL"} 1
calibration_analyzer_analyses_total{verdict="PASS"} 1
# HELP calibration_analyzer_points_total Evaluated measurement points by status.
# TYPE calibration_analyzer_points_total counter
calibration_analyzer_points_total{status="COMPLIANT"} 1
calibration_analyzer_points_total{status="DISCREPANT"} 1
calibration_analyzer_points_total{status="INDETERMINATE"} 1
# HELP calibration_analyzer_rejections_total Analyses that ended with an error, by code.
# TYPE calibration_analyzer_rejections_total counter
calibration_analyzer_rejections_total{code="ExtractionEmpty"} 1
# HELP calibration_analyzer_resolver_fallbacks_total Analyses that continued with an empty specification set, by reason.
# TYPE calibration_analyzer_resolver_fallbacks_total counter
calibration_analyzer_resolver_fallbacks_total{reason="timeout"} 2
`

	rq.NoError(testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"calibration_analyzer_analyses_total",
		"calibration_analyzer_points_total",
		"calibration_analyzer_rejections_total",
		"calibration_analyzer_resolver_fallbacks_total",
	))
}
