// Package metrics отдаёт итоги анализов в Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"calibration_analyzer/internal/domain/entity"
)

const namespace = "calibration_analyzer"

type AnalysisCollector struct {
	analyses  *prometheus.CounterVec
	points    *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	duration  prometheus.Histogram
	score     prometheus.Histogram
}

// NewAnalysisCollector создаёт коллектор и регистрирует его в reg.
func NewAnalysisCollector(reg prometheus.Registerer) *AnalysisCollector {
	c := &AnalysisCollector{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by verdict.",
		}, []string{"verdict"}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Evaluated measurement points by status.",
		}, []string{"status"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Analyses that ended with an error, by code.",
		}, []string{"code"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_fallbacks_total",
			Help:      "Analyses that continued with an empty specification set, by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent in the analysis pipeline.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), //nolint:mnd
		}),
		score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confidence_score",
			Help:      "Confidence score of completed analyses.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11), //nolint:mnd
		}),
	}

	reg.MustRegister(c.analyses, c.points, c.rejected, c.fallbacks, c.duration, c.score)

	return c
}

func (c *AnalysisCollector) ObserveAnalysis(result entity.AnalysisResult, duration time.Duration) {
	c.analyses.WithLabelValues(result.Verdict.String()).Inc()

	for _, calc := range result.Calculations {
		c.points.WithLabelValues(string(calc.Status())).Inc()
	}

	c.duration.Observe(duration.Seconds())
	c.score.Observe(float64(result.Confidence.Score))
}

func (c *AnalysisCollector) ObserveRejection(code string) {
	c.rejected.WithLabelValues(code).Inc()
}

func (c *AnalysisCollector) ObserveResolverFallback(reason string) {
	c.fallbacks.WithLabelValues(reason).Inc()
}
