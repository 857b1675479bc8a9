// Package analysis: конвейер проверки сертификата: нормализация, поиск
// спецификаций, оценка точек и итоговый вердикт.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/service/normalizer"
	"calibration_analyzer/internal/domain/service/tolerance"
	"calibration_analyzer/internal/domain/service/verdict"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/pkg/contextx"
	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultResolveTimeout = 30 * time.Second

// SpecificationResolver ищет спецификации производителя для прибора. Пустой
// набор означает, что ничего не найдено.
type SpecificationResolver interface {
	Resolve(ctx context.Context, identity entity.EquipmentIdentity) (entity.SpecificationSet, error)
}

type MetricsRecorder interface {
	ObserveAnalysis(result entity.AnalysisResult, duration time.Duration)
	ObserveRejection(code string)
	ObserveResolverFallback(reason string)
}

type Service struct {
	resolver   SpecificationResolver
	evaluator  *tolerance.Evaluator
	aggregator *verdict.Aggregator
	metrics    MetricsRecorder

	resolveTimeout time.Duration

	alerts               chan<- entity.Alert
	alertOnIndeterminate bool
}

func NewService(resolver SpecificationResolver) *Service {
	return &Service{
		resolver:       resolver,
		evaluator:      tolerance.NewEvaluator(),
		aggregator:     verdict.NewAggregator(),
		metrics:        nopMetrics{},
		resolveTimeout: defaultResolveTimeout,
	}
}

// WithResolveTimeout ограничивает поиск спецификаций. 0 снимает ограничение.
func (s *Service) WithResolveTimeout(timeout time.Duration) *Service {
	s.resolveTimeout = timeout
	return s
}

func (s *Service) WithIndeterminateThreshold(threshold float64) *Service {
	s.aggregator.WithIndeterminateThreshold(threshold)
	return s
}

func (s *Service) WithMetrics(metrics MetricsRecorder) *Service {
	s.metrics = metrics
	return s
}

// WithAlerts отправляет в alerts вердикты FAIL и, по запросу, INDETERMINATE.
// Отправка никогда не блокирует анализ.
func (s *Service) WithAlerts(alerts chan<- entity.Alert, includeIndeterminate bool) *Service {
	s.alerts = alerts
	s.alertOnIndeterminate = includeIndeterminate

	return s
}

// Analyze возвращает полный результат или ошибку, частичных нет. Ошибка
// только при негодном входе или истёкшем контексте. Проблемы поиска и
// отдельных точек попадают в сам результат.
func (s *Service) Analyze(ctx context.Context, raw value.RawCertificate, instructions string) (result entity.AnalysisResult, err error) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = domain.WrapError(fmt.Errorf("panic: %v", r), errcodes.InternalServerError, "analysis failed")
			result = entity.AnalysisResult{}
		}

		if code, ok := domain.GetCode(err); ok {
			s.metrics.ObserveRejection(code.String())
		}
	}()

	record, err := normalizer.Normalize(raw)
	if err != nil {
		return entity.AnalysisResult{}, fmt.Errorf("normalizer.Normalize: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return entity.AnalysisResult{}, domain.WrapError(err, errcodes.TimeoutExceeded, "deadline expired before specification lookup")
	}

	specs := s.resolve(ctx, record.Identity)
	calcs := s.evaluator.Evaluate(record.Points, specs)

	result = s.aggregator.Aggregate(verdict.Input{
		Record:         record,
		Specifications: specs,
		Calculations:   calcs,
		Instructions:   instructions,
	})

	logger(ctx).Info("certificate analyzed",
		"equipment", record.Identity.String(),
		"verdict", result.Verdict.String(),
		"confidence", result.Confidence.Score,
		"points", len(calcs),
		"discrepancies", len(result.Discrepancies),
		"spec-source", result.SpecSource,
	)

	s.metrics.ObserveAnalysis(result, time.Since(started))
	s.alert(ctx, result)

	return result, nil
}

func (s *Service) resolve(ctx context.Context, identity entity.EquipmentIdentity) entity.SpecificationSet {
	if s.resolver == nil {
		s.metrics.ObserveResolverFallback("disabled")
		return entity.SpecificationSet{}
	}

	if s.resolveTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.resolveTimeout)
		defer cancel()
	}

	specs, err := s.resolver.Resolve(ctx, identity)

	switch {
	case err == nil && !specs.IsEmpty():
		return specs
	case err == nil, domain.HasCode(err, errcodes.SpecNotFound):
		logger(ctx).Info("no specifications found", "equipment", identity.String())
		s.metrics.ObserveResolverFallback("not_found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logger(ctx).Warn("specification lookup timed out", "equipment", identity.String(), logx.Error(err))
		s.metrics.ObserveResolverFallback("timeout")
	default:
		logger(ctx).Warn("specification lookup failed", "equipment", identity.String(), logx.Error(err))
		s.metrics.ObserveResolverFallback("error")
	}

	return entity.SpecificationSet{}
}

func (s *Service) alert(ctx context.Context, result entity.AnalysisResult) {
	if s.alerts == nil {
		return
	}

	switch result.Verdict {
	case entity.VerdictFail:
	case entity.VerdictIndeterminate:
		if !s.alertOnIndeterminate {
			return
		}
	default:
		return
	}

	a := entity.Alert{
		Equipment:  result.Equipment,
		Verdict:    result.Verdict,
		Confidence: result.Confidence,
		Summary:    result.Summary,
	}

	if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
		a.TraceID = traceID.String()
	}

	select {
	case s.alerts <- a:
	default:
		logger(ctx).Warn("alert dropped, queue is full", "equipment", result.Equipment.String())
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveAnalysis(entity.AnalysisResult, time.Duration) {}
func (nopMetrics) ObserveRejection(string)                              {}
func (nopMetrics) ObserveResolverFallback(string)                       {}
