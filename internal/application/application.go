package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"calibration_analyzer/internal/config"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/service/analysis"
	"calibration_analyzer/internal/infrastructure/extraction"
	"calibration_analyzer/internal/infrastructure/metrics"
	"calibration_analyzer/internal/infrastructure/notifier"
	"calibration_analyzer/internal/infrastructure/persistence"
	"calibration_analyzer/internal/infrastructure/specsource"
	"calibration_analyzer/internal/server"
	"calibration_analyzer/internal/transport/bot"
	"calibration_analyzer/pkg/application/connectors"
	"calibration_analyzer/pkg/application/modules"
	"calibration_analyzer/pkg/contextx"
	"calibration_analyzer/pkg/logx"
)

const alertBufferSize = 100

func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx = contextx.WithLogger(ctx, log)

	g, ctx := errgroup.WithContext(ctx)

	// 1. Коннекторы
	var (
		pg  *connectors.Postgres
		rdb *connectors.Redis
	)

	if cfg.Postgres.DSN != "" {
		pg = &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		defer pg.Close(ctx)
	}

	if cfg.Redis.Address != "" {
		rdb = &connectors.Redis{
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			Address:            cfg.Redis.Address,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}
		defer rdb.Close(ctx)
	}

	// 2. Источники спецификаций
	resolver, err := newResolver(ctx, cfg, pg, rdb)
	if err != nil {
		return fmt.Errorf("newResolver: %w", err)
	}

	// 3. Сервис анализа
	svc := analysis.NewService(resolver).
		WithResolveTimeout(cfg.Analysis.ResolveTimeout).
		WithIndeterminateThreshold(cfg.Analysis.IndeterminateThreshold).
		WithMetrics(metrics.NewAnalysisCollector(prometheus.DefaultRegisterer))

	// 4. Алерты
	if cfg.Bot.Token != "" {
		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		alerts := make(chan entity.Alert, alertBufferSize)
		svc = svc.WithAlerts(alerts, cfg.Analysis.AlertIndeterminate)

		g.Go(func() error {
			logger(ctx).Info("alert bot started")
			return alertBot.Run(ctx, alerts)
		})
	}

	// 5. Извлечение и интерактивный бот
	var (
		analysisServer = server.NewAnalysisServer(svc, nil)
		botExtractor   bot.Extractor
	)

	extractor, err := extraction.NewClient(extraction.Config{
		BaseURL:        cfg.Extraction.BaseURL,
		Token:          cfg.Extraction.Token,
		Timeout:        cfg.Extraction.Timeout,
		LogFieldMaxLen: cfg.HTTP.LogFieldMaxLen,
	})

	switch {
	case err == nil:
		analysisServer = server.NewAnalysisServer(svc, extractor)
		botExtractor = extractor
	case cfg.Extraction.BaseURL == "":
		logger(ctx).Warn("certificate upload disabled", logx.Error(err))
	default:
		return fmt.Errorf("extraction.NewClient: %w", err)
	}

	if cfg.Bot.Token != "" && cfg.Bot.AdminID != 0 {
		analysisBot, err := bot.New(cfg.Bot.Token, cfg.Bot.AdminID, svc, botExtractor)
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			logger(ctx).Info("analysis bot started")
			return analysisBot.Run(ctx)
		})
	}

	// 6. HTTP
	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr: cfg.HTTP.ListenAddress,
		Handler: server.NewRouter(server.NewServer(analysisServer), server.RouterOptions{
			Logger:         log,
			Masker:         logx.NewSensitiveDataMasker(),
			LogFieldMaxLen: cfg.HTTP.LogFieldMaxLen,
		}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)
	modules.ProbeServer{Name: cfg.App.Name, Version: cfg.App.Version, ListenAddress: cfg.Probe.ListenAddress}.Run(ctx, g)
	modules.MetricServer{ListenAddress: cfg.Metrics.ListenAddress}.Run(ctx, g)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

// newResolver выстраивает настроенные источники по приоритету: файл, каталог,
// сервис поиска. При удалённом источнике цепочка оборачивается кешем.
// nil означает, что спецификаций нет вовсе.
func newResolver(
	ctx context.Context,
	cfg config.Config,
	pg *connectors.Postgres,
	rdb *connectors.Redis,
) (analysis.SpecificationResolver, error) {
	var sources []specsource.Resolver

	if cfg.Analysis.StaticSpecFile != "" {
		static, err := specsource.NewStaticResolverFromFile(cfg.Analysis.StaticSpecFile)
		if err != nil {
			return nil, fmt.Errorf("specsource.NewStaticResolverFromFile: %w", err)
		}

		sources = append(sources, static)
	}

	if pg != nil {
		sources = append(sources, persistence.NewSpecificationRepository(pg.Client(ctx)))
	}

	remote := cfg.SpecAPI.BaseURL != ""
	if remote {
		research, err := specsource.NewHTTPResolver(specsource.HTTPConfig{
			BaseURL:        cfg.SpecAPI.BaseURL,
			Token:          cfg.SpecAPI.Token,
			Timeout:        cfg.SpecAPI.Timeout,
			LogFieldMaxLen: cfg.HTTP.LogFieldMaxLen,
		})
		if err != nil {
			return nil, fmt.Errorf("specsource.NewHTTPResolver: %w", err)
		}

		sources = append(sources, research)
	}

	logger(ctx).Info("specification sources configured", slog.Int("count", len(sources)))

	if len(sources) == 0 {
		return nil, nil //nolint:nilnil
	}

	var resolver specsource.Resolver = specsource.NewChainResolver(sources...)
	if !remote {
		return resolver, nil
	}

	var store specsource.Store = specsource.NewMemoryStore(cfg.Analysis.CacheTTL, cfg.Analysis.CacheTTL)
	if rdb != nil {
		store = specsource.NewRedisStore(rdb.Client(ctx))
	}

	return specsource.NewCachingResolver(resolver, store, cfg.Analysis.CacheTTL), nil
}
