package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App        App
	HTTP       HTTP
	Probe      Probe
	Metrics    Metrics
	Analysis   Analysis
	Postgres   Postgres
	Redis      Redis
	SpecAPI    SpecAPI
	Extraction Extraction
	Bot        Bot
}

type App struct {
	Name      string `env:"APP_NAME" envDefault:"calibration-analyzer"`
	Version   string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

type HTTP struct {
	ListenAddress     string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8000"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	LogFieldMaxLen    int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Analysis struct {
	ResolveTimeout         time.Duration `env:"ANALYSIS_RESOLVE_TIMEOUT" envDefault:"30s"`
	IndeterminateThreshold float64       `env:"ANALYSIS_INDETERMINATE_THRESHOLD" envDefault:"0.5"`
	// StaticSpecFile: JSON со спецификациями, опрашивается первым.
	StaticSpecFile     string        `env:"ANALYSIS_STATIC_SPEC_FILE"`
	CacheTTL           time.Duration `env:"ANALYSIS_CACHE_TTL" envDefault:"24h"`
	AlertIndeterminate bool          `env:"ANALYSIS_ALERT_INDETERMINATE" envDefault:"false"`
}

type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
}

// SpecAPI: сервис поиска спецификаций производителя.
type SpecAPI struct {
	BaseURL string        `env:"SPEC_API_BASE_URL"`
	Token   string        `env:"SPEC_API_TOKEN" json:"-"`
	Timeout time.Duration `env:"SPEC_API_TIMEOUT" envDefault:"25s"`
}

// Extraction: сервис извлечения данных из PDF.
type Extraction struct {
	BaseURL string        `env:"EXTRACTION_BASE_URL"`
	Token   string        `env:"EXTRACTION_TOKEN" json:"-"`
	Timeout time.Duration `env:"EXTRACTION_TIMEOUT" envDefault:"120s"`
}

// Bot: алерты в Telegram, выключены без токена.
// С AdminID бот также принимает сертификаты на анализ.
type Bot struct {
	Token   string `env:"BOT_TOKEN" json:"-"`
	ChatID  int64  `env:"BOT_CHAT_ID"`
	AdminID int64  `env:"BOT_ADMIN_ID"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
