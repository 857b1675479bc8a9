// Package extraction: клиент сервиса извлечения, который превращает PDF
// сертификата в структурированные записи.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/httpx"
	"calibration_analyzer/pkg/logx"
)

const (
	extractPath          = "/v1/extract"
	maxResponseBodyBytes = 8 << 20
)

var ErrDisabled = errors.New("extraction service is not configured")

type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	LogFieldMaxLen int
}

type Client struct {
	client  *http.Client
	baseURL *url.URL
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrDisabled
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	// Тело запроса это PDF, в лог попадает только начало.
	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(cfg.LogFieldMaxLen),
	)

	if cfg.Token != "" {
		transport = httpx.NewAuthBearerRoundTripper(transport, httpx.StaticToken(cfg.Token))
	}

	return &Client{
		client:  &http.Client{Transport: transport, Timeout: cfg.Timeout},
		baseURL: baseURL,
	}, nil
}

// Extract загружает документ сертификата и возвращает извлечённые данные.
// Сбои сервиса отдаются как ExtractionError.
func (c *Client) Extract(ctx context.Context, filename string, document io.Reader) (value.RawCertificate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath(extractPath).String(), document)
	if err != nil {
		return value.RawCertificate{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Filename", filepath.Base(filename))

	resp, err := c.client.Do(req)
	if err != nil {
		return value.RawCertificate{}, fmt.Errorf("client.Do: %w", err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return value.RawCertificate{}, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return value.RawCertificate{}, domain.NewError(
			errcodes.ExtractionError,
			fmt.Sprintf("extraction service responded %d", resp.StatusCode),
		)
	}

	raw, err := value.DecodeRawCertificate(data)
	if err != nil {
		return value.RawCertificate{}, domain.WrapError(err, errcodes.ExtractionError, "extraction service response")
	}

	return raw, nil
}
