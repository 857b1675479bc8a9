package specsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/httpx"
	"calibration_analyzer/pkg/logx"
)

const (
	resolvePath          = "/v1/specifications/resolve"
	maxResponseBodyBytes = 4 << 20
)

type HTTPConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	LogFieldMaxLen int
	// Source подставляется, если ответ не называет свой источник.
	Source string
}

// HTTPResolver запрашивает набор у сервиса поиска спецификаций.
type HTTPResolver struct {
	client  *http.Client
	baseURL *url.URL
	source  string
}

func NewHTTPResolver(cfg HTTPConfig) (*HTTPResolver, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(cfg.LogFieldMaxLen),
	)

	if cfg.Token != "" {
		transport = httpx.NewAuthBearerRoundTripper(transport, httpx.StaticToken(cfg.Token))
	}

	source := cfg.Source
	if source == "" {
		source = baseURL.Host
	}

	return &HTTPResolver{
		client:  &http.Client{Transport: transport, Timeout: cfg.Timeout},
		baseURL: baseURL,
		source:  source,
	}, nil
}

type resolveRequest struct {
	Manufacturer  string `json:"manufacturer"`
	Model         string `json:"model"`
	EquipmentType string `json:"equipment_type"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, identity entity.EquipmentIdentity) (entity.SpecificationSet, error) {
	body, err := json.Marshal(resolveRequest{
		Manufacturer:  identity.Manufacturer,
		Model:         identity.Model,
		EquipmentType: identity.EquipmentType,
	})
	if err != nil {
		return entity.SpecificationSet{}, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL.JoinPath(resolvePath).String(), bytes.NewReader(body))
	if err != nil {
		return entity.SpecificationSet{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return entity.SpecificationSet{}, fmt.Errorf("client.Do: %w", err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return entity.SpecificationSet{}, fmt.Errorf("io.ReadAll: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return entity.SpecificationSet{}, domain.NewError(errcodes.SpecNotFound, "no specifications for "+identity.String())
	case resp.StatusCode >= http.StatusBadRequest:
		return entity.SpecificationSet{}, fmt.Errorf("specification service responded %d", resp.StatusCode)
	}

	set, err := DecodeSpecifications(data, r.source)
	if err != nil {
		return entity.SpecificationSet{}, domain.WrapError(err, errcodes.InvalidSpecification, "specification service response")
	}

	return set, nil
}
