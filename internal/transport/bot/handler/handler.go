package handler

import (
	"context"
	"io"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
)

type Analyzer interface {
	Analyze(ctx context.Context, raw value.RawCertificate, instructions string) (entity.AnalysisResult, error)
}

type Extractor interface {
	Extract(ctx context.Context, filename string, document io.Reader) (value.RawCertificate, error)
}

type Files interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

type Handler struct {
	analyzer  Analyzer
	extractor Extractor
	files     Files
}

// New создает обработчик. Без extractor принимаются только JSON-документы.
func New(analyzer Analyzer, extractor Extractor, files Files) *Handler {
	return &Handler{
		analyzer:  analyzer,
		extractor: extractor,
		files:     files,
	}
}
