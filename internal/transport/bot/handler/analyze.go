package handler

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mymmrac/telego"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/internal/transport/bot/view"
	"calibration_analyzer/pkg/contextx"
	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/logx"
)

// MaxDocumentSize: лимит скачивания в Bot API.
const MaxDocumentSize = 20 << 20

// Analyze скачивает документ, анализирует его и возвращает HTML-ответ.
// PDF уходит в сервис извлечения, остальное читается как JSON.
func (h *Handler) Analyze(ctx context.Context, doc telego.Document, instructions string) string {
	log := contextx.LoggerFromContextOrDefault(ctx).With("file_name", doc.FileName)

	if doc.FileSize > MaxDocumentSize {
		return view.DocumentTooLarge
	}

	isPDF := doc.MimeType == "application/pdf" || strings.EqualFold(filepath.Ext(doc.FileName), ".pdf")
	if isPDF && h.extractor == nil {
		return view.ExtractionDisabled
	}

	data, err := h.files.Download(ctx, doc.FileID)
	if err != nil {
		log.Error("failed to download document", logx.Error(err))
		return view.DownloadFailed
	}

	var raw value.RawCertificate

	if isPDF {
		raw, err = h.extractor.Extract(ctx, doc.FileName, bytes.NewReader(data))
	} else {
		raw, err = value.DecodeRawCertificate(data)
		if err != nil {
			err = domain.WrapError(err, errcodes.InvalidCertificate, "document is not a certificate JSON")
		}
	}

	if err == nil {
		result, analyzeErr := h.analyzer.Analyze(ctx, raw, strings.TrimSpace(instructions))
		if analyzeErr == nil {
			log.Info("document analyzed", "verdict", result.Verdict.String())
			return view.FormatResult(result)
		}

		err = fmt.Errorf("analyzer.Analyze: %w", analyzeErr)
	}

	log.Warn("document analysis failed", logx.Error(err))

	return view.FormatError(err)
}
