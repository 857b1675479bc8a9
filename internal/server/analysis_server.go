package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"git.appkode.ru/pub/go/failure"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/httpx/reply"
	"calibration_analyzer/pkg/httpx/req"
	"calibration_analyzer/pkg/logx"
	"calibration_analyzer/pkg/rest"
)

const (
	maxUploadBytes      = 32 << 20
	maxUploadMemory     = 8 << 20
	formCertificateFile = "certificate_file"
	formInstructions    = "custom_instructions"
)

type analyzer interface {
	Analyze(ctx context.Context, raw value.RawCertificate, instructions string) (entity.AnalysisResult, error)
}

type extractor interface {
	Extract(ctx context.Context, filename string, document io.Reader) (value.RawCertificate, error)
}

type AnalysisServer struct {
	analyzer  analyzer
	extractor extractor
}

// NewAnalysisServer создаёт эндпоинты анализа. extractor может быть nil,
// тогда загрузка файлов отклоняется.
func NewAnalysisServer(analyzer analyzer, extractor extractor) AnalysisServer {
	return AnalysisServer{
		analyzer:  analyzer,
		extractor: extractor,
	}
}

func (s AnalysisServer) getRoot(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.Status{Message: "Calibration Analyzer API is running"})

	return nil
}

func (s AnalysisServer) postV1Analyze(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.AnalyzeRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	raw, err := value.NewRawCertificate(request.CertificateData)
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidCertificate, "certificate_data must be an object or an array of objects")
	}

	result, err := s.analyzer.Analyze(ctx, raw, deref(request.CustomInstructions))
	if err != nil {
		return fmt.Errorf("analyzer.Analyze: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, NewRESTAnalysisResult(result))

	return nil
}

func (s AnalysisServer) postV1AnalyzeCertificate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if s.extractor == nil {
		return domain.NewError(errcodes.ExtractionDisabled, "certificate upload is not configured")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("r.ParseMultipartForm: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid multipart form"),
		)
	}

	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger(ctx).Warn("multipartForm.RemoveAll", logx.Error(err))
		}
	}()

	file, header, err := r.FormFile(formCertificateFile)
	if err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("r.FormFile: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(formCertificateFile+" is required"),
		)
	}

	defer file.Close()

	logger(ctx).Info("certificate received", slog.String("filename", header.Filename), slog.Int64("size", header.Size))

	raw, err := s.extract(ctx, header.Filename, file)
	if err != nil {
		return err
	}

	result, err := s.analyzer.Analyze(ctx, raw, r.FormValue(formInstructions))
	if err != nil {
		return fmt.Errorf("analyzer.Analyze: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, NewRESTAnalysisResult(result))

	return nil
}

// extract сохраняет загрузку во временный файл и отдаёт его сервису
// извлечения. Файл удаляется при любом исходе.
func (s AnalysisServer) extract(ctx context.Context, filename string, upload io.Reader) (value.RawCertificate, error) {
	spool, err := os.CreateTemp("", "certificate-*"+filepath.Ext(filename))
	if err != nil {
		return value.RawCertificate{}, fmt.Errorf("os.CreateTemp: %w", err)
	}

	defer func() {
		_ = spool.Close()

		if err := os.Remove(spool.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger(ctx).Warn("os.Remove", slog.String("path", spool.Name()), logx.Error(err))
		}
	}()

	if _, err := io.Copy(spool, upload); err != nil {
		return value.RawCertificate{}, fmt.Errorf("io.Copy: %w", err)
	}

	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return value.RawCertificate{}, fmt.Errorf("spool.Seek: %w", err)
	}

	raw, err := s.extractor.Extract(ctx, spool.Name(), spool)
	if err != nil {
		return value.RawCertificate{}, fmt.Errorf("extractor.Extract: %w", err)
	}

	return raw, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
