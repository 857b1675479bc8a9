package server

import (
	"log/slog"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/httpx/reply"
	"calibration_analyzer/pkg/logx"
	"calibration_analyzer/pkg/middlewarex"
)

// statusByCode сопоставляет доменные коды, у которых нет класса failure.
//
//nolint:gochecknoglobals
var statusByCode = map[failure.ErrorCode]int{
	errcodes.ExtractionEmpty:    http.StatusUnprocessableEntity,
	errcodes.ExtractionError:    http.StatusUnprocessableEntity,
	errcodes.InvalidCertificate: http.StatusBadRequest,
	errcodes.ExtractionDisabled: http.StatusServiceUnavailable,
	errcodes.TimeoutExceeded:    http.StatusInternalServerError,
}

type RouterOptions struct {
	Logger         *slog.Logger
	Masker         logx.SensitiveDataMaskerInterface
	LogFieldMaxLen int
}

// NewRouter собирает HTTP-обработчик вместе с цепочкой middleware.
func NewRouter(s Server, opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Masker == nil {
		opts.Masker = logx.NewNopSensitiveDataMasker()
	}

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(opts.Logger),
		middlewarex.Recovery,
		middlewarex.RequestLogging(opts.Masker, opts.LogFieldMaxLen),
		middlewarex.ResponseLogging(opts.Masker, opts.LogFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/", handler(s.getRoot))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/analyze", func(r chi.Router) {
			r.Post("/", handler(s.postV1Analyze))
			r.Post("/certificate", handler(s.postV1AnalyzeCertificate))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}

		if code, ok := domain.GetCode(err); ok {
			if status, ok := statusByCode[code]; ok {
				reply.ErrorStatus(r.Context(), w, status, code, err)
				return
			}
		}

		reply.Error(r.Context(), w, err)
	}
}
