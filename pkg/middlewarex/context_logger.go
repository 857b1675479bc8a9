package middlewarex

import (
	"log/slog"
	"net/http"

	"calibration_analyzer/pkg/contextx"
	"calibration_analyzer/pkg/logx"
)

// Logger puts base into the request context, tagged with the trace id when
// TraceID ran before it.
func Logger(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := base

			if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
				l = l.With(slog.String(logx.FieldTraceID, traceID.String()))
			}

			next.ServeHTTP(w, r.WithContext(contextx.WithLogger(ctx, l)))
		})
	}
}
