package middlewarex

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/httpx/reply"
	"calibration_analyzer/pkg/logx"
)

var errPanic = errors.New("internal server error")

// Recovery answers 500 with the usual error body when a handler panics.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger(ctx).Error(
					"panic in handler",
					slog.Any(logx.FieldError, rec),
					slog.String(logx.FieldStack, string(debug.Stack())),
				)

				reply.ErrorStatus(ctx, w, http.StatusInternalServerError, errcodes.InternalServerError, errPanic)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
