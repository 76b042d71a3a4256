package api

import (
	"net/http"
	"time"

	"fjacquet/transfer-assistant/internal/logging"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request through logger.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.WithFields(
				logging.F(logging.FieldHTTPMethod, r.Method),
				logging.F(logging.FieldHTTPPath, r.URL.Path),
				logging.F(logging.FieldHTTPStatus, status),
				logging.F(logging.FieldRemoteAddr, r.RemoteAddr),
				logging.F(logging.FieldDuration, time.Since(start).Milliseconds()),
				logging.F("request_id", middleware.GetReqID(r.Context())),
			)
			if status >= http.StatusInternalServerError {
				log.Error("HTTP request")
				return
			}
			log.Info("HTTP request")
		})
	}
}
