package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dpineda/mediashelf-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// maxRequestIDLength bounds inbound correlation IDs before they reach logs.
const maxRequestIDLength = 64

// RequestID stamps every request with a correlation ID. An inbound
// X-Request-Id within bounds is reused so traces survive proxy hops; a blank
// or oversized one is replaced with a fresh UUID. The ID is echoed back to
// the client and attached to the request's log context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, requestID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, requestID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
