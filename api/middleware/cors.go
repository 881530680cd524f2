package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Local dev frontends are always allowed.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://127.0.0.1:8080",
}

// CORS applies the API's allowed-origin policy. Origins from configuration
// extend the local-dev defaults.
func CORS(origins ...string) func(http.Handler) http.Handler {
	allowed := append([]string{}, defaultCORSOrigins...)
	allowed = append(allowed, origins...)

	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
