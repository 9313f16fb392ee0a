package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/coronelbarros/storefront/pkg/config"
)

// CORS applies the configured origin policy. The cart session and request id
// headers are exposed so the browser can persist them.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", CartSessionHeader, RequestIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{CartSessionHeader, RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
