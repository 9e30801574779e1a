package middleware

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"stockflow-backend/internal/config"
)

// NewCORS builds the CORS layer from the configured origin allowlist.
// Credentials are allowed because the frontend sends the JWT cookie on
// cross-origin calls; the preflight cache is kept short so origin
// changes take effect without waiting out stale browser caches.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	log.Printf("[CORS] allowed origins: %v", cfg.Server.CorsAllowedOrigins)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}
