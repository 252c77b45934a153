package middleware

import (
	"net/http"

	"github.com/pointward/backend/config"
	"github.com/rs/cors"
)

func AllowCORS(cfg config.ServerConfigs, handler http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowCORS,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
		AllowCredentials: true,
	}).Handler(handler)
}
