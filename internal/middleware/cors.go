package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS builds the cross-origin policy applied around the whole router.
func CORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization", HeaderRequestID},
		ExposedHeaders:   []string{"Content-Length", HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:           300,
		AllowCredentials: true,
	})
}
