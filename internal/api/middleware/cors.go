package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware allows browser calls from the configured origins. Session
// cookies require credentials, so a wildcard is only honoured without them.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowCredentials := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCredentials = false
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
