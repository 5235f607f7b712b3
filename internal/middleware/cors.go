package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"
)

const corsMaxAge = 10 * time.Minute

// CORS admits browser calls from origins. Credentials stay disabled since
// tokens travel in the Authorization header.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         int(corsMaxAge.Seconds()),
	}).Handler
}
