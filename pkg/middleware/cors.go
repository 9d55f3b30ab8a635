package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/stockpile/config"
)

// CORSOptions configures the cross-origin policy applied to the API.
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // seconds a preflight answer may be cached
}

// DefaultCORSOptions builds the policy from configuration. The origin
// allow-list comes from CORS_ALLOWED_ORIGINS (comma-separated, "*" by
// default); methods and headers cover the JSON API surface.
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{
		AllowedOrigins: config.CORSAllowedOrigins(),
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}
}

// CORS stamps allow headers on requests from permitted origins and
// answers preflight requests with 204.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(opts.MaxAge)

	wildcard := false
	allowed := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, origin := range opts.AllowedOrigins {
		if origin == "*" {
			wildcard = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			match := ""
			if wildcard {
				match = "*"
			} else if _, ok := allowed[origin]; ok && origin != "" {
				match = origin
			}

			if match != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", match)
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if opts.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", maxAge)
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
