package middleware

import (
	"strings"

	"github.com/go-chi/cors"
)

// NormalizeOrigins trims, lowercases and de-duplicates an origin list and
// drops trailing slashes. A "*" anywhere collapses the list to just "*".
// The same list feeds CORS and the /ws origin check.
func NormalizeOrigins(origins []string) []string {
	seen := make(map[string]bool, len(origins))
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o == "" || seen[o] {
			continue
		}
		if o == "*" {
			return []string{"*"}
		}
		seen[o] = true
		out = append(out, o)
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// CORSHandler builds the options for the request form and admin pages.
// Admin tokens travel in the Authorization header, so credentials are only
// enabled for an explicit origin list.
func CORSHandler(allowedOrigins []string) cors.Options {
	origins := NormalizeOrigins(allowedOrigins)
	wildcard := origins[0] == "*"

	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	}
}
