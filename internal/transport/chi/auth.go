package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// KeySource yields the currently accepted API keys.
type KeySource interface {
	APIKeys() []string
}

// APIKeyMiddleware guards write routes. The key is read from a Bearer
// Authorization header or from X-API-Key. Keys are looked up per request so
// a config reload takes effect without a restart. With no keys configured
// every request is rejected.
func APIKeyMiddleware(keys KeySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			valid := keys.APIKeys()
			if len(valid) == 0 {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "writes are disabled: no api key configured")
				return
			}

			token, ok := requestKey(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing api key")
				return
			}
			if !matchKey(valid, token) {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestKey(r *http.Request) (string, bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const bearerPrefix = "Bearer "
		if len(auth) > len(bearerPrefix) && strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
			return strings.TrimSpace(auth[len(bearerPrefix):]), true
		}
		return "", false
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key, true
	}
	return "", false
}

// matchKey compares in constant time against every key.
func matchKey(valid []string, token string) bool {
	found := 0
	for _, k := range valid {
		found |= subtle.ConstantTimeCompare([]byte(k), []byte(token))
	}
	return found == 1
}
