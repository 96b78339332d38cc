package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"gridblitz/logging"
)

// CronAuth guards the tick endpoint with a static bearer secret. An empty
// secret rejects everything, so a misconfigured deployment fails closed.
func CronAuth(secret string) func(http.Handler) http.Handler {
	logger := logging.WithPrefix("CronAuth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if secret == "" || token == r.Header.Get("Authorization") ||
				subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				logger.Warnf("Rejected %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
