package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"
)

// SecurityMiddleware sets baseline response headers and logs each API
// request with the acting user when a session is present.
func SecurityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		userID, userName, userRole := "-", "-", "-"
		if claims := GetClaims(r); claims != nil {
			userID = claims.UserID
			userName = claims.Name
			userRole = claims.Role
		}
		log.Printf("[API] %s %s user=%s name=%s role=%s ip=%s",
			r.Method, r.URL.Path, userID, userName, userRole, getClientIP(r))

		next.ServeHTTP(w, r)
	})
}

// Extracts client IP from headers or remote addr
func getClientIP(r *http.Request) string {
	// Priority: X-Forwarded-For → X-Real-IP → RemoteAddr
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.Split(ip, ",")[0]
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
