package http

import (
	"net/http"
	"time"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/logger"
	"summitclub-backend/internal/ratelimit"
	"summitclub-backend/internal/security"
)

const sessionCookieName = "auth_token"

// sessionMiddleware resolves the auth cookie into session claims on the
// request context. An invalid or missing cookie leaves the request
// anonymous; it is never an error by itself.
func sessionMiddleware(sessions security.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				if claims := sessions.Verify(cookie.Value); claims != nil {
					r = r.WithContext(withSession(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r.Context()) == nil {
			writeError(w, apperror.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := sessionFrom(r.Context())
			if claims == nil {
				writeError(w, apperror.Unauthorized("Authentication required"))
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, apperror.Forbidden("Insufficient permissions"))
		})
	}
}

// requireVerifiedMember admits verified members and admins. Unverified
// members are rejected before any handler side effect runs.
func requireVerifiedMember(next http.Handler) http.Handler {
	return requireRole(domain.RoleMemberVerified, domain.RoleAdmin)(next)
}

// rateLimitMiddleware applies a per-IP fixed-window cap and answers 429
// with a retry hint when it is exceeded.
func rateLimitMiddleware(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				writeError(w, apperror.TooManyRequests("Too many attempts. Please try again in a minute."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
