package http

import (
	"context"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/security"
	"summitclub-backend/internal/service"
)

type contextKey int

const sessionKey contextKey = iota

// withSession stores the verified session claims on the request context.
func withSession(ctx context.Context, claims *security.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionKey, claims)
}

// sessionFrom returns the session claims, or nil for anonymous requests.
func sessionFrom(ctx context.Context) *security.SessionClaims {
	claims, _ := ctx.Value(sessionKey).(*security.SessionClaims)
	return claims
}

func isAdmin(claims *security.SessionClaims) bool {
	return claims != nil && claims.Role == domain.RoleAdmin
}

// requestMeta captures the client attributes services need for audit
// rows and per-IP limits.
func requestMeta(ip, userAgent string) service.RequestMeta {
	return service.RequestMeta{IP: ip, UserAgent: userAgent}
}
