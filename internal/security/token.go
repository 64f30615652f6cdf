package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"summitclub-backend/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// DefaultSessionTTL matches the auth_token cookie lifetime.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionClaims is the payload embedded in the session cookie.
type SessionClaims struct {
	UserID      string      `json:"user_id"`
	Email       string      `json:"email,omitempty"`
	Role        domain.Role `json:"role"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	jwt.RegisteredClaims
}

type SessionManager interface {
	Sign(user *domain.User, ttl time.Duration) (string, error)
	// Verify returns nil for any invalid token: expired, tampered,
	// malformed or signed with the wrong key. An unverifiable session
	// is simply no session.
	Verify(tokenString string) *SessionClaims
	// TTL is the configured session lifetime, also used for the cookie
	// Max-Age so the two expire together.
	TTL() time.Duration
}

type sessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager builds a manager signing sessions for the given
// lifetime; ttl 0 means DefaultSessionTTL.
func NewSessionManager(secret string, ttl time.Duration) SessionManager {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionManager{secret: []byte(secret), ttl: ttl}
}

func (m *sessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *sessionManager) Sign(user *domain.User, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = m.ttl
	}
	phone := ""
	if user.PhoneNumber != nil {
		phone = *user.PhoneNumber
	}
	claims := SessionClaims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		PhoneNumber: phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "summitclub",
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *sessionManager) Verify(tokenString string) *SessionClaims {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil
	}
	if claims.UserID == "" && claims.Subject != "" {
		claims.UserID = claims.Subject
	}
	return claims
}

// Simple unique ID generator
func generateJTI() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16)
}
