package http

import (
	"net/http"
	"time"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/security"
	"summitclub-backend/internal/service"
)

type AuthHandler struct {
	auth       service.AuthService
	production bool
	sessionTTL time.Duration
}

func NewAuthHandler(auth service.AuthService, production bool, sessionTTL time.Duration) *AuthHandler {
	if sessionTTL == 0 {
		sessionTTL = security.DefaultSessionTTL
	}
	return &AuthHandler{auth: auth, production: production, sessionTTL: sessionTTL}
}

type signupRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,e164"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type otpSendRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

type otpLoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

type sessionResponse struct {
	User *domain.User `json:"user"`
}

// setSessionCookie installs the auth cookie the SPA rides on. Secure is
// tied to the environment so local HTTP development still works.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := h.auth.Signup(r.Context(), req.Email, req.Password, req.PhoneNumber, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, sessionResponse{User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, sessionResponse{User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Sessions are stateless; logout is just dropping the cookie.
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	if claims == nil {
		writeError(w, apperror.Unauthorized("Authentication required"))
		return
	}
	user, err := h.auth.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user})
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpSendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.auth.SendOTP(r.Context(), req.PhoneNumber); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

func (h *AuthHandler) LoginOTP(w http.ResponseWriter, r *http.Request) {
	var req otpLoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, token, err := h.auth.LoginOTP(r.Context(), req.PhoneNumber, req.Code, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, sessionResponse{User: user})
}
