package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// Public list responses are safe to cache briefly.
	publicCacheControl = "public, max-age=300, stale-while-revalidate=600"
)

var validate = validator.New()

type errorEnvelope struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type pagedEnvelope struct {
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("encode response", "error", err)
		}
	}
}

// writeError maps any error onto the uniform envelope. Errors outside
// the taxonomy become a generic 500 so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)
	if appErr == nil {
		logger.Error("unhandled error", "error", err)
		appErr = apperror.Internal()
	}
	writeJSON(w, appErr.Status, errorEnvelope{
		Error:     appErr.Message,
		Code:      appErr.Code,
		Details:   appErr.Details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writePaged(w http.ResponseWriter, status int, data any, page, limit, total int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	writeJSON(w, status, pagedEnvelope{
		Data: data,
		Pagination: pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// pageParams parses ?page and ?limit with the documented bounds:
// page >= 1, 1 <= limit <= 100, limit default 10.
func pageParams(r *http.Request) (page, limit int) {
	page = 1
	limit = defaultPageSize
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			if n > maxPageSize {
				n = maxPageSize
			}
			limit = n
		}
	}
	return page, limit
}

// decodeBody parses the JSON body into dst and runs struct validation.
// Failures come back as 400 application errors with field details.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return validateStruct(dst)
}

// decodeBodyWithRaw additionally exposes the raw key set, for handlers
// that must tell an explicit null apart from an absent field.
func decodeBodyWithRaw(r *http.Request, dst any, raw *map[string]any) error {
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	if err := json.Unmarshal(buf, raw); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return validateStruct(dst)
}

func validateStruct(dst any) error {
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[strings.ToLower(fe.Field())] = fe.Tag()
			}
			return apperror.Validation("Validation failed", details)
		}
		return apperror.Validation("Validation failed", nil)
	}
	return nil
}

// clientIP prefers the leftmost X-Forwarded-For entry, set by the
// reverse proxy in front of the server.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
