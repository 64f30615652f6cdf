package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/service"
)

// MemberHandler serves the authenticated member surface: own blogs,
// event registrations and the dashboard.
type MemberHandler struct {
	auth   service.AuthService
	blogs  service.BlogService
	events service.EventService
}

func NewMemberHandler(auth service.AuthService, blogs service.BlogService, events service.EventService) *MemberHandler {
	return &MemberHandler{auth: auth, blogs: blogs, events: events}
}

type blogCreateRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	Slug    string `json:"slug,omitempty"`
	Content string `json:"content" validate:"required"`
	Excerpt string `json:"excerpt,omitempty" validate:"max=500"`
	Image   string `json:"image,omitempty"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

type blogUpdateRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Slug    *string `json:"slug,omitempty"`
	Content *string `json:"content,omitempty"`
	Excerpt *string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Image   *string `json:"image,omitempty"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

func (h *MemberHandler) ListMyBlogs(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	page, limit := pageParams(r)
	items, total, err := h.blogs.ListByAuthor(r.Context(), claims.UserID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *MemberHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req blogCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.blogs.Create(r.Context(), claims.UserID, service.ContentInput{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Image:   req.Image,
		Status:  domain.ContentStatus(req.Status),
	}, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *MemberHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	item, err := h.blogs.Get(r.Context(), mux.Vars(r)["id"], false)
	if err != nil {
		writeError(w, err)
		return
	}
	if item.AuthorID != claims.UserID && !isAdmin(claims) {
		// Hidden rather than forbidden, no existence oracle.
		writeError(w, apperror.NotFound("Blog post not found"))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MemberHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req blogUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var status *domain.ContentStatus
	if req.Status != nil {
		s := domain.ContentStatus(*req.Status)
		status = &s
	}
	item, err := h.blogs.Update(r.Context(), mux.Vars(r)["id"], claims.UserID, isAdmin(claims), service.ContentUpdate{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Image:   req.Image,
		Status:  status,
	}, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MemberHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	if err := h.blogs.Delete(r.Context(), mux.Vars(r)["id"], claims.UserID, isAdmin(claims), requestMeta(clientIP(r), r.UserAgent())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blog post deleted"})
}

func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	reg, created, err := h.events.Register(r.Context(), mux.Vars(r)["id"], claims.UserID, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, reg)
}

func (h *MemberHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	reg, err := h.events.GetRegistration(r.Context(), mux.Vars(r)["id"], claims.UserID)
	if err != nil {
		// "Not registered" is an answer, not an error: the frontend
		// renders the register button off a null status.
		if apperror.IsStatus(err, http.StatusNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"status": nil})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (h *MemberHandler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	items, err := h.events.MyRegistrations(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type registrationUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED"`
}

func (h *MemberHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req registrationUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reg, err := h.events.UpdateRegistration(r.Context(), mux.Vars(r)["id"], claims.UserID, isAdmin(claims),
		domain.RegistrationStatus(req.Status), requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// Dashboard aggregates the member's profile and registrations. It only
// needs a session, not a verified one.
func (h *MemberHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	user, err := h.auth.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	regs, err := h.events.MyRegistrations(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          user,
		"registrations": regs,
	})
}
