package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/service"
)

// AdminHandler serves the admin surface. Role enforcement happens in
// the router middleware; handlers here assume an ADMIN session.
type AdminHandler struct {
	admin      service.AdminService
	news       service.NewsService
	blogs      service.BlogService
	events     service.EventService
	newsletter service.NewsletterService
}

func NewAdminHandler(admin service.AdminService, news service.NewsService, blogs service.BlogService, events service.EventService, newsletter service.NewsletterService) *AdminHandler {
	return &AdminHandler{admin: admin, news: news, blogs: blogs, events: events, newsletter: newsletter}
}

// --- users ---

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	users, total, err := h.admin.ListUsers(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, users, page, limit, total)
}

type roleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=MEMBER_UNVERIFIED MEMBER_VERIFIED ADMIN SUSPENDED"`
}

func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req roleUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.admin.UpdateUserRole(r.Context(), mux.Vars(r)["id"], domain.Role(req.Role), claims.UserID, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	user, err := h.admin.VerifyUser(r.Context(), mux.Vars(r)["id"], claims.UserID, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	if err := h.admin.DeleteUser(r.Context(), mux.Vars(r)["id"], claims.UserID, requestMeta(clientIP(r), r.UserAgent())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// --- news ---

type newsCreateRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	Slug    string `json:"slug,omitempty"`
	Content string `json:"content" validate:"required"`
	Excerpt string `json:"excerpt,omitempty" validate:"max=500"`
	Image   string `json:"image,omitempty"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

type newsUpdateRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Slug    *string `json:"slug,omitempty"`
	Content *string `json:"content,omitempty"`
	Excerpt *string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Image   *string `json:"image,omitempty"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

func (h *AdminHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	status := domain.ContentStatus(r.URL.Query().Get("status"))
	items, total, err := h.news.List(r.Context(), status, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *AdminHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	item, err := h.news.Get(r.Context(), mux.Vars(r)["id"], false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AdminHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req newsCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.news.Create(r.Context(), claims.UserID, service.ContentInput{
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

func (h *AdminHandler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req newsUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var status *domain.ContentStatus
	if req.Status != nil {
		s := domain.ContentStatus(*req.Status)
		status = &s
	}
	item, err := h.news.Update(r.Context(), mux.Vars(r)["id"], claims.UserID, service.ContentUpdate{
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

func (h *AdminHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	if err := h.news.Delete(r.Context(), mux.Vars(r)["id"], claims.UserID, requestMeta(clientIP(r), r.UserAgent())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "News deleted"})
}

// --- events ---

type eventCreateRequest struct {
	Title       string    `json:"title" validate:"required,max=300"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Image       string    `json:"image,omitempty"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Capacity    *int      `json:"capacity,omitempty"`
	Status      string    `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

type eventUpdateRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=300"`
	Slug        *string    `json:"slug,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Image       *string    `json:"image,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	// Capacity distinguishes absent (leave alone) from null (unlimited)
	// with an explicit presence flag populated below.
	Capacity    *int    `json:"capacity"`
	HasCapacity bool    `json:"-"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	status := domain.ContentStatus(r.URL.Query().Get("status"))
	ascending := r.URL.Query().Get("order") == "asc"
	items, total, err := h.events.List(r.Context(), status, ascending, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *AdminHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	item, err := h.events.Get(r.Context(), mux.Vars(r)["id"], false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req eventCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.events.Create(r.Context(), claims.UserID, service.EventInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Location:    req.Location,
		Image:       req.Image,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Capacity:    req.Capacity,
		Status:      domain.ContentStatus(req.Status),
	}, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())

	// Peek at the raw body keys so "capacity": null is distinguishable
	// from capacity being absent.
	var raw map[string]any
	var req eventUpdateRequest
	if err := decodeBodyWithRaw(r, &req, &raw); err != nil {
		writeError(w, err)
		return
	}
	_, req.HasCapacity = raw["capacity"]

	var status *domain.ContentStatus
	if req.Status != nil {
		s := domain.ContentStatus(*req.Status)
		status = &s
	}
	item, err := h.events.Update(r.Context(), mux.Vars(r)["id"], claims.UserID, service.EventUpdate{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Location:    req.Location,
		Image:       req.Image,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Capacity:    req.Capacity,
		HasCapacity: req.HasCapacity,
		Status:      status,
	}, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	if err := h.events.Delete(r.Context(), mux.Vars(r)["id"], claims.UserID, requestMeta(clientIP(r), r.UserAgent())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

func (h *AdminHandler) ListEventRegistrations(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	items, total, err := h.events.ListRegistrations(r.Context(), mux.Vars(r)["id"], page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *AdminHandler) UpdateEventRegistration(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req registrationUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reg, err := h.events.UpdateRegistration(r.Context(), mux.Vars(r)["regId"], claims.UserID, true,
		domain.RegistrationStatus(req.Status), requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// --- blogs (moderation) ---

type moderationRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT PUBLISHED ARCHIVED FLAGGED BANNED"`
}

func (h *AdminHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	status := domain.ContentStatus(r.URL.Query().Get("status"))
	items, total, err := h.blogs.List(r.Context(), status, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *AdminHandler) ModerateBlog(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req moderationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.blogs.Moderate(r.Context(), mux.Vars(r)["id"], domain.ContentStatus(req.Status), claims.UserID, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- notes ---

type noteCreateRequest struct {
	EntityType string `json:"entity_type" validate:"required,oneof=user news blog event event_registration"`
	EntityID   string `json:"entity_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

type noteUpdateRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *AdminHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	var entityType, entityID *string
	if v := r.URL.Query().Get("entityType"); v != "" {
		entityType = &v
	}
	if v := r.URL.Query().Get("entityId"); v != "" {
		entityID = &v
	}
	items, total, err := h.admin.ListNotes(r.Context(), entityType, entityID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *AdminHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req noteCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	note, err := h.admin.CreateNote(r.Context(), claims.UserID, req.EntityType, req.EntityID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *AdminHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req noteUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	note, err := h.admin.UpdateNote(r.Context(), mux.Vars(r)["id"], claims.UserID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *AdminHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteNote(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
}

// --- stats & newsletter ---

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type newsletterSendRequest struct {
	Subject string `json:"subject" validate:"required,max=300"`
	Content string `json:"content" validate:"required"`
}

func (h *AdminHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	items, total, err := h.newsletter.ListSubscribers(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *AdminHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	items, total, err := h.newsletter.ListCampaigns(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *AdminHandler) SendNewsletter(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r.Context())
	var req newsletterSendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	campaign, err := h.newsletter.Send(r.Context(), claims.UserID, req.Subject, req.Content, requestMeta(clientIP(r), r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}
