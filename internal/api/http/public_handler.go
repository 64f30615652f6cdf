package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/service"
)

// PublicHandler serves unauthenticated reads: published news, blogs and
// events, plus newsletter signup.
type PublicHandler struct {
	news       service.NewsService
	blogs      service.BlogService
	events     service.EventService
	newsletter service.NewsletterService
}

func NewPublicHandler(news service.NewsService, blogs service.BlogService, events service.EventService, newsletter service.NewsletterService) *PublicHandler {
	return &PublicHandler{news: news, blogs: blogs, events: events, newsletter: newsletter}
}

func (h *PublicHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	items, total, err := h.news.List(r.Context(), domain.StatusPublished, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", publicCacheControl)
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *PublicHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	item, err := h.news.Get(r.Context(), mux.Vars(r)["id"], true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *PublicHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	items, total, err := h.blogs.List(r.Context(), domain.StatusPublished, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", publicCacheControl)
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *PublicHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	item, err := h.blogs.Get(r.Context(), mux.Vars(r)["id"], true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *PublicHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	// Upcoming events first unless the client asks for the reverse.
	ascending := r.URL.Query().Get("order") != "desc"
	items, total, err := h.events.List(r.Context(), domain.StatusPublished, ascending, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", publicCacheControl)
	writePaged(w, http.StatusOK, items, page, limit, total)
}

func (h *PublicHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	item, err := h.events.Get(r.Context(), mux.Vars(r)["id"], true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *PublicHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"message": "Subscribed to the newsletter"})
}
