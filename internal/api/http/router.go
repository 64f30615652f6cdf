package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/ratelimit"
	"summitclub-backend/internal/security"
	"summitclub-backend/internal/service"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Sessions    security.SessionManager
	AuthLimiter *ratelimit.Limiter
	Auth        service.AuthService
	News        service.NewsService
	Blogs       service.BlogService
	Events      service.EventService
	Newsletter  service.NewsletterService
	Admin       service.AdminService
	Production  bool
}

// NewRouter builds the full /api surface.
func NewRouter(deps RouterDeps) *mux.Router {
	authHandler := NewAuthHandler(deps.Auth, deps.Production, deps.Sessions.TTL())
	publicHandler := NewPublicHandler(deps.News, deps.Blogs, deps.Events, deps.Newsletter)
	memberHandler := NewMemberHandler(deps.Auth, deps.Blogs, deps.Events)
	adminHandler := NewAdminHandler(deps.Admin, deps.News, deps.Blogs, deps.Events, deps.Newsletter)

	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(sessionMiddleware(deps.Sessions))
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	api := r.PathPrefix("/api").Subrouter()

	// Credential endpoints share one per-IP limiter so an attacker
	// cannot rotate between them.
	auth := api.PathPrefix("/auth").Subrouter()
	limited := rateLimitMiddleware(deps.AuthLimiter)
	auth.Handle("/signup", limited(http.HandlerFunc(authHandler.Signup))).Methods(http.MethodPost)
	auth.Handle("/login", limited(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
	auth.Handle("/otp/send", limited(http.HandlerFunc(authHandler.SendOTP))).Methods(http.MethodPost)
	auth.Handle("/otp/login", limited(http.HandlerFunc(authHandler.LoginOTP))).Methods(http.MethodPost)
	auth.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet, http.MethodPost)
	auth.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)

	// Public reads.
	api.HandleFunc("/news", publicHandler.ListNews).Methods(http.MethodGet)
	api.HandleFunc("/news/{id}", publicHandler.GetNews).Methods(http.MethodGet)
	api.HandleFunc("/blogs", publicHandler.ListBlogs).Methods(http.MethodGet)
	api.HandleFunc("/blogs/{id}", publicHandler.GetBlog).Methods(http.MethodGet)
	api.HandleFunc("/events", publicHandler.ListEvents).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", publicHandler.GetEvent).Methods(http.MethodGet)
	api.HandleFunc("/newsletter/subscribe", publicHandler.Subscribe).Methods(http.MethodPost)

	// Member surface. The dashboard only needs a session; everything
	// else requires a verified member.
	member := api.PathPrefix("/member").Subrouter()
	member.Handle("/dashboard", requireAuth(http.HandlerFunc(memberHandler.Dashboard))).Methods(http.MethodGet)

	verified := member.NewRoute().Subrouter()
	verified.Use(requireVerifiedMember)
	verified.HandleFunc("/blogs", memberHandler.ListMyBlogs).Methods(http.MethodGet)
	verified.HandleFunc("/blogs", memberHandler.CreateBlog).Methods(http.MethodPost)
	verified.HandleFunc("/blogs/{id}", memberHandler.GetBlog).Methods(http.MethodGet)
	verified.HandleFunc("/blogs/{id}", memberHandler.UpdateBlog).Methods(http.MethodPatch)
	verified.HandleFunc("/blogs/{id}", memberHandler.DeleteBlog).Methods(http.MethodDelete)
	verified.HandleFunc("/events/{id}/register", memberHandler.Register).Methods(http.MethodPost)
	verified.HandleFunc("/events/{id}/register", memberHandler.GetRegistration).Methods(http.MethodGet)
	verified.HandleFunc("/registrations", memberHandler.MyRegistrations).Methods(http.MethodGet)
	verified.HandleFunc("/registrations/{id}", memberHandler.UpdateRegistration).Methods(http.MethodPatch)

	// Admin surface.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(requireRole(domain.RoleAdmin))
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", adminHandler.UpdateUserRole).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}/verify", adminHandler.VerifyUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/news", adminHandler.ListNews).Methods(http.MethodGet)
	admin.HandleFunc("/news", adminHandler.CreateNews).Methods(http.MethodPost)
	admin.HandleFunc("/news/{id}", adminHandler.GetNews).Methods(http.MethodGet)
	admin.HandleFunc("/news/{id}", adminHandler.UpdateNews).Methods(http.MethodPatch)
	admin.HandleFunc("/news/{id}", adminHandler.DeleteNews).Methods(http.MethodDelete)
	admin.HandleFunc("/events", adminHandler.ListEvents).Methods(http.MethodGet)
	admin.HandleFunc("/events", adminHandler.CreateEvent).Methods(http.MethodPost)
	admin.HandleFunc("/events/{id}", adminHandler.GetEvent).Methods(http.MethodGet)
	admin.HandleFunc("/events/{id}", adminHandler.UpdateEvent).Methods(http.MethodPatch)
	admin.HandleFunc("/events/{id}", adminHandler.DeleteEvent).Methods(http.MethodDelete)
	admin.HandleFunc("/events/{id}/registrations", adminHandler.ListEventRegistrations).Methods(http.MethodGet)
	admin.HandleFunc("/events/{id}/registrations/{regId}", adminHandler.UpdateEventRegistration).Methods(http.MethodPut)
	admin.HandleFunc("/blogs", adminHandler.ListBlogs).Methods(http.MethodGet)
	admin.HandleFunc("/blogs/{id}", adminHandler.ModerateBlog).Methods(http.MethodPatch)
	admin.HandleFunc("/notes", adminHandler.ListNotes).Methods(http.MethodGet)
	admin.HandleFunc("/notes", adminHandler.CreateNote).Methods(http.MethodPost)
	admin.HandleFunc("/notes/{id}", adminHandler.UpdateNote).Methods(http.MethodPatch)
	admin.HandleFunc("/notes/{id}", adminHandler.DeleteNote).Methods(http.MethodDelete)
	admin.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/newsletter/subscribers", adminHandler.ListSubscribers).Methods(http.MethodGet)
	admin.HandleFunc("/newsletter/campaigns", adminHandler.ListCampaigns).Methods(http.MethodGet)
	admin.HandleFunc("/newsletter/send", adminHandler.SendNewsletter).Methods(http.MethodPost)

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apperror.NotFound("Route not found"))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apperror.NotFound("Route not found"))
}
