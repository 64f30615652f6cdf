package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "summitclub-backend/internal/api/http"
	"summitclub-backend/internal/config"
	"summitclub-backend/internal/jobs"
	"summitclub-backend/internal/logger"
	"summitclub-backend/internal/ratelimit"
	"summitclub-backend/internal/repository/postgres"
	"summitclub-backend/internal/scheduler"
	"summitclub-backend/internal/security"
	"summitclub-backend/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Summit Club backend...", "environment", cfg.Environment, "log_level", cfg.Log.Level)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	sessions := security.NewSessionManager(cfg.JWT.Secret, time.Duration(cfg.JWT.SessionTTLHours)*time.Hour)

	// Per-IP fixed-window limiters share one counter store; account
	// lockout is tracked separately per email.
	counters := ratelimit.NewMemoryCounterStore()
	authLimiter := ratelimit.NewLimiter(counters, "auth", cfg.RateLimit.AuthPerMinute, time.Minute)
	regLimiter := ratelimit.NewLimiter(counters, "event_registration", cfg.RateLimit.RegistrationsPerHour, time.Hour)
	lockout := ratelimit.NewLockout()

	var mailer service.Mailer
	if cfg.Newsletter.Mode == "smtp" {
		logger.Info("Using SMTP mail delivery", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
		mailer = service.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		logger.Info("Using simulated mail delivery")
		mailer = service.NewLogMailer()
	}

	auditSvc := service.NewAuditService(store.AuditLogRepository)
	authSvc := service.NewAuthService(store.UserRepository, sessions, lockout, auditSvc, mailer)
	newsSvc := service.NewNewsService(store.NewsRepository, auditSvc)
	blogSvc := service.NewBlogService(store.BlogRepository, auditSvc)
	eventSvc := service.NewEventService(store.EventRepository, store.RegistrationRepository, regLimiter, auditSvc)
	newsletterSvc := service.NewNewsletterService(store.NewsletterRepository, mailer, auditSvc)
	adminSvc := service.NewAdminService(
		store.UserRepository,
		store.EventRepository,
		store.BlogRepository,
		store.NewsRepository,
		store.RegistrationRepository,
		store.AdminNoteRepository,
		auditSvc,
	)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Sessions:    sessions,
		AuthLimiter: authLimiter,
		Auth:        authSvc,
		News:        newsSvc,
		Blogs:       blogSvc,
		Events:      eventSvc,
		Newsletter:  newsletterSvc,
		Admin:       adminSvc,
		Production:  cfg.IsProduction(),
	})

	sched := scheduler.NewScheduler(jobs.NewRunner(store.UserRepository), cfg.Scheduler)
	sched.Start()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
