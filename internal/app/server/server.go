package server

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lpdp/internal/domain/audit"
	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/notifications"
	"lpdp/internal/domain/rat"
	"lpdp/internal/domain/reports"
	"lpdp/internal/domain/tasks"
	"lpdp/internal/domain/tenant"
	"lpdp/internal/platform/config"
	"lpdp/internal/platform/db"
	"lpdp/internal/platform/email"
	"lpdp/internal/platform/jobs"
	"lpdp/internal/platform/metrics"
	audithandler "lpdp/internal/transport/http/handlers/audit"
	authhandler "lpdp/internal/transport/http/handlers/auth"
	notificationshandler "lpdp/internal/transport/http/handlers/notifications"
	rathandler "lpdp/internal/transport/http/handlers/rats"
	reportshandler "lpdp/internal/transport/http/handlers/reports"
	taskhandler "lpdp/internal/transport/http/handlers/tasks"
	tenanthandler "lpdp/internal/transport/http/handlers/tenants"
	"lpdp/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	authStore := auth.NewStore(pool)
	tenantStore := tenant.NewStore(pool)
	auditSvc := audit.New(pool)

	notifStore := notifications.NewStore(pool)
	mailer := email.New(cfg)
	notifSvc := notifications.New(notifStore, mailer, cfg.DeliveryInitialDelay, cfg.DeliveryMaxAttempts)
	if cfg.EmailFrom != "" {
		notifSvc.DefaultFrom = cfg.EmailFrom
	}

	ratStore := rat.NewStore(pool)
	ratSvc := rat.NewService(ratStore, tenantStore, notifSvc)

	taskSvc := tasks.NewService(tasks.NewStore(pool))
	reportSvc := reports.NewService(reports.NewStore(pool), tenantStore)

	jobsSvc := jobs.New(pool, cfg, notifSvc)
	jobsSvc.Start(ctx)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.With(middleware.RequirePermission(auth.PermSystemAdmin, authStore)).
			Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
					slog.Warn("metrics write failed", "err", err)
				}
			})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(pool, cfg.JWTSecret)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/request-reset", authHandler.HandleRequestReset)
		r.Post("/auth/reset", authHandler.HandleResetPassword)

		rathandler.NewHandler(ratSvc, authStore, auditSvc).RegisterRoutes(r)
		taskhandler.NewHandler(taskSvc, authStore, auditSvc).RegisterRoutes(r)
		tenanthandler.NewHandler(tenantStore, authStore, auditSvc, cfg.DefaultRecordQuota).RegisterRoutes(r)
		notificationshandler.NewHandler(notifSvc, authStore).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
		reportshandler.NewHandler(reportSvc, authStore, auditSvc).RegisterRoutes(r)
	})

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
