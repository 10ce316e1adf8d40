package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/choreboard/internal/chore"
	"github.com/dukerupert/choreboard/internal/config"
	"github.com/dukerupert/choreboard/internal/family"
	"github.com/dukerupert/choreboard/internal/handler"
	"github.com/dukerupert/choreboard/internal/job"
	"github.com/dukerupert/choreboard/internal/ledger"
	"github.com/dukerupert/choreboard/internal/metrics"
	"github.com/dukerupert/choreboard/internal/middleware"
	"github.com/dukerupert/choreboard/internal/store"
	"github.com/dukerupert/choreboard/internal/week"
	ws "github.com/dukerupert/choreboard/internal/websocket"
)

type Server struct {
	db          *sql.DB
	cfg         config.Config
	registry    *prometheus.Registry
	hub         *ws.Hub
	family      *family.Service
	chores      *chore.Service
	authH       *handler.AuthHandler
	kidH        *handler.KidHandler
	choreH      *handler.ChoreHandler
	jobH        *handler.JobHandler
	bankH       *handler.BankHandler
	dashboardH  *handler.DashboardHandler
	rateLimiter *middleware.RateLimiter
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// New wires stores, services and handlers. A nil registry disables metrics.
func New(db *sql.DB, cfg config.Config, registry *prometheus.Registry, logger *slog.Logger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if registry != nil {
		m = metrics.New(registry)
	}
	hub := ws.NewHub(m, logger.With("component", "websocket"))
	weeks := week.NewCalculator(loc)

	userStore := store.NewUserStore(db)
	choreStore := store.NewChoreStore(db)
	jobStore := store.NewJobStore(db)

	familySvc := family.NewService(userStore, store.NewFamilyStore(db), store.NewSessionStore(db),
		cfg.Auth.TTL(), logger.With("component", "family"))
	choreSvc := chore.NewService(choreStore, userStore, weeks, m, logger.With("component", "chore"))
	jobSvc := job.NewService(jobStore, userStore, m, logger.With("component", "job"))
	ledgerSvc := ledger.NewService(choreStore, jobStore, store.NewTransactionStore(db), userStore,
		weeks, m, logger.With("component", "ledger"))

	cookie := handler.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.SecureCookie}
	return &Server{
		db:          db,
		cfg:         cfg,
		registry:    registry,
		hub:         hub,
		family:      familySvc,
		chores:      choreSvc,
		authH:       handler.NewAuthHandler(familySvc, cookie, logger.With("component", "auth")),
		kidH:        handler.NewKidHandler(familySvc, hub, logger.With("component", "kid")),
		choreH:      handler.NewChoreHandler(choreSvc, hub, logger.With("component", "chore_handler")),
		jobH:        handler.NewJobHandler(jobSvc, hub, logger.With("component", "job_handler")),
		bankH:       handler.NewBankHandler(ledgerSvc, hub, logger.With("component", "bank")),
		dashboardH:  handler.NewDashboardHandler(choreSvc, jobSvc, ledgerSvc, logger.With("component", "dashboard")),
		rateLimiter: middleware.NewRateLimiter(cfg.Auth.LoginRate, cfg.Auth.Window()),
		metrics:     m,
		logger:      logger,
	}, nil
}

// Family returns the account service for session cleanup.
func (s *Server) Family() *family.Service {
	return s.family
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Chores returns the chore service the materialize command drives.
func (s *Server) Chores() *chore.Service {
	return s.chores
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	if s.registry != nil {
		outerMux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.family, s.cfg.Auth.CookieName)
	outerMux.Handle("/", authMiddleware(protectedMux))

	var h http.Handler = outerMux
	h = middleware.Instrument(s.metrics)(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	h = chimw.Recoverer(h)
	h = chimw.RequestID(h)
	return h
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP)
	wrapped := rl(h)
	return wrapped.ServeHTTP
}

// parent gates routes that only a parent may reach. Services check again;
// this just answers early.
func parent(h http.HandlerFunc) http.Handler {
	return middleware.RequireParent(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Kids
	mux.HandleFunc("GET /api/kids", s.kidH.List)
	mux.Handle("POST /api/kids", parent(s.kidH.Create))
	mux.HandleFunc("GET /api/kids/{id}", s.kidH.Get)
	mux.Handle("PATCH /api/kids/{id}", parent(s.kidH.Update))
	mux.Handle("DELETE /api/kids/{id}", parent(s.kidH.Delete))
	mux.Handle("POST /api/kids/{id}/session", parent(s.authH.KidSession))
	mux.HandleFunc("GET /api/kids/{id}/chores", s.choreH.KidWeek)
	mux.HandleFunc("GET /api/kids/{id}/jobs", s.jobH.KidJobs)

	// Bank
	mux.Handle("GET /api/bank", parent(s.bankH.Balances))
	mux.HandleFunc("GET /api/kids/{id}/balance", s.bankH.Balance)
	mux.HandleFunc("GET /api/kids/{id}/history", s.bankH.History)
	mux.Handle("POST /api/kids/{id}/payouts", parent(s.bankH.Payout))
	mux.Handle("POST /api/kids/{id}/allowance", parent(s.bankH.Allowance))
	mux.Handle("POST /api/kids/{id}/adjustments", parent(s.bankH.Adjustment))

	// Chore templates and weekly instances
	mux.Handle("GET /api/templates", parent(s.choreH.ListTemplates))
	mux.Handle("POST /api/templates", parent(s.choreH.CreateTemplate))
	mux.Handle("PATCH /api/templates/{id}", parent(s.choreH.UpdateTemplate))
	mux.Handle("DELETE /api/templates/{id}", parent(s.choreH.DeleteTemplate))
	mux.Handle("GET /api/chores", parent(s.choreH.FamilyWeek))
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.Handle("POST /api/chores/{id}/approve", parent(s.choreH.Approve))
	mux.Handle("POST /api/chores/{id}/reject", parent(s.choreH.Reject))

	// Jobs
	mux.HandleFunc("GET /api/jobs", s.jobH.List)
	mux.Handle("POST /api/jobs", parent(s.jobH.Create))
	mux.Handle("PATCH /api/jobs/{id}", parent(s.jobH.Update))
	mux.Handle("DELETE /api/jobs/{id}", parent(s.jobH.Delete))
	mux.HandleFunc("POST /api/jobs/{id}/claim", s.jobH.Claim)
	mux.HandleFunc("POST /api/jobs/{id}/complete", s.jobH.Complete)
	mux.Handle("POST /api/jobs/{id}/approve", parent(s.jobH.Approve))
	mux.Handle("POST /api/jobs/{id}/reject", parent(s.jobH.Reject))

	// Parent overview
	mux.Handle("GET /api/approvals", parent(s.dashboardH.Approvals))
	mux.Handle("GET /api/dashboard", parent(s.dashboardH.Dashboard))

	mux.HandleFunc("GET /ws", ws.Handler(s.hub, nil))
}
