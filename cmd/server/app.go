package main

import (
	"net/http"

	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/internal/apper"
	"github.com/diewo77/go-crm/internal/handlers"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux    *http.ServeMux
	svc    *services.Services
	tokens *auth.Manager
}

// AppOptions carries the optional parts of the route table.
type AppOptions struct {
	// Backend, when set, is served as a record API under /backend.
	Backend   records.Backend
	PublicKey string
}

// NewApp creates a new application with all routes configured.
func NewApp(svc *services.Services, tokens *auth.Manager, opts AppOptions) *App {
	app := &App{
		mux:    http.NewServeMux(),
		svc:    svc,
		tokens: tokens,
	}
	app.setupRoutes(opts)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.tokens.Middleware(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes(opts AppOptions) {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /healthz", handlers.Health)

	if opts.Backend != nil {
		a.mux.Handle("/backend/", http.StripPrefix("/backend", apper.NewHandler(opts.Backend, opts.PublicKey)))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// API routes (require a bearer token)
	// ─────────────────────────────────────────────────────────────────────────
	s := a.svc
	handlers.NewClientHandler(s.Clients).Register(a.mux, "/api/clients", auth.RequireAuth)
	handlers.NewProjectHandler(s.Projects).Register(a.mux, "/api/projects", auth.RequireAuth)
	handlers.NewTaskHandler(s.Tasks, s.Timer).Register(a.mux, "/api/tasks", auth.RequireAuth)
	handlers.NewInvoiceHandler(s.Invoices).Register(a.mux, "/api/invoices", auth.RequireAuth)

	ia := handlers.NewInvoiceActions(s.Invoices)
	a.mux.Handle("POST /api/invoices/{id}/paid", auth.RequireAuth(http.HandlerFunc(ia.MarkPaid)))
	a.mux.Handle("POST /api/invoices/{id}/sent", auth.RequireAuth(http.HandlerFunc(ia.MarkSent)))

	ta := handlers.NewTaskActions(s.Tasks, s.Timer)
	a.mux.Handle("POST /api/tasks/{id}/status", auth.RequireAuth(http.HandlerFunc(ta.UpdateStatus)))
	a.mux.Handle("POST /api/tasks/{id}/timer/start", auth.RequireAuth(http.HandlerFunc(ta.StartTimer)))
	a.mux.Handle("POST /api/tasks/{id}/timer/stop", auth.RequireAuth(http.HandlerFunc(ta.StopTimer)))
	a.mux.Handle("GET /api/tasks/{id}/time-logs", auth.RequireAuth(http.HandlerFunc(ta.TimeLogs)))

	dh := handlers.NewDashboardHandler(s.Dashboard)
	a.mux.Handle("GET /api/dashboard", auth.RequireAuth(http.HandlerFunc(dh.Summary)))
}
