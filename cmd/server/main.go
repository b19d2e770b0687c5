package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/internal/apper"
	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/db"
	"github.com/diewo77/go-crm/internal/notify"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/internal/services"
	"github.com/diewo77/go-crm/internal/store"
	"github.com/joho/godotenv"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
	tokenFlag       = flag.Int("token", 0, "Print a bearer token for the given user id and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	tokens := auth.NewManager(cfg.App.SessionSecret)
	if *tokenFlag > 0 {
		tok, err := tokens.GenerateToken(*tokenFlag, cfg.App.TokenTTL)
		if err != nil {
			log.Fatalf("Token generation failed: %v", err)
		}
		fmt.Println(tok)
		return
	}

	backend, local, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	if *migrateOnlyFlag {
		log.Println("Migrations completed successfully")
		return
	}

	svc := services.New(backend, notify.Log{})

	if *seedOnlyFlag || cfg.App.Seed {
		if err := db.Seed(context.Background(), svc, time.Now().UTC()); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		if *seedOnlyFlag {
			log.Println("Seeding completed successfully")
			return
		}
	}

	opts := AppOptions{}
	if cfg.Backend.Expose && local != nil {
		opts.Backend, opts.PublicKey = local, cfg.Backend.PublicKey
		log.Println("Record API exposed under /backend")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(NewApp(svc, tokens, opts)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (dev=%v backend=%s)", cfg.Server.Port, cfg.App.Dev, cfg.Backend.Kind)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// openBackend returns the record backend the services talk to. local is the
// gorm store when the records live in the configured database.
func openBackend(cfg *config.Config) (backend records.Backend, local *store.Store, err error) {
	if cfg.Backend.Kind == config.BackendApper && !*migrateOnlyFlag {
		c, err := apper.NewClient(cfg.Backend.BaseURL, cfg.Backend.ProjectID, cfg.Backend.PublicKey,
			apper.WithTimeout(cfg.Backend.Timeout))
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using hosted backend at %s", cfg.Backend.BaseURL)
		return c, nil, nil
	}

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(dbConn, cfg.Database, cfg.App.Migrations); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	local = store.New(dbConn)
	return local, local, nil
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
