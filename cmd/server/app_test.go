package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/internal/notify"
	"github.com/diewo77/go-crm/internal/services"
	"github.com/diewo77/go-crm/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T, expose bool) (*App, *auth.Manager) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(store.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := store.New(db)
	tokens := auth.NewManager("test-secret")
	opts := AppOptions{}
	if expose {
		opts = AppOptions{Backend: st, PublicKey: "pk"}
	}
	return NewApp(services.New(st, notify.Discard), tokens, opts), tokens
}

func serve(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthIsPublic(t *testing.T) {
	app, _ := setupApp(t, false)
	if rr := serve(app, http.MethodGet, "/healthz", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	app, tokens := setupApp(t, false)
	if rr := serve(app, http.MethodGet, "/api/clients", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	if rr := serve(app, http.MethodGet, "/api/clients", "", "garbage"); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token got %d", rr.Code)
	}
	tok, err := tokens.GenerateToken(1, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	rr := serve(app, http.MethodPost, "/api/clients", `{"Name":"Acme"}`, tok)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"ownerId":1`) {
		t.Fatalf("expected owner stamped from token: %s", rr.Body.String())
	}
	if rr := serve(app, http.MethodGet, "/api/dashboard", "", tok); rr.Code != http.StatusOK {
		t.Fatalf("dashboard: %d", rr.Code)
	}
}

func TestBackendExposure(t *testing.T) {
	app, _ := setupApp(t, false)
	if rr := serve(app, http.MethodPost, "/backend/v1/tables/client/records/query", `{}`, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("backend must not be mounted by default, got %d", rr.Code)
	}

	app, _ = setupApp(t, true)
	req := httptest.NewRequest(http.MethodPost, "/backend/v1/tables/client/records/query", strings.NewReader(`{"fields":[{"field":{"Name":"Name"}}]}`))
	req.Header.Set("X-Public-Key", "pk")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"success":true`) {
		t.Fatalf("unexpected backend reply %d %s", rr.Code, rr.Body.String())
	}
}
