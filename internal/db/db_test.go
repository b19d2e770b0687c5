package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/notify"
	"github.com/diewo77/go-crm/internal/services"
	"github.com/diewo77/go-crm/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConnectAndMigrateSQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "crm.db")}
	d, err := Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := Migrate(d, cfg, true); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range coreTables {
		if !d.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestSeedIdempotent(t *testing.T) {
	d, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(d, config.DatabaseConfig{Driver: "sqlite"}, false); err != nil {
		t.Fatal(err)
	}
	svc := services.New(store.New(d), notify.Discard)
	today := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	if err := Seed(ctx, svc, today); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Seed(ctx, svc, today); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	clients, _ := svc.Clients.List(ctx)
	tasks, _ := svc.Tasks.List(ctx)
	invoices, _ := svc.Invoices.List(ctx)
	if len(clients) != 2 || len(tasks) != 3 || len(invoices) != 2 {
		t.Fatalf("unexpected counts clients=%d tasks=%d invoices=%d", len(clients), len(tasks), len(invoices))
	}
}
