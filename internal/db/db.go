// Package db opens the local store database and keeps its schema current.
package db

import (
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/diewo77/go-crm/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

var passwordRe = regexp.MustCompile(`(password=)(\S+)`)

// Connect opens the configured database, retrying while PostgreSQL starts.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(level)}

	if cfg.Driver == "sqlite" {
		log.Printf("[DB] Using sqlite file %s", cfg.SQLitePath)
		db, err := gorm.Open(sqlite.Open(cfg.DSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
		if err == nil {
			break
		}
		log.Printf("[DB] attempt %d/%d failed: %v", i+1, connectAttempts, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	log.Printf("[DB] Using DSN: %s", passwordRe.ReplaceAllString(cfg.DSN(), "${1}***"))
	return db, nil
}
