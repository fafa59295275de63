// Package db opens the relational store and keeps its schema current
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"kumarket/marketplace-api/internal/model"
	"kumarket/marketplace-api/pkg/util"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlite needs foreign keys switched on per connection, otherwise
// ON DELETE CASCADE on images is ignored
const sqlitePragmas = "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"

// New opens the database configured under db.* and migrates it
func New() (*gorm.DB, error) {
	driver := viper.GetString("db.driver")

	var dialector gorm.Dialector

	switch driver {
	case "postgres":
		dialector = postgres.Open(viper.GetString("db.dsn"))
	case "sqlite", "":
		path := viper.GetString("db.path")

		// The host should mount the database file using volumes
		if w := util.WarnIfEphemeral(path); w != "" {
			zap.L().Warn(w)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory, %w", err)
			}
		}

		dialector = sqlite.Open(path + sqlitePragmas)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Database ready", zap.String("driver", dialector.Name()))
	return db, nil
}

// OpenSQLite opens (and creates if needed) a sqlite database at path
func OpenSQLite(path string) (*gorm.DB, error) {
	return Open(sqlite.Open(path + sqlitePragmas))
}

// Open connects using an arbitrary dialector and runs AutoMigrate
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	level := logger.Silent
	if viper.GetString("app.log_level") == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", dialector.Name(), err)
	}

	err = db.AutoMigrate(model.User{}, model.Post{}, model.Image{}, model.Migration{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
