// Package testutils provides databases and fixtures for tests
package testutils

import (
	"path/filepath"
	"testing"

	"kumarket/marketplace-api/db"

	"gorm.io/gorm"
)

// SetupTestDB opens a fresh migrated sqlite database that lives in the
// test's temp directory and is closed when the test ends
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		sqlDB.Close()
	})

	return conn
}
