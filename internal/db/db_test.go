package db_test

import (
	"path/filepath"
	"testing"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/assets"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/db"
)

func TestInitDBAndMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sltk-test.db")

	database, err := db.InitDB(path)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	// The SLTK tables should exist after migration.
	for _, table := range []string{"sltk_groups", "sltk_transactions", "sltk_errors", "sltk_loads"} {
		var name string
		err := database.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %q to exist after migrations: %v", table, err)
		}
	}

	// Running migrations again should be a no-op, not an error.
	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		t.Errorf("Re-running migrations returned an error: %v", err)
	}
}
