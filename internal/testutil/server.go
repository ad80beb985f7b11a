// A shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"testing"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/api"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/config"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/core"
)

// TestConfig returns a config wired for tests: fast polling and a dropbox
// tree under a temp dir.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Port:         0,
		PollInterval: 1,
		HealthProbe:  0,
	}
	cfg.Database.Path = ":memory:"
	cfg.Dropbox.Root = t.TempDir()
	cfg.Dropbox.Fallback = t.TempDir()
	cfg.History.DefaultLimit = 50
	return cfg
}

// SetupTestApp initializes a core.App backed by an in-memory database with
// all migrations applied.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	app := core.Build(TestConfig(t))
	app.AttachDB(SetupTestDB(t))
	t.Cleanup(func() {
		app.Monitor().StopAll()
	})
	return app
}

// SetupTestServer initializes a full core.App and api.Server for
// integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB) {
	t.Helper()
	app := SetupTestApp(t)
	return api.NewServer(app), app.DB()
}

// SetupDegradedServer builds a server whose app never got a database, for
// exercising the 503 paths.
func SetupDegradedServer(t *testing.T) *api.Server {
	t.Helper()
	app := core.Build(TestConfig(t))
	t.Cleanup(func() {
		app.Monitor().StopAll()
	})
	return api.NewServer(app)
}
