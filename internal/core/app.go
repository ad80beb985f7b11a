package core

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/assets"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/config"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/db"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/models"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/monitor"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/store"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/websocket"
)

// App holds the core components of the application that are shared between
// the HTTP server, the websocket hub and the monitor loops.
//
// The data store may be absent: the service stays up in degraded mode when
// the database cannot be reached, and the health job re-probes it. Store
// availability is the one piece of mutable shared state, guarded here.
type App struct {
	cfg     *config.Config
	hub     *websocket.Hub
	monitor *monitor.Manager

	mu      sync.RWMutex
	db      *sql.DB
	store   *store.Store
	storeUp bool
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, and running
// migrations. A missing database is a warning, not a fatal error.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	a := Build(cfg)

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		log.Printf("Warning: data store unavailable at startup: %v", err)
		return a, nil
	}
	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		// We can't proceed with a half-provisioned schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	a.AttachDB(database)

	log.Println("Core application setup complete.")
	return a, nil
}

// Build wires an App around an existing configuration without touching the
// database. Tests attach their own database afterwards.
func Build(cfg *config.Config) *App {
	a := &App{cfg: cfg, hub: websocket.NewHub()}
	a.monitor = monitor.New(a, a.hub, time.Duration(cfg.PollInterval)*time.Second)

	// First subscriber interest: push the current snapshot to that client,
	// then make sure a monitor loop is running for the group.
	a.hub.OnMonitor = func(c *websocket.Client, groupID string) {
		status, err := a.GetGroupStatus(groupID)
		if errors.Is(err, store.ErrGroupNotFound) {
			c.SendEvent(websocket.EventError, map[string]string{
				"message": fmt.Sprintf("Group %s not found", groupID),
			})
			return
		}
		if err != nil {
			c.SendEvent(websocket.EventError, map[string]string{
				"message": fmt.Sprintf("Error getting status: %v", err),
			})
			return
		}
		c.SendEvent(websocket.EventStatusUpdate, status)
		a.monitor.Ensure(groupID)
	}
	// Last subscriber gone: stop polling for the group.
	a.hub.OnRoomEmpty = a.monitor.Stop

	go a.hub.Run()
	return a
}

// AttachDB hands the App a live database connection and marks the store
// available.
func (a *App) AttachDB(database *sql.DB) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.db = database
	a.store = store.New(database)
	a.storeUp = true
}

// Config returns the application configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Hub returns the websocket hub.
func (a *App) Hub() *websocket.Hub { return a.hub }

// Monitor returns the monitor loop registry.
func (a *App) Monitor() *monitor.Manager { return a.monitor }

// DB returns the database handle, which may be nil in degraded mode.
func (a *App) DB() *sql.DB {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.db
}

// Store returns the data access layer, or nil while the store is down.
func (a *App) Store() *store.Store {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.store
}

// StoreAvailable reports the capability flag maintained by the health job.
func (a *App) StoreAvailable() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.storeUp && a.store != nil
}

// CheckStore probes the store and updates the capability flag. When the
// database was never reachable it retries the connection, so a store that
// comes up later is picked up without a restart.
func (a *App) CheckStore() bool {
	a.mu.RLock()
	database := a.db
	a.mu.RUnlock()

	if database == nil {
		fresh, err := db.InitDB(a.cfg.Database.Path)
		if err != nil {
			a.setStoreUp(false)
			return false
		}
		if err := db.RunMigrations(fresh, assets.MigrationsFS); err != nil {
			fresh.Close()
			a.setStoreUp(false)
			return false
		}
		log.Println("Data store connection established.")
		a.AttachDB(fresh)
		return true
	}

	if err := database.Ping(); err != nil {
		log.Printf("Data store ping failed: %v", err)
		a.setStoreUp(false)
		return false
	}
	a.setStoreUp(true)
	return true
}

func (a *App) setStoreUp(up bool) {
	a.mu.Lock()
	a.storeUp = up
	a.mu.Unlock()
}

// GetGroupStatus implements monitor.StatusSource against the current store,
// reporting unavailability instead of panicking on a nil handle.
func (a *App) GetGroupStatus(groupID string) (*models.GroupStatus, error) {
	st := a.Store()
	if st == nil || !a.StoreAvailable() {
		return nil, store.ErrUnavailable
	}
	return st.GetGroupStatus(groupID)
}

// Close gracefully closes the application's resources, like the DB
// connection and the running monitor loops.
func (a *App) Close() {
	a.monitor.StopAll()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db != nil {
		a.db.Close()
	}
}
