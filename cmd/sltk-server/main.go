package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/api"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/core"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/dropbox"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/jobs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	// Start the background scheduler (store health probe)
	scheduler := jobs.StartJobs(app, app.Config().HealthProbe)
	defer scheduler.Stop()

	// Watch the dropbox tree for workbook arrivals. The loader does the
	// actual pickup; the watcher only logs.
	if err := dropbox.ValidateRoot(app.Config().Dropbox.Root); err != nil {
		log.Printf("Warning: dropbox root check failed: %v", err)
	}
	watcher := dropbox.NewWatcher(app.Config().Dropbox.Root)
	if err := watcher.Start(); err != nil {
		log.Printf("Warning: dropbox watcher could not start: %v", err)
	} else {
		defer watcher.Stop()
	}

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("Starting web server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until we receive a termination signal, then drain in-flight
	// requests before the deferred cleanup runs.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}
