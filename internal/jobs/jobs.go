package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// HealthTarget is what the store health job needs from the application.
// core.App satisfies it.
type HealthTarget interface {
	CheckStore() bool
	StoreAvailable() bool
}

// StartJobs starts the background job scheduler and returns it so the
// caller can stop it on shutdown.
func StartJobs(app HealthTarget, healthInterval int) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startStoreHealthJob(s, app, healthInterval)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
	return s
}

// startStoreHealthJob schedules the periodic store probe that keeps the
// availability capability current. A store that drops out or comes back is
// noticed within one interval; there is no per-query retry anywhere else.
func startStoreHealthJob(s *gocron.Scheduler, app HealthTarget, interval int) {
	if interval == 0 {
		log.Println("Store health interval is 0, periodic probing is disabled.")
		return
	}

	log.Printf("Scheduling store health probe every %d seconds.", interval)

	_, err := s.Every(interval).Seconds().Do(func() {
		wasUp := app.StoreAvailable()
		isUp := app.CheckStore()
		if wasUp != isUp {
			if isUp {
				log.Println("Data store is available again.")
			} else {
				log.Println("Data store went unavailable; endpoints will degrade to 503.")
			}
		}
	})
	if err != nil {
		log.Printf("Error scheduling store health probe: %v", err)
	}
}
