// Package monitor runs one background poll loop per watched group,
// re-computing the group's snapshot on a fixed interval and broadcasting it
// to subscribers whenever the status code or percentage moves. Loops stop on
// terminal status, missing group, query failure, or cancellation.
package monitor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/models"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/store"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/websocket"
)

// StatusSource computes a group's current snapshot. *store.Store satisfies
// it; tests substitute fakes.
type StatusSource interface {
	GetGroupStatus(groupID string) (*models.GroupStatus, error)
}

// Publisher fans an event out to a group's subscribers. *websocket.Hub
// satisfies it.
type Publisher interface {
	Broadcast(groupID, event string, payload interface{})
}

type loopHandle struct {
	cancel context.CancelFunc
}

// Manager is the subscription registry: it owns every running loop and
// guarantees at most one per group. It is injected where needed rather than
// living in package-level state.
type Manager struct {
	source   StatusSource
	pub      Publisher
	interval time.Duration

	mu     sync.Mutex
	active map[string]*loopHandle
}

// New creates a Manager polling at the given interval.
func New(source StatusSource, pub Publisher, interval time.Duration) *Manager {
	return &Manager{
		source:   source,
		pub:      pub,
		interval: interval,
		active:   make(map[string]*loopHandle),
	}
}

// Ensure starts a monitor loop for the group unless one is already running.
// The registry membership check and insert happen under one lock, so
// concurrent calls for the same group start exactly one loop. Reports
// whether this call started it.
func (m *Manager) Ensure(groupID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.active[groupID]; running {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &loopHandle{cancel: cancel}
	m.active[groupID] = h
	go m.run(ctx, groupID, h)
	return true
}

// Stop cancels the group's loop, if any. The loop notices before its next
// sleep or broadcast, not only on the next poll cycle.
func (m *Manager) Stop(groupID string) {
	m.mu.Lock()
	h, ok := m.active[groupID]
	if ok {
		delete(m.active, groupID)
	}
	m.mu.Unlock()
	if ok {
		h.cancel()
	}
}

// StopAll cancels every running loop. Used during shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	handles := make([]*loopHandle, 0, len(m.active))
	for groupID, h := range m.active {
		handles = append(handles, h)
		delete(m.active, groupID)
	}
	m.mu.Unlock()
	for _, h := range handles {
		h.cancel()
	}
}

// IsActive reports whether a loop is running for the group.
func (m *Manager) IsActive(groupID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[groupID]
	return ok
}

// remove drops this loop's registry entry, leaving a successor loop's entry
// alone if one has already replaced it.
func (m *Manager) remove(groupID string, h *loopHandle) {
	m.mu.Lock()
	if m.active[groupID] == h {
		delete(m.active, groupID)
	}
	m.mu.Unlock()
	h.cancel()
}

func (m *Manager) run(ctx context.Context, groupID string, h *loopHandle) {
	log.Printf("Starting monitor for group %s", groupID)
	defer func() {
		m.remove(groupID, h)
		log.Printf("Stopped monitoring group %s", groupID)
	}()

	var last *models.GroupStatus
	for {
		status, err := m.source.GetGroupStatus(groupID)

		// An in-flight query runs to completion; its result is discarded
		// here if the loop was cancelled while it ran.
		if ctx.Err() != nil {
			return
		}

		if errors.Is(err, store.ErrGroupNotFound) {
			m.pub.Broadcast(groupID, websocket.EventError, map[string]string{
				"groupId": groupID,
				"message": "Group not found",
			})
			return
		}
		if err != nil {
			log.Printf("Monitor error for group %s: %v", groupID, err)
			m.pub.Broadcast(groupID, websocket.EventError, map[string]string{
				"groupId": groupID,
				"message": "Monitoring error",
				"error":   err.Error(),
			})
			return
		}

		changed := last == nil ||
			last.Status != status.Status ||
			last.Progress.Percentage != status.Progress.Percentage
		if changed {
			m.pub.Broadcast(groupID, websocket.EventStatusUpdate, status)
			log.Printf("Status update emitted for %s: %s - %d%%",
				groupID, status.StatusText, status.Progress.Percentage)
		}

		if models.IsTerminal(status.Status) {
			log.Printf("Group %s finished with status %s", groupID, status.Status)
			m.pub.Broadcast(groupID, websocket.EventProcessingComplete, status)
			return
		}

		last = status

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
		}
	}
}
