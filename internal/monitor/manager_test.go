package monitor

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/models"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/store"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/websocket"
)

// fakeSource serves canned snapshots, one per call, repeating the last.
type fakeSource struct {
	mu        sync.Mutex
	snapshots []*models.GroupStatus
	err       error
	calls     int
}

func (f *fakeSource) GetGroupStatus(groupID string) (*models.GroupStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	i := f.calls - 1
	if i >= len(f.snapshots) {
		i = len(f.snapshots) - 1
	}
	return f.snapshots[i], nil
}

type broadcastRec struct {
	event   string
	payload interface{}
}

// fakePub records every broadcast in order.
type fakePub struct {
	mu     sync.Mutex
	events []broadcastRec
	seen   chan string
}

func newFakePub() *fakePub {
	return &fakePub{seen: make(chan string, 32)}
}

func (f *fakePub) Broadcast(groupID, event string, payload interface{}) {
	f.mu.Lock()
	f.events = append(f.events, broadcastRec{event: event, payload: payload})
	f.mu.Unlock()
	f.seen <- event
}

func (f *fakePub) recorded() []broadcastRec {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]broadcastRec, len(f.events))
	copy(out, f.events)
	return out
}

func snapshot(status string, pct int) *models.GroupStatus {
	return &models.GroupStatus{
		Group:    models.Group{GroupID: "LOAD1", Status: status, StatusText: models.StatusLabel(status)},
		Progress: models.Progress{Total: 10, Completed: pct / 10, Percentage: pct},
	}
}

func awaitEvent(t *testing.T, pub *fakePub, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-pub.seen:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("Did not observe %s event in time; got %v", want, pub.recorded())
		}
	}
}

func awaitInactive(t *testing.T, m *Manager, groupID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !m.IsActive(groupID) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Loop for %s still active", groupID)
}

func TestEnsureStartsExactlyOneLoop(t *testing.T) {
	src := &fakeSource{snapshots: []*models.GroupStatus{snapshot("O", 10)}}
	pub := newFakePub()
	m := New(src, pub, 50*time.Millisecond)
	defer m.StopAll()

	var started atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Ensure("LOAD1") {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	if started.Load() != 1 {
		t.Errorf("Expected exactly 1 loop start under concurrent Ensure, got %d", started.Load())
	}
	if !m.IsActive("LOAD1") {
		t.Error("Expected LOAD1 loop to be active")
	}
}

func TestLoopEmitsOnlyOnChange(t *testing.T) {
	// Same snapshot every cycle: exactly one status-update (the first).
	src := &fakeSource{snapshots: []*models.GroupStatus{snapshot("O", 40)}}
	pub := newFakePub()
	m := New(src, pub, 10*time.Millisecond)
	defer m.StopAll()

	m.Ensure("LOAD1")
	awaitEvent(t, pub, websocket.EventStatusUpdate)

	// Let several no-change cycles pass.
	time.Sleep(80 * time.Millisecond)
	m.Stop("LOAD1")
	awaitInactive(t, m, "LOAD1")

	var updates int
	for _, rec := range pub.recorded() {
		if rec.event == websocket.EventStatusUpdate {
			updates++
		}
	}
	if updates != 1 {
		t.Errorf("Expected 1 status-update for unchanged snapshots, got %d", updates)
	}
}

func TestLoopBroadcastsEachChange(t *testing.T) {
	src := &fakeSource{snapshots: []*models.GroupStatus{
		snapshot("O", 20),
		snapshot("O", 20), // no change, no emit
		snapshot("O", 60),
		snapshot("X", 100), // terminal
	}}
	pub := newFakePub()
	m := New(src, pub, 5*time.Millisecond)
	defer m.StopAll()

	m.Ensure("LOAD1")
	awaitEvent(t, pub, websocket.EventProcessingComplete)
	awaitInactive(t, m, "LOAD1")

	var events []string
	for _, rec := range pub.recorded() {
		events = append(events, rec.event)
	}
	want := []string{
		websocket.EventStatusUpdate, // 20%
		websocket.EventStatusUpdate, // 60%
		websocket.EventStatusUpdate, // terminal snapshot, 100%
		websocket.EventProcessingComplete,
	}
	if len(events) != len(want) {
		t.Fatalf("Events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("Event %d = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestLoopTerminatesOnTerminalStatus(t *testing.T) {
	for _, code := range []string{"X", "E", "C"} {
		src := &fakeSource{snapshots: []*models.GroupStatus{snapshot(code, 100)}}
		pub := newFakePub()
		m := New(src, pub, 5*time.Millisecond)

		m.Ensure("LOAD1")
		awaitEvent(t, pub, websocket.EventProcessingComplete)
		awaitInactive(t, m, "LOAD1")

		events := pub.recorded()
		final := events[len(events)-1]
		if final.event != websocket.EventProcessingComplete {
			t.Errorf("Status %s: final event = %s, want processing-complete", code, final.event)
		}
		if fs, ok := final.payload.(*models.GroupStatus); !ok || fs.Status != code {
			t.Errorf("Status %s: final payload = %+v", code, final.payload)
		}
	}
}

func TestLoopReportsMissingGroup(t *testing.T) {
	src := &fakeSource{err: store.ErrGroupNotFound}
	pub := newFakePub()
	m := New(src, pub, 5*time.Millisecond)

	m.Ensure("GONE")
	awaitEvent(t, pub, websocket.EventError)
	awaitInactive(t, m, "GONE")

	rec := pub.recorded()[0]
	payload := rec.payload.(map[string]string)
	if payload["message"] != "Group not found" {
		t.Errorf("Wrong error payload: %v", payload)
	}
}

func TestLoopReportsQueryFailureAndStops(t *testing.T) {
	src := &fakeSource{err: errors.New("driver: bad connection")}
	pub := newFakePub()
	m := New(src, pub, 5*time.Millisecond)

	m.Ensure("LOAD1")
	awaitEvent(t, pub, websocket.EventError)
	awaitInactive(t, m, "LOAD1")

	payload := pub.recorded()[0].payload.(map[string]string)
	if payload["message"] != "Monitoring error" || payload["error"] == "" {
		t.Errorf("Wrong error payload: %v", payload)
	}
	// No restart: call count stays put after the failure.
	src.mu.Lock()
	calls := src.calls
	src.mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	src.mu.Lock()
	if src.calls != calls {
		t.Errorf("Loop kept polling after failure: %d -> %d", calls, src.calls)
	}
	src.mu.Unlock()
}

func TestStopCancelsLoop(t *testing.T) {
	src := &fakeSource{snapshots: []*models.GroupStatus{snapshot("O", 10)}}
	pub := newFakePub()
	m := New(src, pub, time.Hour) // long sleep; Stop must not wait it out

	m.Ensure("LOAD1")
	awaitEvent(t, pub, websocket.EventStatusUpdate)

	m.Stop("LOAD1")
	awaitInactive(t, m, "LOAD1")

	// A fresh Ensure can start a new loop afterwards.
	if !m.Ensure("LOAD1") {
		t.Error("Ensure after Stop should start a new loop")
	}
	m.StopAll()
}
