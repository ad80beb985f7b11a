package jobs_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/jobs"
	"github.com/stretchr/testify/assert"
)

type fakeTarget struct {
	up     atomic.Bool
	checks atomic.Int32
}

func (f *fakeTarget) CheckStore() bool {
	f.checks.Add(1)
	return f.up.Load()
}

func (f *fakeTarget) StoreAvailable() bool { return f.up.Load() }

func TestStoreHealthJobRuns(t *testing.T) {
	target := &fakeTarget{}
	target.up.Store(true)

	s := jobs.StartJobs(target, 1)
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return target.checks.Load() > 0
	}, 3*time.Second, 20*time.Millisecond, "store health probe never ran")
}

func TestZeroIntervalDisablesProbe(t *testing.T) {
	target := &fakeTarget{}

	s := jobs.StartJobs(target, 0)
	defer s.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, target.checks.Load(), "probe should not run with interval 0")
}
