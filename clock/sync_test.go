package clock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miticaje.com/miticaje/clock/model"
	"miticaje.com/miticaje/clock/queue"
	"miticaje.com/miticaje/stats"
)

// fakeRemote is an in-memory RemoteStore with per-employee failure injection
// and an optional blocking gate for overlap tests.
type fakeRemote struct {
	mu      sync.Mutex
	nextID  int
	created []model.PunchEvent
	failAll bool
	failFor map[string]bool

	entered chan struct{}
	release chan struct{}
}

func (r *fakeRemote) CreatePunch(ctx context.Context, punch model.PunchEvent) (model.PunchEvent, error) {
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll || r.failFor[punch.EmployeeID] {
		return model.PunchEvent{}, errors.New("remote store unavailable")
	}
	r.nextID++
	punch.ID = fmt.Sprintf("rec_%d", r.nextID)
	r.created = append(r.created, punch)
	return punch, nil
}

func (r *fakeRemote) UpdatePunch(ctx context.Context, id string, update PunchUpdate) (model.PunchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.created {
		if p.ID != id {
			continue
		}
		if update.Action != nil {
			p.Action = *update.Action
		}
		if update.Timestamp != nil {
			p.Timestamp = *update.Timestamp
		}
		if update.WorkCenterID != nil {
			p.WorkCenterID = *update.WorkCenterID
		}
		r.created[i] = p
		return p, nil
	}
	return model.PunchEvent{}, errors.New("record not found")
}

func (r *fakeRemote) ListPunches(ctx context.Context, filter stats.Filter) ([]model.PunchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PunchEvent
	for _, p := range r.created {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRemote) createdPunches() []model.PunchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.PunchEvent, len(r.created))
	copy(out, r.created)
	return out
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	q, err := queue.Setup(filepath.Join(t.TempDir(), "queue.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func enqueuePunch(t *testing.T, q *queue.Queue, employeeID string) string {
	t.Helper()
	id, err := q.Enqueue(context.Background(), model.PunchEvent{
		EmployeeID: employeeID,
		Action:     model.ClockIn,
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)
	return id
}

func TestRunPassDrainsQueueInOrder(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)
	remote := &fakeRemote{}
	engine := NewSyncEngine(q, remote, NewManualMonitor(true), quietLogger())

	for _, emp := range []string{"emp1", "emp2", "emp3"} {
		enqueuePunch(t, q, emp)
	}

	result := engine.RunPass(ctx)
	assert.Equal(t, 3, result.SyncedCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.False(t, result.Skipped)

	count, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	created := remote.createdPunches()
	require.Len(t, created, 3)
	for i, emp := range []string{"emp1", "emp2", "emp3"} {
		assert.Equal(t, emp, created[i].EmployeeID)
	}
}

func TestRunPassContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)
	remote := &fakeRemote{failFor: map[string]bool{"emp1": true}}
	engine := NewSyncEngine(q, remote, NewManualMonitor(true), quietLogger())

	failingID := enqueuePunch(t, q, "emp1")
	enqueuePunch(t, q, "emp2")

	result := engine.RunPass(ctx)
	assert.Equal(t, 1, result.SyncedCount)
	assert.Equal(t, 1, result.ErrorCount)

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, failingID, pending[0].ID)
	assert.Equal(t, 1, pending[0].SyncAttempts)

	created := remote.createdPunches()
	require.Len(t, created, 1)
	assert.Equal(t, "emp2", created[0].EmployeeID)
}

func TestFailingPunchIsNeverEvicted(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)
	remote := &fakeRemote{failAll: true}
	engine := NewSyncEngine(q, remote, NewManualMonitor(true), quietLogger())

	enqueuePunch(t, q, "emp1")

	for i := 0; i < 3; i++ {
		result := engine.RunPass(ctx)
		assert.Equal(t, 1, result.ErrorCount)
	}

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 3, pending[0].SyncAttempts)

	status, err := engine.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.PendingCount)
	assert.Equal(t, "1 records failed to sync", status.LastError)

	// Once the remote recovers, the punch finally drains.
	remote.mu.Lock()
	remote.failAll = false
	remote.mu.Unlock()

	result := engine.RunPass(ctx)
	assert.Equal(t, 1, result.SyncedCount)

	status, err = engine.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.PendingCount)
	assert.Empty(t, status.LastError)
}

func TestRunPassSkipsWhenAlreadySyncing(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)
	remote := &fakeRemote{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	engine := NewSyncEngine(q, remote, NewManualMonitor(true), quietLogger())

	enqueuePunch(t, q, "emp1")

	done := make(chan PassResult, 1)
	go func() {
		done <- engine.RunPass(ctx)
	}()

	<-remote.entered

	overlapping := engine.RunPass(ctx)
	assert.True(t, overlapping.Skipped)
	assert.Equal(t, 0, overlapping.SyncedCount)

	close(remote.release)
	first := <-done
	assert.Equal(t, 1, first.SyncedCount)
	assert.False(t, first.Skipped)
}

func TestStartSyncsAfterReconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := newTestQueue(t)
	remote := &fakeRemote{}
	monitor := NewManualMonitor(false)
	engine := NewSyncEngine(q, remote, monitor, quietLogger())
	engine.Start(ctx)

	enqueuePunch(t, q, "emp1")
	enqueuePunch(t, q, "emp2")

	monitor.SetOnline(true)

	assert.Eventually(t, func() bool {
		count, err := q.Count(ctx)
		return err == nil && count == 0
	}, 5*time.Second, 50*time.Millisecond)

	assert.Len(t, remote.createdPunches(), 2)
}

func TestConnectivityFlapStillDrainsQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := newTestQueue(t)
	remote := &fakeRemote{}
	monitor := NewManualMonitor(false)
	engine := NewSyncEngine(q, remote, monitor, quietLogger())
	engine.Start(ctx)

	enqueuePunch(t, q, "emp1")

	// Rapid edges restart the debounce; the last one still fires a pass.
	for i := 0; i < 3; i++ {
		monitor.SetOnline(true)
		monitor.SetOnline(false)
	}
	monitor.SetOnline(true)

	assert.Eventually(t, func() bool {
		count, err := q.Count(ctx)
		return err == nil && count == 0
	}, 5*time.Second, 50*time.Millisecond)

	assert.Len(t, remote.createdPunches(), 1)
}

func TestGoingOfflineDoesNotTriggerSync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := newTestQueue(t)
	remote := &fakeRemote{}
	monitor := NewManualMonitor(true)
	engine := NewSyncEngine(q, remote, monitor, quietLogger())
	engine.Start(ctx)

	enqueuePunch(t, q, "emp1")
	monitor.SetOnline(false)

	time.Sleep(1500 * time.Millisecond)

	count, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, remote.createdPunches())
}

func TestStatusReflectsMonitorAndQueue(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)
	monitor := NewManualMonitor(false)
	engine := NewSyncEngine(q, &fakeRemote{}, monitor, quietLogger())

	enqueuePunch(t, q, "emp1")

	status, err := engine.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Online)
	assert.False(t, status.Syncing)
	assert.Equal(t, 1, status.PendingCount)
	assert.Nil(t, status.LastSyncTime)

	monitor.SetOnline(true)
	engine.RunPass(ctx)

	status, err = engine.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Online)
	assert.Equal(t, 0, status.PendingCount)
	assert.NotNil(t, status.LastSyncTime)
}
