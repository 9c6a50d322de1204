package clock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"miticaje.com/miticaje/clock/queue"
)

const (
	// reconnectDebounce delays the sync pass fired on an offline->online edge
	// so flaky connectivity blips don't race each other.
	reconnectDebounce = 1 * time.Second

	// periodicInterval is the fixed retry cadence while online with pending
	// punches. No backoff curve is applied.
	periodicInterval = 30 * time.Second

	// writeTimeout bounds each individual remote write within a pass.
	writeTimeout = 15 * time.Second
)

// PassResult summarizes one drain of the queue against the remote store.
type PassResult struct {
	SyncedCount int
	ErrorCount  int
	// Skipped is set when another pass was already in flight.
	Skipped bool
}

// SyncEngine drains the local durable queue into the remote store whenever
// connectivity allows. Delivery is at-least-once: a punch is only removed
// from the queue after the remote store confirms it, so a lost success
// response leads to a duplicate remote row rather than a lost punch.
type SyncEngine struct {
	queue   *queue.Queue
	remote  RemoteStore
	monitor ConnectivityMonitor
	logger  *logrus.Logger

	mu           sync.Mutex
	syncing      bool
	lastSyncTime time.Time
	lastError    string
	debounce     *time.Timer
}

func NewSyncEngine(q *queue.Queue, remote RemoteStore, monitor ConnectivityMonitor, logger *logrus.Logger) *SyncEngine {
	return &SyncEngine{
		queue:   q,
		remote:  remote,
		monitor: monitor,
		logger:  logger,
	}
}

// Start wires the automatic triggers: a debounced pass on reconnect and a
// periodic pass while online with pending work. It returns immediately; the
// timer loop stops when ctx is cancelled.
func (e *SyncEngine) Start(ctx context.Context) {
	e.monitor.Subscribe(func(online bool) {
		if !online {
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		// A rapid flap restarts the countdown instead of stacking timers.
		if e.debounce != nil {
			e.debounce.Stop()
		}
		e.debounce = time.AfterFunc(reconnectDebounce, func() {
			e.RunPass(ctx)
		})
	})

	go func() {
		ticker := time.NewTicker(periodicInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				e.mu.Lock()
				if e.debounce != nil {
					e.debounce.Stop()
				}
				e.mu.Unlock()
				return
			case <-ticker.C:
				if !e.monitor.Online() {
					continue
				}
				count, err := e.queue.Count(ctx)
				if err != nil {
					e.logger.WithField("err", err.Error()).Error("failed to count pending punches")
					continue
				}
				if count > 0 {
					e.RunPass(ctx)
				}
			}
		}
	}()
}

// RunPass drains a snapshot of the queue sequentially. Only one pass may be
// in flight; re-entrant calls are no-ops. A failing punch does not stop the
// pass: its attempt counter is bumped and the pass moves on.
func (e *SyncEngine) RunPass(ctx context.Context) PassResult {
	e.mu.Lock()
	if e.syncing {
		e.mu.Unlock()
		return PassResult{Skipped: true}
	}
	e.syncing = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.syncing = false
		e.mu.Unlock()
	}()

	pending, err := e.queue.ListPending(ctx)
	if err != nil {
		e.logger.WithField("err", err.Error()).Error("failed to list pending punches")
		e.finishPass(PassResult{ErrorCount: 1})
		return PassResult{ErrorCount: 1}
	}

	e.logger.WithField("pending", len(pending)).Info("starting sync pass")

	var result PassResult
	for _, punch := range pending {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		_, err := e.remote.CreatePunch(writeCtx, punch.PunchEvent)
		cancel()

		if err != nil {
			result.ErrorCount++
			e.logger.WithFields(logrus.Fields{
				"id":  punch.ID,
				"err": err.Error(),
			}).Error("failed to sync punch")
			if ferr := e.queue.RecordAttemptFailure(ctx, punch.ID); ferr != nil {
				e.logger.WithFields(logrus.Fields{
					"id":  punch.ID,
					"err": ferr.Error(),
				}).Error("failed to record sync attempt")
			}
			continue
		}

		if err := e.queue.RemoveOnSuccess(ctx, punch.ID); err != nil {
			// The remote accepted the punch but the local delete failed; the
			// next pass will resubmit and the remote grows a duplicate row.
			result.ErrorCount++
			e.logger.WithFields(logrus.Fields{
				"id":  punch.ID,
				"err": err.Error(),
			}).Error("failed to remove synced punch from queue")
			continue
		}
		result.SyncedCount++
	}

	e.logger.WithFields(logrus.Fields{
		"synced": result.SyncedCount,
		"errors": result.ErrorCount,
	}).Info("sync pass complete")

	e.finishPass(result)
	return result
}

func (e *SyncEngine) finishPass(result PassResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSyncTime = time.Now()
	if result.ErrorCount > 0 {
		e.lastError = fmt.Sprintf("%d records failed to sync", result.ErrorCount)
	} else {
		e.lastError = ""
	}
}

// Status reports the engine's aggregate sync state for UI badges.
func (e *SyncEngine) Status(ctx context.Context) (Status, error) {
	count, err := e.queue.Count(ctx)
	if err != nil {
		return Status{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s := Status{
		Online:       e.monitor.Online(),
		Syncing:      e.syncing,
		PendingCount: count,
		LastError:    e.lastError,
	}
	if !e.lastSyncTime.IsZero() {
		t := e.lastSyncTime
		s.LastSyncTime = &t
	}
	return s, nil
}

// Status is the user-visible sync state.
type Status struct {
	Online       bool       `json:"online"`
	Syncing      bool       `json:"syncing"`
	PendingCount int        `json:"pendingCount"`
	LastSyncTime *time.Time `json:"lastSyncTime,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
}
