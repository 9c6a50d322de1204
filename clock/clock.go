package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"miticaje.com/miticaje/clock/model"
	"miticaje.com/miticaje/clock/queue"
	"miticaje.com/miticaje/geo"
	"miticaje.com/miticaje/stats"
)

// SubmitStatus is the terminal state of a clock action from the user's
// perspective. A failure to even queue comes back as an error instead.
type SubmitStatus string

const (
	Recorded SubmitStatus = "recorded"
	Queued   SubmitStatus = "queued"
)

type SubmitResult struct {
	Status  SubmitStatus `json:"status"`
	ID      string       `json:"id"`
	Message string       `json:"message"`
}

// Clock is the facade the UI layer talks to: it captures best-effort
// location, writes punches remotely when it can, queues them when it can't,
// and answers statistics queries from the remote history.
type Clock struct {
	queue       *queue.Queue
	remote      RemoteStore
	engine      *SyncEngine
	monitor     ConnectivityMonitor
	capturer    *geo.Capturer
	deviceClass geo.DeviceClass
	logger      *logrus.Logger
	names       func(ctx context.Context) map[string]string
}

type Config struct {
	Queue       *queue.Queue
	Remote      RemoteStore
	Monitor     ConnectivityMonitor
	Capturer    *geo.Capturer
	DeviceClass geo.DeviceClass
	Logger      *logrus.Logger
	// EmployeeNames resolves employee ids to display names for per-employee
	// stats. Optional; ids are used as names when absent.
	EmployeeNames func(ctx context.Context) map[string]string
}

func New(cfg Config) *Clock {
	c := &Clock{
		queue:       cfg.Queue,
		remote:      cfg.Remote,
		monitor:     cfg.Monitor,
		capturer:    cfg.Capturer,
		deviceClass: cfg.DeviceClass,
		logger:      cfg.Logger,
		names:       cfg.EmployeeNames,
	}
	c.engine = NewSyncEngine(cfg.Queue, cfg.Remote, cfg.Monitor, cfg.Logger)
	return c
}

// Start launches the automatic sync triggers.
func (c *Clock) Start(ctx context.Context) {
	c.engine.Start(ctx)
}

// Engine exposes the sync engine, mainly for status wiring.
func (c *Clock) Engine() *SyncEngine {
	return c.engine
}

// SubmitPunch registers a clock action. Location capture is best-effort and
// never blocks the punch; a capture failure is recorded as the punch's
// locationError instead. If the remote write cannot be confirmed the punch is
// queued locally. An error return means the action failed entirely (queue
// I/O failure) and the user must retry.
func (c *Clock) SubmitPunch(ctx context.Context, employeeID string, action model.ActionType, workCenterID string) (SubmitResult, error) {
	if !action.Valid() {
		return SubmitResult{}, fmt.Errorf("invalid action type %q", action)
	}

	punch := model.PunchEvent{
		EmployeeID:   employeeID,
		Action:       action,
		Timestamp:    time.Now(),
		WorkCenterID: workCenterID,
	}

	if c.capturer != nil {
		loc, capErr := c.capturer.Capture(ctx, c.deviceClass)
		if capErr != nil {
			punch.LocationError = capErr.Message
		} else {
			punch.Location = loc
		}
	}

	if c.monitor.Online() {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		created, err := c.remote.CreatePunch(writeCtx, punch)
		cancel()
		if err == nil {
			return SubmitResult{
				Status:  Recorded,
				ID:      created.ID,
				Message: "Punch recorded",
			}, nil
		}
		c.logger.WithFields(logrus.Fields{
			"employeeId": employeeID,
			"action":     string(action),
			"err":        err.Error(),
		}).Warn("remote write failed, queueing punch")
	}

	id, err := c.queue.Enqueue(ctx, punch)
	if err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{
		Status:  Queued,
		ID:      id,
		Message: "Punch queued, will sync when online",
	}, nil
}

// SyncStatus reports the current sync state.
func (c *Clock) SyncStatus(ctx context.Context) (Status, error) {
	return c.engine.Status(ctx)
}

// TriggerSync runs a manual sync pass. It shares the single-pass guarantee
// with the automatic triggers.
func (c *Clock) TriggerSync(ctx context.Context) PassResult {
	return c.engine.RunPass(ctx)
}

// ComputeStats rescans the remote punch history within the filter window.
func (c *Clock) ComputeStats(ctx context.Context, filter stats.Filter) (stats.Overall, error) {
	records, err := c.remote.ListPunches(ctx, filter)
	if err != nil {
		return stats.Overall{}, err
	}
	return stats.ComputeOverall(records, filter), nil
}

// ComputeEmployeeStats rescans the remote punch history and reduces it per
// employee.
func (c *Clock) ComputeEmployeeStats(ctx context.Context, filter stats.Filter) ([]stats.EmployeeStats, error) {
	records, err := c.remote.ListPunches(ctx, filter)
	if err != nil {
		return nil, err
	}

	var names map[string]string
	if c.names != nil {
		names = c.names(ctx)
	}
	return stats.ComputePerEmployee(records, filter, names), nil
}
