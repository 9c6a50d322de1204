package queue

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"miticaje.com/miticaje/clock/model"
)

// LocalIDPrefix namespaces queue-assigned ids so they can never collide with
// remote-assigned ones.
const LocalIDPrefix = "offline_"

// warnAttempts is the attempt count at which a still-failing punch gets a
// warning log. Records are never evicted regardless of attempt count.
const warnAttempts = 3

// createdAtFormat keeps a fixed width so the textual `order by created_at`
// matches chronological order. RFC3339Nano trims trailing zeros and breaks
// that property.
const createdAtFormat = "2006-01-02T15:04:05.000000000Z"

// Queue is a durable store of punches that have not yet been confirmed
// written to the remote store. Records survive process restarts; the only
// deletion path is RemoveOnSuccess.
type Queue struct {
	db     *sql.DB
	logger *logrus.Logger
}

// Setup opens (or creates) the queue database at dbPath.
func Setup(dbPath string, logger *logrus.Logger) (*Queue, error) {
	// https://github.com/mattn/go-sqlite3#connection-string
	opts := []string{
		"_journal_mode=WAL",
		"_synchronous=NORMAL",
		"_busy_timeout=5000",
	}

	db, err := sql.Open("sqlite3", dbPath+"?"+strings.Join(opts, "&"))
	if err != nil {
		return nil, fmt.Errorf("failed to open queue db: %w", err)
	}

	_, err = db.Exec(`
		create table if not exists queued_punches (
			id text primary key,
			employee_id text not null,
			action_type text not null,
			timestamp text not null,
			latitude real,
			longitude real,
			accuracy real,
			address text,
			location_captured_at text,
			location_error text,
			work_center_id text,
			sync_attempts integer not null default 0,
			last_attempt_at text,
			created_at text not null default (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init queue schema: %w", err)
	}

	return &Queue{db: db, logger: logger}, nil
}

func (q *Queue) Close() error {
	return q.db.Close()
}

// Enqueue persists a punch that could not be confirmed remotely and returns
// its locally assigned id. Any error means the punch was NOT recorded.
func (q *Queue) Enqueue(ctx context.Context, punch model.PunchEvent) (string, error) {
	id := LocalIDPrefix + uuid.NewString()

	var lat, lon, acc *float64
	var addr, capturedAt *string
	if punch.Location != nil {
		lat = &punch.Location.Latitude
		lon = &punch.Location.Longitude
		acc = &punch.Location.Accuracy
		if punch.Location.Address != "" {
			addr = &punch.Location.Address
		}
		s := punch.Location.CapturedAt.UTC().Format(time.RFC3339)
		capturedAt = &s
	}

	var locErr, workCenter *string
	if punch.LocationError != "" {
		locErr = &punch.LocationError
	}
	if punch.WorkCenterID != "" {
		workCenter = &punch.WorkCenterID
	}

	_, err := q.db.ExecContext(ctx, `
		insert into queued_punches
			(id, employee_id, action_type, timestamp,
			 latitude, longitude, accuracy, address, location_captured_at,
			 location_error, work_center_id, sync_attempts, created_at)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		id, punch.EmployeeID, string(punch.Action),
		punch.Timestamp.UTC().Format(time.RFC3339Nano),
		lat, lon, acc, addr, capturedAt,
		locErr, workCenter,
		time.Now().UTC().Format(createdAtFormat),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue punch: %w", err)
	}

	return id, nil
}

// ListPending returns every queued punch in insertion order.
func (q *Queue) ListPending(ctx context.Context) ([]model.QueuedPunch, error) {
	rows, err := q.db.QueryContext(ctx, `
		select id, employee_id, action_type, timestamp,
		       latitude, longitude, accuracy, address, location_captured_at,
		       location_error, work_center_id, sync_attempts, last_attempt_at, created_at
		from queued_punches
		order by created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending punches: %w", err)
	}
	defer rows.Close()

	var pending []model.QueuedPunch
	for rows.Next() {
		p, err := scanQueued(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// RecordAttemptFailure bumps the attempt counter for a punch whose remote
// write failed. The record stays queued; there is no eviction.
func (q *Queue) RecordAttemptFailure(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := q.db.ExecContext(ctx, `
		update queued_punches
		set sync_attempts = sync_attempts + 1, last_attempt_at = ?
		where id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("failed to record sync attempt for %s: %w", id, err)
	}

	var attempts int
	if err := q.db.QueryRowContext(ctx,
		`select sync_attempts from queued_punches where id = ?`, id).Scan(&attempts); err == nil {
		if attempts >= warnAttempts && q.logger != nil {
			q.logger.WithFields(logrus.Fields{
				"id":       id,
				"attempts": attempts,
			}).Warn("queued punch keeps failing to sync")
		}
	}
	return nil
}

// RemoveOnSuccess deletes a punch after the remote store confirmed it.
// Deleting an id that is already gone is a no-op.
func (q *Queue) RemoveOnSuccess(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `delete from queued_punches where id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove queued punch %s: %w", id, err)
	}
	return nil
}

// Count reports how many punches are waiting for sync.
func (q *Queue) Count(ctx context.Context) (int, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, `select count(*) from queued_punches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queued punches: %w", err)
	}
	return n, nil
}

func scanQueued(rows *sql.Rows) (model.QueuedPunch, error) {
	var p model.QueuedPunch
	var action, ts, createdAt string
	var lat, lon, acc *float64
	var addr, capturedAt, locErr, workCenter, lastAttempt *string

	if err := rows.Scan(&p.ID, &p.EmployeeID, &action, &ts,
		&lat, &lon, &acc, &addr, &capturedAt,
		&locErr, &workCenter, &p.SyncAttempts, &lastAttempt, &createdAt); err != nil {
		return p, fmt.Errorf("failed to scan queued punch: %w", err)
	}

	p.Action = model.ActionType(action)

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return p, fmt.Errorf("invalid timestamp on queued punch %s: %w", p.ID, err)
	}
	p.Timestamp = t

	if lat != nil && lon != nil {
		loc := &model.Location{Latitude: *lat, Longitude: *lon}
		if acc != nil {
			loc.Accuracy = *acc
		}
		if addr != nil {
			loc.Address = *addr
		}
		if capturedAt != nil {
			if ct, err := time.Parse(time.RFC3339, *capturedAt); err == nil {
				loc.CapturedAt = ct
			}
		}
		p.Location = loc
	}
	if locErr != nil {
		p.LocationError = *locErr
	}
	if workCenter != nil {
		p.WorkCenterID = *workCenter
	}
	if lastAttempt != nil {
		if la, err := time.Parse(time.RFC3339Nano, *lastAttempt); err == nil {
			p.LastAttemptAt = &la
		}
	}
	if ca, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		p.CreatedAt = ca
	}

	return p, nil
}
