package model

import "time"

// ActionType is the closed set of clock actions an employee can register.
type ActionType string

const (
	ClockIn    ActionType = "clock_in"
	ClockOut   ActionType = "clock_out"
	BreakStart ActionType = "break_start"
	BreakEnd   ActionType = "break_end"
)

func (a ActionType) Valid() bool {
	switch a {
	case ClockIn, ClockOut, BreakStart, BreakEnd:
		return true
	}
	return false
}

// Location is a GPS fix captured alongside a punch. Address is the
// reverse-geocoded form and may just be "lat, lon" when the lookup failed.
type Location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	Address    string    `json:"address,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
}

// PunchEvent is a single timestamped clock action. Exactly one of Location
// and LocationError may be set.
type PunchEvent struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	Action        ActionType `json:"actionType"`
	Timestamp     time.Time  `json:"timestamp"`
	Location      *Location  `json:"location,omitempty"`
	LocationError string     `json:"locationError,omitempty"`
	WorkCenterID  string     `json:"workCenterId,omitempty"`
}

// QueuedPunch is the local-only, pre-sync form of a PunchEvent. The ID is a
// locally assigned "offline_" id until the remote store accepts the record.
type QueuedPunch struct {
	PunchEvent
	SyncAttempts  int
	LastAttemptAt *time.Time
	CreatedAt     time.Time
}
