package geo

import (
	"context"
	"time"
)

// ErrorCode classifies platform location failures.
type ErrorCode int

const (
	Unknown ErrorCode = iota
	PermissionDenied
	PositionUnavailable
	Timeout
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission_denied"
	case PositionUnavailable:
		return "position_unavailable"
	case Timeout:
		return "timeout"
	}
	return "unknown"
}

// PlatformError is a failure reported by the underlying location platform.
type PlatformError struct {
	Code    ErrorCode
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}

// Position is a raw fix from the platform location API.
type Position struct {
	Latitude   float64
	Longitude  float64
	Accuracy   float64
	CapturedAt time.Time
}

// PositionOptions tunes a single fix request.
type PositionOptions struct {
	Timeout      time.Duration
	MaximumAge   time.Duration
	HighAccuracy bool
}

// Provider abstracts the platform location API so device integrations and
// test fakes can be swapped in.
type Provider interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
}
