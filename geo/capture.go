package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"

	"miticaje.com/miticaje/clock/model"
)

const tabletHint = " (tablet detected - check location permissions)"

// CaptureError is a classified, non-fatal location capture failure. Callers
// record its message on the punch and carry on.
type CaptureError struct {
	Code    ErrorCode
	Message string
}

func (e *CaptureError) Error() string {
	return e.Message
}

// Capturer acquires a best-effort location for a punch. A Capturer never
// aborts the clock-action flow; every failure comes back as a *CaptureError.
type Capturer struct {
	provider Provider
	geocoder Geocoder
	profiles Profiles
	logger   *logrus.Logger
}

func NewCapturer(provider Provider, geocoder Geocoder, profiles Profiles, logger *logrus.Logger) *Capturer {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Capturer{
		provider: provider,
		geocoder: geocoder,
		profiles: profiles,
		logger:   logger,
	}
}

// Capture requests a high-accuracy fix using the budget for the given device
// class, then enriches it with a reverse-geocoded address. Geocoding failures
// fall back to a "lat, lon" string and never fail the capture.
func (c *Capturer) Capture(ctx context.Context, class DeviceClass) (*model.Location, *CaptureError) {
	profile := c.profiles.For(class)
	opts := PositionOptions{
		Timeout:      profile.Timeout,
		MaximumAge:   profile.MaximumAge,
		HighAccuracy: true,
	}

	attempts := profile.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var pos Position
	err := retry.Do(func() error {
		fixCtx, cancel := context.WithTimeout(ctx, profile.Timeout)
		defer cancel()
		var err error
		pos, err = c.provider.CurrentPosition(fixCtx, opts)
		return err
	},
		retry.Attempts(uint(attempts)),
		retry.Delay(profile.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			if c.logger != nil {
				c.logger.WithFields(logrus.Fields{
					"deviceClass": class,
					"attempt":     n + 1,
					"err":         err.Error(),
				}).Info("retrying location fix")
			}
		}),
	)
	if err != nil {
		return nil, classify(err, class)
	}

	loc := &model.Location{
		Latitude:   pos.Latitude,
		Longitude:  pos.Longitude,
		Accuracy:   pos.Accuracy,
		CapturedAt: pos.CapturedAt,
	}

	address, err := c.geocoder.ReverseGeocode(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		if c.logger != nil {
			c.logger.WithField("err", err.Error()).Info("reverse geocode failed, using coordinates")
		}
		address = FormatCoordinates(pos.Latitude, pos.Longitude)
	}
	loc.Address = address

	return loc, nil
}

func classify(err error, class DeviceClass) *CaptureError {
	code := Unknown
	message := fmt.Sprintf("unknown location error: %v", err)

	var perr *PlatformError
	switch {
	case errors.As(err, &perr):
		code = perr.Code
		switch perr.Code {
		case PermissionDenied:
			message = "location access denied by the user"
		case PositionUnavailable:
			message = "location unavailable"
		case Timeout:
			message = "timed out waiting for a location fix"
		default:
			message = fmt.Sprintf("unknown location error: %s", perr.Message)
		}
	case errors.Is(err, context.DeadlineExceeded):
		code = Timeout
		message = "timed out waiting for a location fix"
	}

	if class == Tablet {
		message += tabletHint
	}

	return &CaptureError{Code: code, Message: message}
}
