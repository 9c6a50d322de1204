package geo

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls     int
	failFirst int
	err       error
	position  Position
	lastOpts  PositionOptions
}

func (p *fakeProvider) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	p.calls++
	p.lastOpts = opts
	if p.calls <= p.failFirst {
		return Position{}, p.err
	}
	if p.failFirst < 0 {
		return Position{}, p.err
	}
	return p.position, nil
}

type fakeGeocoder struct {
	address string
	err     error
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	return g.address, g.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fastProfiles keeps the capture budgets small so retry tests stay quick.
func fastProfiles() Profiles {
	return Profiles{
		Handheld: {
			Timeout:    time.Second,
			MaximumAge: time.Minute,
			Attempts:   1,
		},
		Tablet: {
			Timeout:    time.Second,
			MaximumAge: 5 * time.Minute,
			Attempts:   3,
			RetryDelay: time.Millisecond,
		},
	}
}

func TestCaptureReturnsGeocodedLocation(t *testing.T) {
	provider := &fakeProvider{
		position: Position{Latitude: 40.416775, Longitude: -3.703790, Accuracy: 8, CapturedAt: time.Now()},
	}
	geocoder := &fakeGeocoder{address: "Puerta del Sol, Madrid"}
	capturer := NewCapturer(provider, geocoder, fastProfiles(), quietLogger())

	loc, capErr := capturer.Capture(context.Background(), Handheld)
	require.Nil(t, capErr)
	require.NotNil(t, loc)
	assert.Equal(t, 40.416775, loc.Latitude)
	assert.Equal(t, -3.703790, loc.Longitude)
	assert.Equal(t, "Puerta del Sol, Madrid", loc.Address)
	assert.True(t, provider.lastOpts.HighAccuracy)
}

func TestCaptureFallsBackToCoordinatesWhenGeocodeFails(t *testing.T) {
	provider := &fakeProvider{
		position: Position{Latitude: 40.416775, Longitude: -3.703790},
	}
	geocoder := &fakeGeocoder{err: errors.New("rate limited")}
	capturer := NewCapturer(provider, geocoder, fastProfiles(), quietLogger())

	loc, capErr := capturer.Capture(context.Background(), Handheld)
	require.Nil(t, capErr)
	require.NotNil(t, loc)
	assert.Equal(t, "40.416775, -3.703790", loc.Address)
}

func TestCaptureHandheldDoesNotRetry(t *testing.T) {
	provider := &fakeProvider{
		failFirst: -1,
		err:       &PlatformError{Code: PositionUnavailable, Message: "no fix"},
	}
	capturer := NewCapturer(provider, &fakeGeocoder{}, fastProfiles(), quietLogger())

	loc, capErr := capturer.Capture(context.Background(), Handheld)
	assert.Nil(t, loc)
	require.NotNil(t, capErr)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, PositionUnavailable, capErr.Code)
	assert.Equal(t, "location unavailable", capErr.Message)
}

func TestCaptureTabletRetriesUntilSuccess(t *testing.T) {
	provider := &fakeProvider{
		failFirst: 2,
		err:       &PlatformError{Code: PositionUnavailable, Message: "no fix"},
		position:  Position{Latitude: 41.385064, Longitude: 2.173404},
	}
	geocoder := &fakeGeocoder{address: "Plaça de Catalunya, Barcelona"}
	capturer := NewCapturer(provider, geocoder, fastProfiles(), quietLogger())

	loc, capErr := capturer.Capture(context.Background(), Tablet)
	require.Nil(t, capErr)
	require.NotNil(t, loc)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, "Plaça de Catalunya, Barcelona", loc.Address)
}

func TestCaptureTabletExhaustsAttempts(t *testing.T) {
	provider := &fakeProvider{
		failFirst: -1,
		err:       &PlatformError{Code: Timeout, Message: "timed out"},
	}
	capturer := NewCapturer(provider, &fakeGeocoder{}, fastProfiles(), quietLogger())

	loc, capErr := capturer.Capture(context.Background(), Tablet)
	assert.Nil(t, loc)
	require.NotNil(t, capErr)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, Timeout, capErr.Code)
	assert.Equal(t, "timed out waiting for a location fix"+tabletHint, capErr.Message)
}

func TestCaptureClassifiesErrors(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		class           DeviceClass
		expectedCode    ErrorCode
		expectedMessage string
	}{
		{
			name:            "Permission denied",
			err:             &PlatformError{Code: PermissionDenied, Message: "denied"},
			class:           Handheld,
			expectedCode:    PermissionDenied,
			expectedMessage: "location access denied by the user",
		},
		{
			name:            "Position unavailable on tablet gets the hint",
			err:             &PlatformError{Code: PositionUnavailable, Message: "no fix"},
			class:           Tablet,
			expectedCode:    PositionUnavailable,
			expectedMessage: "location unavailable" + tabletHint,
		},
		{
			name:            "Context deadline maps to timeout",
			err:             context.DeadlineExceeded,
			class:           Handheld,
			expectedCode:    Timeout,
			expectedMessage: "timed out waiting for a location fix",
		},
		{
			name:            "Unclassified error",
			err:             errors.New("gps driver crashed"),
			class:           Handheld,
			expectedCode:    Unknown,
			expectedMessage: "unknown location error: gps driver crashed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capErr := classify(tt.err, tt.class)
			assert.Equal(t, tt.expectedCode, capErr.Code)
			assert.Equal(t, tt.expectedMessage, capErr.Message)
		})
	}
}
