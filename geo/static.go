package geo

import (
	"context"
	"time"
)

// StaticProvider reports a fixed position. Wall-mounted kiosks sit at known
// coordinates, so they skip the platform location stack entirely.
type StaticProvider struct {
	Position Position
}

func NewStaticProvider(lat, lon, accuracy float64) *StaticProvider {
	return &StaticProvider{
		Position: Position{
			Latitude:  lat,
			Longitude: lon,
			Accuracy:  accuracy,
		},
	}
}

func (p *StaticProvider) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	pos := p.Position
	pos.CapturedAt = time.Now()
	return pos, nil
}
