package geo

import (
	"context"
	"fmt"
	"time"

	"github.com/guardknight/guardknight-api/schema"
)

const logPrefix = "geo"

var (
	ErrLocationUnavailable = fmt.Errorf("location unavailable")
	ErrLocationTimeout     = fmt.Errorf("location timeout")
	ErrNetworkDegraded     = fmt.Errorf("network degraded")
)

// Positioning is the source of device location fixes.
type Positioning interface {
	// GetFix returns a single fix or fails once the timeout elapses.
	GetFix(ctx context.Context, timeout time.Duration) (schema.LocationSample, error)
	// Watch starts delivering fixes until ClearWatch is called with the
	// returned id or ctx is done.
	Watch(ctx context.Context, minInterval time.Duration, accuracyCeiling float64, onSample func(schema.LocationSample)) (string, error)
	ClearWatch(watchID string)
}

// Geocoder converts between coordinates and human readable places.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	SearchPlaces(ctx context.Context, query string, viewport *schema.Viewport) ([]schema.Place, error)
}

// FormatCoordinates is the address used when reverse geocoding is degraded.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}
