package geo

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/guardknight/guardknight-api/schema"
)

type fixKey struct{}

// WithFix attaches a client reported fix to the request context.
func WithFix(ctx context.Context, s schema.LocationSample) context.Context {
	return context.WithValue(ctx, fixKey{}, s)
}

// FixFromContext returns the fix attached by WithFix.
func FixFromContext(ctx context.Context) (schema.LocationSample, bool) {
	s, ok := ctx.Value(fixKey{}).(schema.LocationSample)
	return s, ok
}

// ContextPositioning reads the fix a client reported with its request. It
// cannot watch; continuous tracking needs a device feed.
type ContextPositioning struct{}

func (ContextPositioning) GetFix(ctx context.Context, _ time.Duration) (schema.LocationSample, error) {
	s, ok := FixFromContext(ctx)
	if !ok {
		return schema.LocationSample{}, ErrLocationUnavailable
	}
	return s, nil
}

func (ContextPositioning) Watch(context.Context, time.Duration, float64, func(schema.LocationSample)) (string, error) {
	return "", ErrLocationUnavailable
}

func (ContextPositioning) ClearWatch(string) {}

// FixedPositioning reports a configured position, e.g. a venue gate where a
// stationary sensor is mounted.
type FixedPositioning struct {
	latitude  float64
	longitude float64
	accuracy  float64
	now       func() time.Time

	mu      sync.Mutex
	nextID  int
	watches map[string]context.CancelFunc
}

func NewFixedPositioning(lat, lng, accuracy float64) *FixedPositioning {
	return &FixedPositioning{
		latitude:  lat,
		longitude: lng,
		accuracy:  accuracy,
		now:       time.Now,
		watches:   make(map[string]context.CancelFunc),
	}
}

func (f *FixedPositioning) sample() schema.LocationSample {
	return schema.NewLocationSample(f.latitude, f.longitude, f.accuracy, f.now())
}

func (f *FixedPositioning) GetFix(ctx context.Context, _ time.Duration) (schema.LocationSample, error) {
	if err := ctx.Err(); err != nil {
		return schema.LocationSample{}, err
	}
	return f.sample(), nil
}

// Watch reports the position immediately and then once per interval.
func (f *FixedPositioning) Watch(ctx context.Context, minInterval time.Duration, _ float64, onSample func(schema.LocationSample)) (string, error) {
	if minInterval <= 0 {
		minInterval = defaultMinReportInterval
	}

	ctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	f.nextID++
	id := "fixed-" + strconv.Itoa(f.nextID)
	f.watches[id] = cancel
	f.mu.Unlock()

	go func() {
		ticker := time.NewTicker(minInterval)
		defer ticker.Stop()

		onSample(f.sample())
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				onSample(f.sample())
			}
		}
	}()

	return id, nil
}

func (f *FixedPositioning) ClearWatch(watchID string) {
	f.mu.Lock()
	cancel, ok := f.watches[watchID]
	delete(f.watches, watchID)
	f.mu.Unlock()

	if ok {
		cancel()
	}
}
