package geo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
)

func TestContextPositioning(t *testing.T) {
	p := geo.ContextPositioning{}

	_, err := p.GetFix(context.Background(), time.Second)
	assert.Equal(t, geo.ErrLocationUnavailable, err)

	ctx := geo.WithFix(context.Background(), taipei)
	s, err := p.GetFix(ctx, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, taipei, s)

	_, err = p.Watch(ctx, time.Second, 100, func(schema.LocationSample) {})
	assert.Equal(t, geo.ErrLocationUnavailable, err)
}

func TestContextPositioningThroughTracker(t *testing.T) {
	tracker := geo.NewTracker(geo.ContextPositioning{}, nil, geo.DefaultConfig())

	_, err := tracker.GetCurrentLocation(context.Background())
	assert.Equal(t, geo.ErrLocationUnavailable, err)

	s, err := tracker.GetCurrentLocation(geo.WithFix(context.Background(), taipei))
	assert.NoError(t, err)
	assert.Equal(t, taipei, s)
}

func TestFixedPositioningWatch(t *testing.T) {
	p := geo.NewFixedPositioning(25.033, 121.5654, 5)

	var mu sync.Mutex
	count := 0
	id, err := p.Watch(context.Background(), 10*time.Millisecond, 100, func(schema.LocationSample) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 2
	}, time.Second, 5*time.Millisecond)

	p.ClearWatch(id)
	p.ClearWatch(id)
}
