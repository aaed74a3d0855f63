package geo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/mocks"
	"github.com/guardknight/guardknight-api/schema"
)

var taipei = schema.LocationSample{
	Latitude:       25.0330,
	Longitude:      121.5654,
	AccuracyMeters: 12,
	CapturedAt:     1600000000000,
}

func TestGetCurrentLocation(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	p := mocks.NewMockPositioning(ctl)
	p.EXPECT().GetFix(gomock.Any(), 10*time.Second).Return(taipei, nil).Times(1)

	tracker := geo.NewTracker(p, nil, geo.Config{})
	loc, err := tracker.GetCurrentLocation(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, taipei, loc)
}

func TestGetCurrentLocationWithoutPositioning(t *testing.T) {
	tracker := geo.NewTracker(nil, nil, geo.DefaultConfig())
	_, err := tracker.GetCurrentLocation(context.Background())
	assert.Equal(t, geo.ErrLocationUnavailable, err)

	_, err = tracker.StartTracking(context.Background(), func(schema.LocationSample) {})
	assert.Equal(t, geo.ErrLocationUnavailable, err)
}

func TestGetCurrentLocationTimeout(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	p := mocks.NewMockPositioning(ctl)
	p.EXPECT().GetFix(gomock.Any(), gomock.Any()).Return(schema.LocationSample{}, geo.ErrLocationTimeout).Times(1)

	tracker := geo.NewTracker(p, nil, geo.DefaultConfig())
	_, err := tracker.GetCurrentLocation(context.Background())
	assert.Equal(t, geo.ErrLocationTimeout, err)
}

func TestGetCurrentLocationSlowSource(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	p := mocks.NewMockPositioning(ctl)
	p.EXPECT().GetFix(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ time.Duration) (schema.LocationSample, error) {
			<-ctx.Done()
			return schema.LocationSample{}, ctx.Err()
		}).Times(1)

	tracker := geo.NewTracker(p, nil, geo.DefaultConfig())
	_, err := tracker.GetCurrentLocationWithin(context.Background(), 20*time.Millisecond)
	assert.Equal(t, geo.ErrLocationTimeout, err)
}

func TestGetCurrentLocationSourceFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	p := mocks.NewMockPositioning(ctl)
	p.EXPECT().GetFix(gomock.Any(), gomock.Any()).Return(schema.LocationSample{}, fmt.Errorf("gps off")).Times(1)

	tracker := geo.NewTracker(p, nil, geo.DefaultConfig())
	_, err := tracker.GetCurrentLocation(context.Background())
	assert.True(t, errors.Is(err, geo.ErrLocationUnavailable))
}

func sampleAt(lat, lng, accuracy float64, at time.Time) schema.LocationSample {
	return schema.NewLocationSample(lat, lng, accuracy, at)
}

func TestStartTrackingFilters(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	var feed func(schema.LocationSample)
	p := mocks.NewMockPositioning(ctl)
	p.EXPECT().Watch(gomock.Any(), 5*time.Second, 100.0, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ time.Duration, _ float64, onSample func(schema.LocationSample)) (string, error) {
			feed = onSample
			return "w1", nil
		}).Times(1)
	p.EXPECT().ClearWatch("w1").Times(1)

	var received []schema.LocationSample
	tracker := geo.NewTracker(p, nil, geo.DefaultConfig())
	h, err := tracker.StartTracking(context.Background(), func(s schema.LocationSample) {
		received = append(received, s)
	})
	assert.NoError(t, err)

	_, ok := h.LastLocation()
	assert.False(t, ok)

	start := time.Unix(1600000000, 0)
	feed(sampleAt(25, 121, 10, start))
	feed(sampleAt(25, 121, 10, start.Add(2*time.Second)))  // too soon
	feed(sampleAt(25, 121, 500, start.Add(6*time.Second))) // too inaccurate
	feed(sampleAt(25.1, 121, 10, start.Add(7*time.Second)))

	assert.Len(t, received, 2)
	assert.Equal(t, 25.1, received[1].Latitude)

	last, ok := h.LastLocation()
	assert.True(t, ok)
	assert.Equal(t, 25.1, last.Latitude)
	assert.Equal(t, 10.0, last.AccuracyMeters)

	tracker.StopTracking(h)
	tracker.StopTracking(h)
	h.Stop()

	feed(sampleAt(26, 121, 10, start.Add(time.Minute)))
	assert.Len(t, received, 2, "callback after stop")
}

func TestStartTrackingWatchFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	p := mocks.NewMockPositioning(ctl)
	p.EXPECT().Watch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", geo.ErrLocationUnavailable).Times(1)

	tracker := geo.NewTracker(p, nil, geo.DefaultConfig())
	h, err := tracker.StartTracking(context.Background(), func(schema.LocationSample) {})
	assert.Nil(t, h)
	assert.Equal(t, geo.ErrLocationUnavailable, err)
}

func TestReverseGeocode(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGeocoder(ctl)
	g.EXPECT().ReverseGeocode(gomock.Any(), 25.033, 121.5654).Return("Taipei 101", nil).Times(1)

	tracker := geo.NewTracker(nil, g, geo.DefaultConfig())
	assert.Equal(t, "Taipei 101", tracker.ReverseGeocode(context.Background(), 25.033, 121.5654))
}

func TestReverseGeocodeDegraded(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGeocoder(ctl)
	g.EXPECT().ReverseGeocode(gomock.Any(), gomock.Any(), gomock.Any()).Return("", fmt.Errorf("unreachable")).Times(1)

	tracker := geo.NewTracker(nil, g, geo.DefaultConfig())
	assert.Equal(t, "25.0330, 121.5654", tracker.ReverseGeocode(context.Background(), 25.033, 121.5654))

	withoutGeocoder := geo.NewTracker(nil, nil, geo.DefaultConfig())
	assert.Equal(t, "-33.8688, 151.2093", withoutGeocoder.ReverseGeocode(context.Background(), -33.8688, 151.2093))
}

type viewportMatcher struct {
	lat, lng, radius float64
}

func (m viewportMatcher) Matches(x interface{}) bool {
	v, ok := x.(*schema.Viewport)
	if !ok || v == nil {
		return false
	}
	const eps = 1e-9
	near := func(a, b float64) bool { return a-b < eps && b-a < eps }
	return near(v.MinLatitude, m.lat-m.radius) && near(v.MaxLatitude, m.lat+m.radius) &&
		near(v.MinLongitude, m.lng-m.radius) && near(v.MaxLongitude, m.lng+m.radius)
}

func (m viewportMatcher) String() string {
	return fmt.Sprintf("viewport around %f,%f", m.lat, m.lng)
}

func TestSearchPlacesNear(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	places := []schema.Place{{ID: "1", DisplayName: "Exit A", Latitude: 25.03, Longitude: 121.56}}

	g := mocks.NewMockGeocoder(ctl)
	g.EXPECT().SearchPlaces(gomock.Any(), "exit", viewportMatcher{25.033, 121.5654, 0.1}).Return(places, nil).Times(1)

	tracker := geo.NewTracker(nil, g, geo.DefaultConfig())
	assert.Equal(t, places, tracker.SearchPlaces(context.Background(), "exit", &taipei))
}

func TestSearchPlacesFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGeocoder(ctl)
	g.EXPECT().SearchPlaces(gomock.Any(), "exit", nil).Return(nil, fmt.Errorf("unreachable")).Times(1)

	tracker := geo.NewTracker(nil, g, geo.DefaultConfig())
	result := tracker.SearchPlaces(context.Background(), "exit", nil)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
