package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAlertKindValid(t *testing.T) {
	for _, k := range []AlertKind{AlertSOS, AlertMedical, AlertFire, AlertPolice, AlertGeneral} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, AlertKind("flood").Valid())
	assert.False(t, AlertKind("").Valid())
}

func TestAlertSummary(t *testing.T) {
	a := EmergencyAlert{
		ID:        "a1",
		Kind:      AlertFire,
		Address:   "Main St",
		Message:   "smoke",
		CreatedAt: 1700000000000,
		Location:  LocationSample{Latitude: 40.7128, Longitude: -74.006},
	}

	s := a.Summary()
	assert.Equal(t, "a1", s.AlertID)
	assert.Equal(t, AlertFire, s.Kind)
	assert.Equal(t, "Main St", s.Address)
	assert.Equal(t, 40.7128, s.Latitude)
	assert.Equal(t, -74.006, s.Longitude)
	assert.Equal(t, int64(1700000000000), s.CreatedAt)
}

func TestLocationSampleTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocationSample(1, 2, 5, now)
	assert.Equal(t, now.UnixNano()/int64(time.Millisecond), l.CapturedAt)
	assert.True(t, now.Equal(l.Time()))
}

func TestDensityTierRank(t *testing.T) {
	assert.Equal(t, 0, DensityLow.Rank())
	assert.Equal(t, 1, DensityMedium.Rank())
	assert.Equal(t, 2, DensityHigh.Rank())
	assert.Equal(t, 3, DensityCritical.Rank())
	assert.Equal(t, -1, DensityTier("Unknown").Rank())
}

func TestBoundingBoxContains(t *testing.T) {
	b := BoundingBox{MinLatitude: 1, MinLongitude: 1, MaxLatitude: 2, MaxLongitude: 2}
	assert.True(t, b.Contains(1.5, 1.5))
	assert.True(t, b.Contains(1, 2))
	assert.False(t, b.Contains(0.9, 1.5))
	assert.False(t, b.Contains(1.5, 2.1))
}
