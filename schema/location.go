package schema

import "time"

// LocationSample is a single positioning fix. It is a value type and is never
// mutated once produced.
type LocationSample struct {
	Latitude       float64 `json:"latitude" bson:"latitude" yaml:"latitude"`
	Longitude      float64 `json:"longitude" bson:"longitude" yaml:"longitude"`
	AccuracyMeters float64 `json:"accuracy" bson:"accuracy" yaml:"accuracy"`
	CapturedAt     int64   `json:"captured_at" bson:"captured_at" yaml:"captured_at"` // epoch milliseconds
}

// NewLocationSample stamps a fix with the given capture time.
func NewLocationSample(lat, lng, accuracy float64, capturedAt time.Time) LocationSample {
	return LocationSample{
		Latitude:       lat,
		Longitude:      lng,
		AccuracyMeters: accuracy,
		CapturedAt:     capturedAt.UnixNano() / int64(time.Millisecond),
	}
}

// Time returns the capture time of the sample.
func (l LocationSample) Time() time.Time {
	return time.Unix(0, l.CapturedAt*int64(time.Millisecond))
}

// BoundingBox is an axis aligned lat/lng region. It is used both as the
// place search viewport and as the volunteer directory query region.
type BoundingBox struct {
	MinLatitude  float64 `json:"min_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MaxLongitude float64 `json:"max_longitude"`
}

// Viewport is the place search bias region.
type Viewport = BoundingBox

// Contains reports whether the point lies inside the box, borders included.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLatitude && lat <= b.MaxLatitude &&
		lng >= b.MinLongitude && lng <= b.MaxLongitude
}

// GeoJSON - mongo location format
type GeoJSON struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// Place is a forward geocoding result.
type Place struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Category    string  `json:"category"`
}
