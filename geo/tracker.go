package geo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/schema"
)

const (
	defaultFixTimeout        = 10 * time.Second
	defaultMinReportInterval = 5 * time.Second
	defaultAccuracyCeiling   = 100.0
	defaultSearchRadius      = 0.1
)

type Config struct {
	FixTimeout            time.Duration `mapstructure:"fix_timeout"`
	MinReportInterval     time.Duration `mapstructure:"min_report_interval"`
	AccuracyCeilingMeters float64       `mapstructure:"accuracy_ceiling"`
	SearchRadiusDegrees   float64       `mapstructure:"search_radius"`
}

func DefaultConfig() Config {
	return Config{
		FixTimeout:            defaultFixTimeout,
		MinReportInterval:     defaultMinReportInterval,
		AccuracyCeilingMeters: defaultAccuracyCeiling,
		SearchRadiusDegrees:   defaultSearchRadius,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FixTimeout <= 0 {
		c.FixTimeout = d.FixTimeout
	}
	if c.MinReportInterval <= 0 {
		c.MinReportInterval = d.MinReportInterval
	}
	if c.AccuracyCeilingMeters <= 0 {
		c.AccuracyCeilingMeters = d.AccuracyCeilingMeters
	}
	if c.SearchRadiusDegrees <= 0 {
		c.SearchRadiusDegrees = d.SearchRadiusDegrees
	}
	return c
}

// Tracker wraps a positioning source and a geocoder. A nil positioning
// source means location is not available on this host. A Tracker keeps no
// fix of its own since it may serve many requesters.
type Tracker struct {
	positioning Positioning
	geocoder    Geocoder
	config      Config
}

func NewTracker(positioning Positioning, geocoder Geocoder, config Config) *Tracker {
	return &Tracker{
		positioning: positioning,
		geocoder:    geocoder,
		config:      config.withDefaults(),
	}
}

// GetCurrentLocation returns one fresh fix within the configured timeout.
func (t *Tracker) GetCurrentLocation(ctx context.Context) (schema.LocationSample, error) {
	return t.GetCurrentLocationWithin(ctx, t.config.FixTimeout)
}

// GetCurrentLocationWithin is GetCurrentLocation with a caller chosen timeout.
func (t *Tracker) GetCurrentLocationWithin(ctx context.Context, timeout time.Duration) (schema.LocationSample, error) {
	if t.positioning == nil {
		return schema.LocationSample{}, ErrLocationUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type fix struct {
		sample schema.LocationSample
		err    error
	}

	// buffered so a positioning source that ignores ctx does not leak a blocked sender
	result := make(chan fix, 1)
	go func() {
		s, err := t.positioning.GetFix(ctx, timeout)
		result <- fix{s, err}
	}()

	select {
	case r := <-result:
		if r.err != nil {
			return schema.LocationSample{}, classifyFixError(r.err)
		}
		return r.sample, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return schema.LocationSample{}, ErrLocationTimeout
		}
		return schema.LocationSample{}, ctx.Err()
	}
}

func classifyFixError(err error) error {
	switch {
	case errors.Is(err, ErrLocationTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrLocationTimeout
	case errors.Is(err, ErrLocationUnavailable), errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %s", ErrLocationUnavailable, err)
	}
}

// TrackingHandle controls one continuous tracking session.
type TrackingHandle struct {
	tracker  *Tracker
	onUpdate func(schema.LocationSample)

	mu        sync.Mutex
	watchID   string
	stopped   bool
	last      schema.LocationSample
	lastAt    time.Time
	delivered bool
	once      sync.Once
}

// StartTracking delivers fixes to onUpdate no more often than the minimum
// report interval, dropping fixes worse than the accuracy ceiling. onUpdate
// must not call Stop on its own handle.
func (t *Tracker) StartTracking(ctx context.Context, onUpdate func(schema.LocationSample)) (*TrackingHandle, error) {
	if t.positioning == nil {
		return nil, ErrLocationUnavailable
	}

	h := &TrackingHandle{
		tracker:  t,
		onUpdate: onUpdate,
	}

	id, err := t.positioning.Watch(ctx, t.config.MinReportInterval, t.config.AccuracyCeilingMeters, h.deliver)
	if err != nil {
		return nil, classifyFixError(err)
	}

	h.mu.Lock()
	h.watchID = id
	h.mu.Unlock()

	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"watch_id": id,
	}).Debug("start tracking")

	return h, nil
}

// StopTracking stops the session. Stopping twice is a no-op.
func (t *Tracker) StopTracking(h *TrackingHandle) {
	if h == nil {
		return
	}
	h.Stop()
}

func (h *TrackingHandle) deliver(s schema.LocationSample) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return
	}

	cfg := h.tracker.config
	if s.AccuracyMeters > cfg.AccuracyCeilingMeters {
		return
	}

	at := s.Time()
	if s.CapturedAt == 0 {
		at = time.Now()
	}
	if h.delivered && at.Sub(h.lastAt) < cfg.MinReportInterval {
		return
	}

	h.delivered = true
	h.last = s
	h.lastAt = at
	h.onUpdate(s)
}

// LastLocation is the most recent fix delivered by this session.
func (h *TrackingHandle) LastLocation() (schema.LocationSample, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.delivered
}

// Stop ends the session. Once Stop returns no further callback runs.
func (h *TrackingHandle) Stop() {
	h.once.Do(func() {
		h.mu.Lock()
		h.stopped = true
		id := h.watchID
		h.mu.Unlock()

		if id != "" {
			h.tracker.positioning.ClearWatch(id)
		}
	})
}

// ReverseGeocode never fails: on any geocoder problem it falls back to the
// formatted coordinates.
func (t *Tracker) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	if t.geocoder == nil {
		return FormatCoordinates(lat, lng)
	}

	address, err := t.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil || address == "" {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"lat":    lat,
			"lng":    lng,
			"error":  err,
		}).Warn(ErrNetworkDegraded)
		return FormatCoordinates(lat, lng)
	}

	return address
}

// SearchPlaces runs a forward search biased toward near when given. Failures
// yield an empty list.
func (t *Tracker) SearchPlaces(ctx context.Context, query string, near *schema.LocationSample) []schema.Place {
	if t.geocoder == nil || query == "" {
		return []schema.Place{}
	}

	var viewport *schema.Viewport
	if near != nil {
		r := t.config.SearchRadiusDegrees
		viewport = &schema.Viewport{
			MinLatitude:  near.Latitude - r,
			MinLongitude: near.Longitude - r,
			MaxLatitude:  near.Latitude + r,
			MaxLongitude: near.Longitude + r,
		}
	}

	places, err := t.geocoder.SearchPlaces(ctx, query, viewport)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"query":  query,
			"error":  err,
		}).Warn("search places")
		return []schema.Place{}
	}

	if places == nil {
		return []schema.Place{}
	}

	return places
}
