package emergency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/volunteer"
)

type Option func(*Manager)

// WithDispatcher replaces the in-process fan-out, e.g. with a task queue.
func WithDispatcher(d Dispatcher) Option {
	return func(m *Manager) {
		m.dispatcher = d
	}
}

func WithScope(scope tally.Scope) Option {
	return func(m *Manager) {
		m.scope = scope.SubScope("emergency")
	}
}

// Manager owns the alert lifecycle: creation, fan-out, status changes and
// owner subscriptions.
type Manager struct {
	locator    Locator
	store      Store
	matcher    *volunteer.Matcher
	directory  volunteer.Directory
	notifier   Notifier
	dispatcher Dispatcher
	config     Config
	scope      tally.Scope
	now        func() time.Time
}

func NewManager(locator Locator, store Store, matcher *volunteer.Matcher, directory volunteer.Directory, notifier Notifier, config Config, opts ...Option) *Manager {
	if matcher == nil {
		matcher = volunteer.NewMatcher()
	}

	m := &Manager{
		locator:   locator,
		store:     store,
		matcher:   matcher,
		directory: directory,
		notifier:  notifier,
		config:    config.withDefaults(),
		scope:     tally.NoopScope,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.dispatcher == nil {
		m.dispatcher = NewAsyncDispatcher(m.Broadcast, m.config.BroadcastTimeout)
	}

	return m
}

// CreateAlert locates the owner, persists a new active alert and schedules
// its fan-out. Location errors from the locator are returned unchanged and
// nothing is stored. The fan-out never affects the result.
func (m *Manager) CreateAlert(ctx context.Context, ownerID string, kind schema.AlertKind, message string) (schema.EmergencyAlert, error) {
	if !kind.Valid() {
		return schema.EmergencyAlert{}, ErrInvalidAlertKind
	}

	location, err := m.locator.GetCurrentLocation(ctx)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"owner":  ownerID,
			"error":  err,
		}).Warn("cannot locate alert owner")
		m.scope.Counter("location_failures").Inc(1)
		return schema.EmergencyAlert{}, err
	}

	alert := schema.EmergencyAlert{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Kind:      kind,
		Location:  location,
		Address:   m.locator.ReverseGeocode(ctx, location.Latitude, location.Longitude),
		CreatedAt: m.now().UnixNano() / int64(time.Millisecond),
		Status:    schema.AlertActive,
		Message:   message,
	}

	id, err := m.store.CreateAlert(ctx, &alert)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"owner":  ownerID,
			"error":  err,
		}).Error("persist alert")
		m.scope.Counter("persistence_failures").Inc(1)
		return schema.EmergencyAlert{}, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	if id != "" {
		alert.ID = id
	}

	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"alert_id": alert.ID,
		"owner":    ownerID,
		"type":     kind,
	}).Info("alert created")
	m.scope.Counter("alerts_created").Inc(1)

	m.dispatcher.Dispatch(alert)

	return alert, nil
}

// BroadcastResult counts the outcome of one fan-out.
type BroadcastResult struct {
	VolunteersNotified        int
	VolunteersFailed          int
	EmergencyServicesNotified bool
}

// Broadcast notifies the available volunteers near the alert and then the
// emergency services. Every failure is logged and reported, none is returned.
func (m *Manager) Broadcast(ctx context.Context, alert schema.EmergencyAlert) BroadcastResult {
	var result BroadcastResult

	skills := m.config.KindSkills[string(alert.Kind)]
	volunteers, err := m.matcher.FindNearby(ctx, alert.Location, m.config.VolunteerRadiusKm, m.directory, skills...)
	if err != nil {
		m.reportFanoutError(alert, "find nearby volunteers", err)
	}

	for _, v := range volunteers {
		if v.Availability != schema.VolunteerAvailable {
			continue
		}

		summary := alert.Summary()
		summary.DistanceKm = v.DistanceKm
		summary.Language = v.Language

		if err := m.notifier.NotifyVolunteer(ctx, v.ID, summary); err != nil {
			result.VolunteersFailed++
			m.reportFanoutError(alert, "notify volunteer "+v.ID, err)
			continue
		}
		result.VolunteersNotified++
	}

	if err := m.notifier.NotifyEmergencyServices(ctx, alert.Summary()); err != nil {
		m.reportFanoutError(alert, "notify emergency services", err)
	} else {
		result.EmergencyServicesNotified = true
	}

	m.scope.Counter("volunteers_notified").Inc(int64(result.VolunteersNotified))

	log.WithFields(log.Fields{
		"prefix":             logPrefix,
		"alert_id":           alert.ID,
		"volunteers":         result.VolunteersNotified,
		"volunteer_failures": result.VolunteersFailed,
		"emergency_services": result.EmergencyServicesNotified,
	}).Info("alert broadcast")

	return result
}

func (m *Manager) reportFanoutError(alert schema.EmergencyAlert, step string, err error) {
	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"alert_id": alert.ID,
		"step":     step,
		"error":    err,
	}).Error("alert fan-out failed")
	m.scope.Counter("fanout_failures").Inc(1)
	sentry.CaptureException(fmt.Errorf("alert %s: %s: %w", alert.ID, step, err))
}

// UpdateStatus moves an alert forward along active, responded, resolved.
func (m *Manager) UpdateStatus(ctx context.Context, id string, newStatus schema.AlertStatus) (schema.EmergencyAlert, error) {
	alert, err := m.getAlert(ctx, id)
	if err != nil {
		return schema.EmergencyAlert{}, err
	}

	t, err := NormalTransition(alert.Status, newStatus)
	if err != nil {
		return schema.EmergencyAlert{}, err
	}

	return m.apply(ctx, alert, t)
}

// ResolveAsFalseAlarm resolves an active alert without a response.
func (m *Manager) ResolveAsFalseAlarm(ctx context.Context, id string) (schema.EmergencyAlert, error) {
	alert, err := m.getAlert(ctx, id)
	if err != nil {
		return schema.EmergencyAlert{}, err
	}

	return m.apply(ctx, alert, TransitionFalseAlarm)
}

// Respond records a volunteer as responding. Only directory volunteers
// within the fan-out radius of the alert may respond, never its owner. The
// first responder moves an active alert to responded.
func (m *Manager) Respond(ctx context.Context, id, volunteerID string) (schema.EmergencyAlert, error) {
	alert, err := m.getAlert(ctx, id)
	if err != nil {
		return schema.EmergencyAlert{}, err
	}

	if alert.Status == schema.AlertResolved {
		return schema.EmergencyAlert{}, ErrInvalidTransition
	}

	if volunteerID == alert.OwnerID {
		return schema.EmergencyAlert{}, ErrOwnerResponder
	}

	for _, r := range alert.RespondingVolunteerIDs {
		if r == volunteerID {
			return *alert, nil
		}
	}

	nearby, err := m.isNearbyVolunteer(ctx, *alert, volunteerID)
	if err != nil {
		return schema.EmergencyAlert{}, err
	}
	if !nearby {
		log.WithFields(log.Fields{
			"prefix":    logPrefix,
			"alert_id":  alert.ID,
			"responder": volunteerID,
		}).Warn("reject responder outside volunteer radius")
		return schema.EmergencyAlert{}, ErrNotNearbyVolunteer
	}

	if err := m.store.AddResponder(ctx, id, volunteerID); err != nil {
		return schema.EmergencyAlert{}, m.storeError(err)
	}
	alert.RespondingVolunteerIDs = append(alert.RespondingVolunteerIDs, volunteerID)

	if alert.Status != schema.AlertActive {
		return *alert, nil
	}

	updated, err := m.apply(ctx, alert, TransitionRespond)
	if errors.Is(err, ErrInvalidTransition) {
		// someone else moved it first; the responder is recorded either way
		return *alert, nil
	}
	return updated, err
}

func (m *Manager) isNearbyVolunteer(ctx context.Context, alert schema.EmergencyAlert, volunteerID string) (bool, error) {
	volunteers, err := m.matcher.FindNearby(ctx, alert.Location, m.config.VolunteerRadiusKm, m.directory)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	for _, v := range volunteers {
		if v.ID == volunteerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Manager) apply(ctx context.Context, alert *schema.EmergencyAlert, t Transition) (schema.EmergencyAlert, error) {
	to, resolution, err := t.Apply(alert.Status)
	if err != nil {
		return schema.EmergencyAlert{}, err
	}

	if err := m.store.UpdateAlertStatus(ctx, alert.ID, alert.Status, to, resolution); err != nil {
		return schema.EmergencyAlert{}, m.storeError(err)
	}

	log.WithFields(log.Fields{
		"prefix":     logPrefix,
		"alert_id":   alert.ID,
		"transition": t,
		"from":       alert.Status,
		"to":         to,
	}).Info("alert status changed")

	alert.Status = to
	alert.Resolution = resolution
	return *alert, nil
}

// Rebroadcast schedules the fan-out of an unresolved alert again, e.g. after
// the notification providers recovered from an outage.
func (m *Manager) Rebroadcast(ctx context.Context, id string) (schema.EmergencyAlert, error) {
	alert, err := m.getAlert(ctx, id)
	if err != nil {
		return schema.EmergencyAlert{}, err
	}

	if alert.Status == schema.AlertResolved {
		return schema.EmergencyAlert{}, ErrInvalidTransition
	}

	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"alert_id": alert.ID,
	}).Info("rebroadcast alert")
	m.scope.Counter("rebroadcasts").Inc(1)

	m.dispatcher.Dispatch(*alert)
	return *alert, nil
}

// GetAlert returns the current state of an alert.
func (m *Manager) GetAlert(ctx context.Context, id string) (schema.EmergencyAlert, error) {
	alert, err := m.getAlert(ctx, id)
	if err != nil {
		return schema.EmergencyAlert{}, err
	}
	return *alert, nil
}

func (m *Manager) getAlert(ctx context.Context, id string) (*schema.EmergencyAlert, error) {
	alert, err := m.store.GetAlert(ctx, id)
	if err != nil {
		return nil, m.storeError(err)
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}
	return alert, nil
}

func (m *Manager) storeError(err error) error {
	switch {
	case errors.Is(err, ErrAlertNotFound):
		return ErrAlertNotFound
	case errors.Is(err, ErrStatusConflict):
		return ErrInvalidTransition
	default:
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}
}
