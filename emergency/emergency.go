package emergency

import (
	"context"
	"fmt"
	"time"

	"github.com/guardknight/guardknight-api/schema"
)

const (
	logPrefix = "emergency"

	defaultVolunteerRadiusKm = 5.0
	defaultBroadcastTimeout  = 30 * time.Second
	defaultSubscriptionLimit = 10
)

var (
	ErrPersistence        = fmt.Errorf("alert persistence failed")
	ErrInvalidTransition  = fmt.Errorf("invalid alert status transition")
	ErrInvalidAlertKind   = fmt.Errorf("invalid alert kind")
	ErrAlertNotFound      = fmt.Errorf("alert not found")
	ErrStatusConflict     = fmt.Errorf("alert status changed concurrently")
	ErrOwnerResponder     = fmt.Errorf("alert owner cannot respond to own alert")
	ErrNotNearbyVolunteer = fmt.Errorf("responder is not a volunteer near the alert")
)

// Locator acquires the position of the alert owner.
type Locator interface {
	GetCurrentLocation(ctx context.Context) (schema.LocationSample, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) string
}

// Store persists alerts. UpdateAlertStatus only applies when the stored
// status still equals from; otherwise it fails with ErrAlertNotFound or
// ErrStatusConflict. Stores push owner snapshots through
// SubscribeOwnerAlerts until the returned cancel func is called.
type Store interface {
	CreateAlert(ctx context.Context, alert *schema.EmergencyAlert) (string, error)
	GetAlert(ctx context.Context, id string) (*schema.EmergencyAlert, error)
	UpdateAlertStatus(ctx context.Context, id string, from, to schema.AlertStatus, resolution schema.Resolution) error
	AddResponder(ctx context.Context, id, volunteerID string) error
	SubscribeOwnerAlerts(ctx context.Context, ownerID string, limit int, onSnapshot func([]schema.EmergencyAlert)) (func(), error)
}

// Notifier hands alert summaries to push and dispatch providers.
type Notifier interface {
	NotifyVolunteer(ctx context.Context, volunteerID string, summary schema.AlertSummary) error
	NotifyEmergencyServices(ctx context.Context, summary schema.AlertSummary) error
}

// Dispatcher schedules the notification fan-out of a persisted alert. It
// must return without waiting for the fan-out.
type Dispatcher interface {
	Dispatch(alert schema.EmergencyAlert)
}

type DispatcherFunc func(alert schema.EmergencyAlert)

func (f DispatcherFunc) Dispatch(alert schema.EmergencyAlert) {
	f(alert)
}

type Config struct {
	VolunteerRadiusKm float64             `mapstructure:"volunteer_radius"`
	BroadcastTimeout  time.Duration       `mapstructure:"broadcast_timeout"`
	SubscriptionLimit int                 `mapstructure:"subscription_limit"`
	KindSkills        map[string][]string `mapstructure:"kind_skills"`
}

func DefaultConfig() Config {
	return Config{
		VolunteerRadiusKm: defaultVolunteerRadiusKm,
		BroadcastTimeout:  defaultBroadcastTimeout,
		SubscriptionLimit: defaultSubscriptionLimit,
		KindSkills: map[string][]string{
			string(schema.AlertMedical): {"first aid", "cpr"},
			string(schema.AlertFire):    {"fire safety", "first aid"},
			string(schema.AlertSOS):     {"first aid"},
		},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VolunteerRadiusKm <= 0 {
		c.VolunteerRadiusKm = d.VolunteerRadiusKm
	}
	if c.BroadcastTimeout <= 0 {
		c.BroadcastTimeout = d.BroadcastTimeout
	}
	if c.SubscriptionLimit <= 0 {
		c.SubscriptionLimit = d.SubscriptionLimit
	}
	if c.KindSkills == nil {
		c.KindSkills = d.KindSkills
	}
	return c
}
