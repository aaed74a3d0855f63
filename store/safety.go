package store

import (
	"context"

	"github.com/jinzhu/gorm"

	"github.com/guardknight/guardknight-api/schema"
)

// SafetyCore is the main datastore of alerts and volunteers.
type SafetyCore interface {
	Ping() error
	Close()

	// Alert
	CreateAlert(ctx context.Context, alert *schema.EmergencyAlert) (string, error)
	GetAlert(ctx context.Context, id string) (*schema.EmergencyAlert, error)
	UpdateAlertStatus(ctx context.Context, id string, from, to schema.AlertStatus, resolution schema.Resolution) error
	AddResponder(ctx context.Context, id, volunteerID string) error
	ListOwnerAlerts(ctx context.Context, ownerID string, limit int) ([]schema.EmergencyAlert, error)
	SubscribeOwnerAlerts(ctx context.Context, ownerID string, limit int, onSnapshot func([]schema.EmergencyAlert)) (func(), error)

	// Volunteer
	VolunteersWithin(ctx context.Context, box schema.BoundingBox) ([]schema.Volunteer, error)
}

// SafetyStore is an implementation of SafetyCore. Alerts live in postgres,
// volunteers in mongo.
type SafetyStore struct {
	ormDB *gorm.DB
	mongo MongoStore
	hub   *alertHub
}

// NewSafetyStore returns the datastore. listenerConn is the postgres
// connection string used for LISTEN; subscriptions are unavailable without it.
func NewSafetyStore(ormDB *gorm.DB, mongo MongoStore, listenerConn string) *SafetyStore {
	return &SafetyStore{
		ormDB: ormDB,
		mongo: mongo,
		hub:   newAlertHub(listenerConn),
	}
}

// Ping is to check the storage health status
func (s *SafetyStore) Ping() error {
	if err := s.ormDB.DB().Ping(); err != nil {
		return err
	}
	if s.mongo != nil {
		return s.mongo.Ping()
	}
	return nil
}

// Close stops the alert listener. The database handles are owned by the
// caller.
func (s *SafetyStore) Close() {
	s.hub.close()
}

func (s *SafetyStore) VolunteersWithin(ctx context.Context, box schema.BoundingBox) ([]schema.Volunteer, error) {
	if s.mongo == nil {
		return []schema.Volunteer{}, nil
	}
	return s.mongo.VolunteersWithin(ctx, box)
}
