package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/schema"
)

const (
	alertLogPrefix = "alert-store"
	alertChannel   = "emergency_alerts"
)

var (
	ErrAlertNotExist       = fmt.Errorf("alert not exist: %w", emergency.ErrAlertNotFound)
	ErrAlertStatusConflict = fmt.Errorf("alert status has been changed: %w", emergency.ErrStatusConflict)
)

type ownerRow struct {
	OwnerID string `gorm:"column:owner_id"`
}

// notifyOwner wakes up the subscribers of an owner once tx commits.
func notifyOwner(tx *gorm.DB, ownerID string) error {
	return tx.Exec("SELECT pg_notify(?, ?)", alertChannel, ownerID).Error
}

// missingOrConflict tells why a conditional update touched no row.
func missingOrConflict(tx *gorm.DB, id string) error {
	var count int
	if err := tx.Model(&schema.EmergencyAlert{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrAlertNotExist
	}
	return ErrAlertStatusConflict
}

// CreateAlert inserts the alert and returns its id.
func (s *SafetyStore) CreateAlert(ctx context.Context, alert *schema.EmergencyAlert) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}

	if err := s.ormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(alert).Error; err != nil {
			return err
		}
		return notifyOwner(tx, alert.OwnerID)
	}); err != nil {
		log.WithFields(log.Fields{
			"prefix":   alertLogPrefix,
			"alert_id": alert.ID,
			"error":    err,
		}).Error("insert alert")
		return "", err
	}

	return alert.ID, nil
}

func (s *SafetyStore) GetAlert(ctx context.Context, id string) (*schema.EmergencyAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAlertNotExist
	}

	var alert schema.EmergencyAlert
	if err := s.ormDB.Where("id = ?", id).First(&alert).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrAlertNotExist
		}
		return nil, err
	}

	return &alert, nil
}

// UpdateAlertStatus changes the status only if it is still from. A concurrent
// change makes it fail with ErrAlertStatusConflict.
func (s *SafetyStore) UpdateAlertStatus(ctx context.Context, id string, from, to schema.AlertStatus, resolution schema.Resolution) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := uuid.Parse(id); err != nil {
		return ErrAlertNotExist
	}

	return s.ormDB.Transaction(func(tx *gorm.DB) error {
		var row ownerRow
		err := tx.Raw(
			`UPDATE emergency_alerts SET status = ?, resolution = ?
			WHERE id = ? AND status = ?
			RETURNING owner_id`,
			to, resolution, id, from,
		).Scan(&row).Error
		if gorm.IsRecordNotFoundError(err) {
			return missingOrConflict(tx, id)
		}
		if err != nil {
			return err
		}

		return notifyOwner(tx, row.OwnerID)
	})
}

// AddResponder appends volunteerID to the responders of an unresolved alert.
// Adding the same volunteer twice keeps a single entry.
func (s *SafetyStore) AddResponder(ctx context.Context, id, volunteerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := uuid.Parse(id); err != nil {
		return ErrAlertNotExist
	}

	return s.ormDB.Transaction(func(tx *gorm.DB) error {
		var row ownerRow
		err := tx.Raw(
			`UPDATE emergency_alerts SET responding_volunteer_ids = CASE
				WHEN ? = ANY(coalesce(responding_volunteer_ids, '{}')) THEN responding_volunteer_ids
				ELSE array_append(coalesce(responding_volunteer_ids, '{}'), ?)
			END
			WHERE id = ? AND status <> ?
			RETURNING owner_id`,
			volunteerID, volunteerID, id, schema.AlertResolved,
		).Scan(&row).Error
		if gorm.IsRecordNotFoundError(err) {
			return missingOrConflict(tx, id)
		}
		if err != nil {
			return err
		}

		return notifyOwner(tx, row.OwnerID)
	})
}

// ListOwnerAlerts returns the latest alerts of an owner, newest first.
func (s *SafetyStore) ListOwnerAlerts(ctx context.Context, ownerID string, limit int) ([]schema.EmergencyAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	alerts := []schema.EmergencyAlert{}
	if err := s.ormDB.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error; err != nil {
		return nil, err
	}

	return alerts, nil
}

// ownerFeed hands out owner snapshots in read order. A read that started
// before an already delivered one is dropped.
type ownerFeed struct {
	list    func(ctx context.Context) ([]schema.EmergencyAlert, error)
	deliver func([]schema.EmergencyAlert)

	mu        sync.Mutex
	issued    uint64
	delivered uint64
}

func (f *ownerFeed) push(ctx context.Context) error {
	f.mu.Lock()
	f.issued++
	seq := f.issued
	f.mu.Unlock()

	alerts, err := f.list(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq < f.delivered {
		return nil
	}
	f.delivered = seq
	f.deliver(alerts)
	return nil
}

// SubscribeOwnerAlerts delivers the latest alerts of an owner now and again
// after every change to them, until the returned func is called or ctx ends.
func (s *SafetyStore) SubscribeOwnerAlerts(ctx context.Context, ownerID string, limit int, onSnapshot func([]schema.EmergencyAlert)) (func(), error) {
	feed := &ownerFeed{
		list: func(ctx context.Context) ([]schema.EmergencyAlert, error) {
			return s.ListOwnerAlerts(ctx, ownerID, limit)
		},
		deliver: onSnapshot,
	}

	refresh := func() {
		if err := feed.push(context.Background()); err != nil {
			log.WithFields(log.Fields{
				"prefix": alertLogPrefix,
				"owner":  ownerID,
				"error":  err,
			}).Warn("refresh owner alerts")
		}
	}

	// register before the first read so no change between the two is missed
	id, err := s.hub.subscribe(ownerID, refresh)
	if err != nil {
		return nil, err
	}

	if err := feed.push(ctx); err != nil {
		s.hub.unsubscribe(ownerID, id)
		return nil, err
	}

	stop := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(stop)
			s.hub.unsubscribe(ownerID, id)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-stop:
		}
	}()

	return cancel, nil
}
