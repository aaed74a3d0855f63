package emergency

import (
	"context"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/schema"
)

// Subscription is a live view of an owner's most recent alerts.
type Subscription struct {
	mu        sync.Mutex
	cancelled bool
	cancel    func()
	once      sync.Once
}

// Cancel stops the subscription. No callback runs once Cancel returns.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.mu.Lock()
		s.cancelled = true
		cancel := s.cancel
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
	})
}

// Subscribe delivers the owner's latest alerts, newest first and limited to
// the configured size, every time the store reports a change.
func (m *Manager) Subscribe(ctx context.Context, ownerID string, callback func([]schema.EmergencyAlert)) (*Subscription, error) {
	limit := m.config.SubscriptionLimit
	s := &Subscription{}

	cancel, err := m.store.SubscribeOwnerAlerts(ctx, ownerID, limit, func(alerts []schema.EmergencyAlert) {
		shaped := shapeSnapshot(alerts, limit)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.cancelled {
			return
		}
		callback(shaped)
	})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"owner":  ownerID,
			"error":  err,
		}).Error("subscribe owner alerts")
		return nil, m.storeError(err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	return s, nil
}

func shapeSnapshot(alerts []schema.EmergencyAlert, limit int) []schema.EmergencyAlert {
	shaped := make([]schema.EmergencyAlert, len(alerts))
	copy(shaped, alerts)

	sort.SliceStable(shaped, func(i, j int) bool {
		return shaped[i].CreatedAt > shaped[j].CreatedAt
	})

	if len(shaped) > limit {
		shaped = shaped[:limit]
	}
	return shaped
}
