package crowd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/external/mqttbus"
	"github.com/guardknight/guardknight-api/schema"
)

const defaultMaxSampleAge = 10 * time.Second

var (
	ErrNoSample    = fmt.Errorf("no device count received")
	ErrStaleSample = fmt.Errorf("device count is stale")
)

// MQTTDeviceCountProvider caches the latest count a radio scanner published.
type MQTTDeviceCountProvider struct {
	maxAge time.Duration
	now    func() time.Time

	mu         sync.RWMutex
	latest     schema.DeviceCount
	receivedAt time.Time
}

func NewMQTTDeviceCountProvider(bus mqttbus.Bus, topic string, maxAge time.Duration) (*MQTTDeviceCountProvider, error) {
	p := newMQTTDeviceCountProvider(maxAge)
	if err := bus.Subscribe(topic, p.HandleMessage); err != nil {
		return nil, err
	}
	return p, nil
}

func newMQTTDeviceCountProvider(maxAge time.Duration) *MQTTDeviceCountProvider {
	if maxAge <= 0 {
		maxAge = defaultMaxSampleAge
	}
	return &MQTTDeviceCountProvider{
		maxAge: maxAge,
		now:    time.Now,
	}
}

func (p *MQTTDeviceCountProvider) HandleMessage(topic string, payload []byte) {
	var c schema.DeviceCount
	if err := json.Unmarshal(payload, &c); err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"topic":  topic,
			"error":  err,
		}).Warn("decode device count payload")
		return
	}

	p.mu.Lock()
	p.latest = c
	p.receivedAt = p.now()
	p.mu.Unlock()
}

func (p *MQTTDeviceCountProvider) Sample(_ context.Context) (schema.DeviceCount, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.receivedAt.IsZero() {
		return schema.DeviceCount{}, ErrNoSample
	}

	if p.now().Sub(p.receivedAt) > p.maxAge {
		return schema.DeviceCount{}, ErrStaleSample
	}

	return p.latest, nil
}
