package geo

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/external/mqttbus"
	"github.com/guardknight/guardknight-api/schema"
)

const defaultMaximumFixAge = 60 * time.Second

// MQTTPositioning follows a device that publishes its fixes on a topic.
type MQTTPositioning struct {
	maxAge time.Duration
	now    func() time.Time

	mu       sync.Mutex
	latest   schema.LocationSample
	received bool
	waiters  []chan schema.LocationSample
	nextID   int
	watchers map[string]func(schema.LocationSample)
}

// NewMQTTPositioning subscribes to topic on bus. A cached fix younger than
// maxAge is served without waiting for the device.
func NewMQTTPositioning(bus mqttbus.Bus, topic string, maxAge time.Duration) (*MQTTPositioning, error) {
	p := newMQTTPositioning(maxAge)
	if err := bus.Subscribe(topic, p.HandleMessage); err != nil {
		return nil, err
	}
	return p, nil
}

func newMQTTPositioning(maxAge time.Duration) *MQTTPositioning {
	if maxAge <= 0 {
		maxAge = defaultMaximumFixAge
	}
	return &MQTTPositioning{
		maxAge:   maxAge,
		now:      time.Now,
		watchers: make(map[string]func(schema.LocationSample)),
	}
}

// HandleMessage decodes one device fix and fans it out.
func (p *MQTTPositioning) HandleMessage(topic string, payload []byte) {
	var s schema.LocationSample
	if err := json.Unmarshal(payload, &s); err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"topic":  topic,
			"error":  err,
		}).Warn("decode location payload")
		return
	}

	if s.CapturedAt == 0 {
		s = schema.NewLocationSample(s.Latitude, s.Longitude, s.AccuracyMeters, p.now())
	}

	p.mu.Lock()
	p.latest = s
	p.received = true
	waiters := p.waiters
	p.waiters = nil
	watchers := make([]func(schema.LocationSample), 0, len(p.watchers))
	for _, w := range p.watchers {
		watchers = append(watchers, w)
	}
	p.mu.Unlock()

	for _, w := range waiters {
		w <- s
	}
	for _, w := range watchers {
		w(s)
	}
}

func (p *MQTTPositioning) GetFix(ctx context.Context, timeout time.Duration) (schema.LocationSample, error) {
	p.mu.Lock()
	if p.received && p.now().Sub(p.latest.Time()) <= p.maxAge {
		s := p.latest
		p.mu.Unlock()
		return s, nil
	}
	w := make(chan schema.LocationSample, 1)
	p.waiters = append(p.waiters, w)
	p.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s := <-w:
		return s, nil
	case <-timer.C:
		p.removeWaiter(w)
		return schema.LocationSample{}, ErrLocationTimeout
	case <-ctx.Done():
		p.removeWaiter(w)
		return schema.LocationSample{}, ctx.Err()
	}
}

func (p *MQTTPositioning) removeWaiter(w chan schema.LocationSample) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, c := range p.waiters {
		if c == w {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return
		}
	}
}

// Watch forwards every received fix. Rate limiting and accuracy filtering
// are left to the tracker.
func (p *MQTTPositioning) Watch(_ context.Context, _ time.Duration, _ float64, onSample func(schema.LocationSample)) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	id := "mqtt-" + strconv.Itoa(p.nextID)
	p.watchers[id] = onSample
	return id, nil
}

func (p *MQTTPositioning) ClearWatch(watchID string) {
	p.mu.Lock()
	delete(p.watchers, watchID)
	p.mu.Unlock()
}
