package crowd

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/guardknight/guardknight-api/schema"
)

const (
	logPrefix = "crowd"

	defaultInterval              = 3 * time.Second
	defaultPeopleCorrection      = 0.7
	defaultHighCapacityThreshold = 60
	defaultBottleneckCountdown   = 180 * time.Second
)

var (
	ErrInvalidIssue      = fmt.Errorf("invalid crowd issue")
	ErrNoIssueReporter   = fmt.Errorf("no issue reporter configured")
	errNoLocationForTick = fmt.Errorf("no location for tick")
)

type Config struct {
	Interval               time.Duration `mapstructure:"interval"`
	PeopleCorrectionFactor float64       `mapstructure:"people_correction_factor"`
	HighCapacityThreshold  int           `mapstructure:"high_capacity_threshold"`
	BottleneckCountdown    time.Duration `mapstructure:"bottleneck_countdown"`
}

func DefaultConfig() Config {
	return Config{
		Interval:               defaultInterval,
		PeopleCorrectionFactor: defaultPeopleCorrection,
		HighCapacityThreshold:  defaultHighCapacityThreshold,
		BottleneckCountdown:    defaultBottleneckCountdown,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.PeopleCorrectionFactor <= 0 {
		c.PeopleCorrectionFactor = d.PeopleCorrectionFactor
	}
	if c.HighCapacityThreshold <= 0 {
		c.HighCapacityThreshold = d.HighCapacityThreshold
	}
	if c.BottleneckCountdown <= 0 {
		c.BottleneckCountdown = d.BottleneckCountdown
	}
	return c
}

// IssueReporter forwards user reported crowd issues to whoever handles them.
type IssueReporter interface {
	ReportCrowdIssue(ctx context.Context, issue schema.CrowdIssue) error
}

type Option func(*Monitor)

func WithIssueReporter(r IssueReporter) Option {
	return func(m *Monitor) {
		m.reporter = r
	}
}

// Monitor periodically samples device counts and turns them into crowd
// snapshots. It is either idle or running one sampling loop.
type Monitor struct {
	provider DeviceCountProvider
	locator  Locator
	reporter IssueReporter
	config   Config
	scope    tally.Scope
	now      func() time.Time

	mu          sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
	latest      schema.CrowdSnapshot
	hasLatest   bool
	activated   bool
	activatedAt time.Time
	lastFix     schema.LocationSample
	hasFix      bool
}

func NewMonitor(provider DeviceCountProvider, locator Locator, config Config, scope tally.Scope, opts ...Option) *Monitor {
	if scope == nil {
		scope = tally.NoopScope
	}

	m := &Monitor{
		provider: provider,
		locator:  locator,
		config:   config.withDefaults(),
		scope:    scope.SubScope("crowd"),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// StartMonitoring starts the sampling loop and returns true, or returns false
// when a loop is already running. callback runs on the loop goroutine and
// must not call StopMonitoring.
func (m *Monitor) StartMonitoring(callback func(schema.CrowdSnapshot)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.activated = false
	m.activatedAt = time.Time{}

	go m.loop(ctx, callback, m.done)

	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"interval": m.config.Interval,
	}).Info("start crowd monitoring")

	return true
}

// StopMonitoring stops the loop and waits for it to exit. It is safe to call
// while idle.
func (m *Monitor) StopMonitoring() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	log.WithField("prefix", logPrefix).Info("stop crowd monitoring")
}

// Running reports whether the sampling loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

func (m *Monitor) loop(ctx context.Context, callback func(schema.CrowdSnapshot), done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		if snapshot, err := m.tick(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.scope.Counter("tick_failures").Inc(1)
			log.WithFields(log.Fields{
				"prefix": logPrefix,
				"error":  err,
			}).Warn("crowd tick failed")
		} else if callback != nil {
			callback(snapshot)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *Monitor) tick(ctx context.Context) (schema.CrowdSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, m.config.Interval)
	defer cancel()

	location, err := m.locate(ctx)
	if err != nil {
		return schema.CrowdSnapshot{}, err
	}

	var count schema.DeviceCount
	if lp, ok := m.provider.(LocalizedDeviceCountProvider); ok && m.locator != nil {
		count, err = lp.SampleAt(ctx, location.Latitude, location.Longitude)
	} else {
		count, err = m.provider.Sample(ctx)
	}
	if err != nil {
		return schema.CrowdSnapshot{}, err
	}

	now := m.now()
	snapshot := m.snapshot(count, location, now)

	m.mu.Lock()
	if !m.activated && snapshot.TotalDevices >= m.config.HighCapacityThreshold {
		m.activated = true
		m.activatedAt = now
		snapshot.AutoActivated = true
		m.scope.Counter("auto_escalations").Inc(1)
		log.WithFields(log.Fields{
			"prefix":  logPrefix,
			"devices": snapshot.TotalDevices,
		}).Warn("high capacity detected, crowd mode auto activated")
	}
	m.latest = snapshot
	m.hasLatest = true
	m.mu.Unlock()

	m.scope.Counter("ticks").Inc(1)
	m.scope.Gauge("total_devices").Update(float64(snapshot.TotalDevices))
	m.scope.Gauge("bottleneck_risk").Update(snapshot.BottleneckRiskPercent)

	return snapshot, nil
}

// locate returns a fresh fix, the last good one when the fix fails, or the
// zero location when the monitor has no locator.
func (m *Monitor) locate(ctx context.Context) (schema.LocationSample, error) {
	if m.locator == nil {
		return schema.LocationSample{}, nil
	}

	loc, err := m.locator.GetCurrentLocation(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		m.lastFix = loc
		m.hasFix = true
		return loc, nil
	}

	if m.hasFix {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Debug("location failed, use last good fix")
		return m.lastFix, nil
	}

	return schema.LocationSample{}, fmt.Errorf("%w: %s", errNoLocationForTick, err)
}

func (m *Monitor) snapshot(count schema.DeviceCount, location schema.LocationSample, now time.Time) schema.CrowdSnapshot {
	total := TotalDevices(count)
	tier, risk := Classify(total)

	return schema.CrowdSnapshot{
		WifiCount:             count.WifiVisible,
		BluetoothCount:        count.BluetoothVisible,
		TotalDevices:          total,
		EstimatedPeople:       EstimatePeople(total, m.config.PeopleCorrectionFactor),
		DensityTier:           tier,
		BottleneckRiskPercent: risk,
		Location:              location,
		CapturedAt:            now.UnixNano() / int64(time.Millisecond),
	}
}

// Latest returns the most recent snapshot, if any tick has succeeded.
func (m *Monitor) Latest() (schema.CrowdSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, m.hasLatest
}

// Escalation reports the auto activation state and the remaining bottleneck
// countdown.
func (m *Monitor) Escalation() schema.Escalation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.activated {
		return schema.Escalation{}
	}

	remaining := m.config.BottleneckCountdown - m.now().Sub(m.activatedAt)
	if remaining < 0 {
		remaining = 0
	}

	return schema.Escalation{
		Activated:           true,
		ActivatedAt:         m.activatedAt.UnixNano() / int64(time.Millisecond),
		BottleneckCountdown: remaining,
	}
}

// ReportIssue forwards a user reported crowd problem at location.
func (m *Monitor) ReportIssue(ctx context.Context, location schema.LocationSample, issueType, description string) error {
	if issueType == "" {
		return ErrInvalidIssue
	}

	if m.reporter == nil {
		return ErrNoIssueReporter
	}

	issue := schema.CrowdIssue{
		Type:        issueType,
		Description: description,
		Location:    location,
		ReportedAt:  m.now().UnixNano() / int64(time.Millisecond),
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"type":   issueType,
		"lat":    location.Latitude,
		"lng":    location.Longitude,
	}).Info("crowd issue reported")

	if err := m.reporter.ReportCrowdIssue(ctx, issue); err != nil {
		m.scope.Counter("issue_report_failures").Inc(1)
		return err
	}

	return nil
}
