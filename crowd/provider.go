package crowd

import (
	"context"
	"math/rand"
	"sync"

	"github.com/guardknight/guardknight-api/schema"
)

// DeviceCountProvider samples the wifi and bluetooth devices visible around
// the sensor.
type DeviceCountProvider interface {
	Sample(ctx context.Context) (schema.DeviceCount, error)
}

// LocalizedDeviceCountProvider can sample at an arbitrary point, e.g. a grid
// of fixed scanners.
type LocalizedDeviceCountProvider interface {
	DeviceCountProvider
	SampleAt(ctx context.Context, lat, lng float64) (schema.DeviceCount, error)
}

// Locator supplies the position a sample is attributed to.
type Locator interface {
	GetCurrentLocation(ctx context.Context) (schema.LocationSample, error)
}

const (
	simulatedWifiBaseline      = 35
	simulatedWifiSpread        = 15
	simulatedBluetoothBaseline = 20
	simulatedBluetoothSpread   = 10
)

// SimulatedDeviceCountProvider generates plausible counts for development
// hosts without a radio scanner.
type SimulatedDeviceCountProvider struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulatedDeviceCountProvider(seed int64) *SimulatedDeviceCountProvider {
	return &SimulatedDeviceCountProvider{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

func (s *SimulatedDeviceCountProvider) Sample(ctx context.Context) (schema.DeviceCount, error) {
	if err := ctx.Err(); err != nil {
		return schema.DeviceCount{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return schema.DeviceCount{
		WifiVisible:      simulatedWifiBaseline + s.rnd.Intn(2*simulatedWifiSpread+1) - simulatedWifiSpread,
		BluetoothVisible: simulatedBluetoothBaseline + s.rnd.Intn(2*simulatedBluetoothSpread+1) - simulatedBluetoothSpread,
	}, nil
}
