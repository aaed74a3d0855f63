package crowd

import (
	"math"

	"github.com/guardknight/guardknight-api/schema"
)

// device count bands per tier
const (
	mediumDevices   = 30
	highDevices     = 60
	criticalDevices = 90
	bandWidth       = 30
)

type tierBand struct {
	tier     schema.DensityTier
	minCount int
	minRisk  float64
	maxRisk  float64
}

var tierBands = []tierBand{
	{schema.DensityCritical, criticalDevices, 80, 100},
	{schema.DensityHigh, highDevices, 50, 80},
	{schema.DensityMedium, mediumDevices, 20, 50},
	{schema.DensityLow, 0, 0, 20},
}

// TotalDevices sums both radios, treating negative readings as zero.
func TotalDevices(c schema.DeviceCount) int {
	total := 0
	if c.WifiVisible > 0 {
		total += c.WifiVisible
	}
	if c.BluetoothVisible > 0 {
		total += c.BluetoothVisible
	}
	return total
}

// EstimatePeople converts a device total into a head count.
func EstimatePeople(total int, factor float64) int {
	if total <= 0 || factor <= 0 {
		return 0
	}
	// epsilon absorbs the representation error of factors like 0.7
	return int(math.Floor(float64(total)*factor + 1e-9))
}

// Classify maps a device total onto its density tier and bottleneck risk.
// Risk grows linearly through each tier's band and saturates at 100.
func Classify(total int) (schema.DensityTier, float64) {
	if total < 0 {
		total = 0
	}

	for _, b := range tierBands {
		if total < b.minCount {
			continue
		}
		fraction := float64(total-b.minCount) / bandWidth
		if fraction > 1 {
			fraction = 1
		}
		return b.tier, b.minRisk + fraction*(b.maxRisk-b.minRisk)
	}

	// unreachable, the Low band starts at zero
	return schema.DensityLow, 0
}
