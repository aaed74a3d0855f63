package crowd

import (
	"context"
	"iter"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/schema"
)

const (
	DefaultGridSize = 20

	heatmapNoiseWeight  = 0.5
	heatmapNoiseDevices = 90.0
	heatmapMinIntensity = 0.1
)

// GenerateHeatmap lazily yields the points of a gridSize x gridSize lattice
// spanning radiusDegrees around center whose intensity exceeds 0.1.
// Intensity falls off linearly with planar degree distance from the center
// and is raised by the current device count. A localized provider is sampled
// per point, any other provider once per heatmap.
func (m *Monitor) GenerateHeatmap(ctx context.Context, center schema.LocationSample, radiusDegrees float64, gridSize int) iter.Seq[schema.HeatmapPoint] {
	return func(yield func(schema.HeatmapPoint) bool) {
		if radiusDegrees <= 0 {
			return
		}
		if gridSize <= 0 {
			gridSize = DefaultGridSize
		}

		lp, localized := m.provider.(LocalizedDeviceCountProvider)

		var noise float64
		if !localized {
			noise = m.heatmapNoise(ctx, m.provider.Sample)
		}

		step := 2 * radiusDegrees / float64(gridSize)
		for i := 0; i < gridSize; i++ {
			lat := center.Latitude - radiusDegrees + step*float64(i)
			for j := 0; j < gridSize; j++ {
				if ctx.Err() != nil {
					return
				}

				lng := center.Longitude - radiusDegrees + step*float64(j)
				dLat := lat - center.Latitude
				dLng := lng - center.Longitude
				d := math.Sqrt(dLat*dLat + dLng*dLng)
				base := math.Max(0, 1-d/radiusDegrees)

				if localized {
					noise = m.heatmapNoise(ctx, func(ctx context.Context) (schema.DeviceCount, error) {
						return lp.SampleAt(ctx, lat, lng)
					})
				}

				intensity := math.Min(1, base+noise)
				if intensity <= heatmapMinIntensity {
					continue
				}

				if !yield(schema.HeatmapPoint{Latitude: lat, Longitude: lng, Intensity: intensity}) {
					return
				}
			}
		}
	}
}

func (m *Monitor) heatmapNoise(ctx context.Context, sample func(context.Context) (schema.DeviceCount, error)) float64 {
	count, err := sample(ctx)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Warn("heatmap sample failed, no noise applied")
		return 0
	}

	return heatmapNoiseWeight * math.Min(1, float64(TotalDevices(count))/heatmapNoiseDevices)
}
