package schema

import "time"

// DensityTier is the discrete crowd density classification.
type DensityTier string

const (
	DensityLow      DensityTier = "Low"
	DensityMedium   DensityTier = "Medium"
	DensityHigh     DensityTier = "High"
	DensityCritical DensityTier = "Critical"
)

// Rank orders tiers from Low (0) to Critical (3). Unknown tiers rank -1.
func (d DensityTier) Rank() int {
	switch d {
	case DensityLow:
		return 0
	case DensityMedium:
		return 1
	case DensityHigh:
		return 2
	case DensityCritical:
		return 3
	}
	return -1
}

// DeviceCount is one ambient device presence sample.
type DeviceCount struct {
	WifiVisible      int `json:"wifi"`
	BluetoothVisible int `json:"bluetooth"`
}

// CrowdSnapshot is produced once per monitoring tick and superseded by the
// next one.
type CrowdSnapshot struct {
	WifiCount             int            `json:"wifi_devices"`
	BluetoothCount        int            `json:"bluetooth_devices"`
	TotalDevices          int            `json:"total_devices"`
	EstimatedPeople       int            `json:"estimated_people"`
	DensityTier           DensityTier    `json:"density"`
	BottleneckRiskPercent float64        `json:"bottleneck_risk"`
	Location              LocationSample `json:"location"`
	CapturedAt            int64          `json:"captured_at"`
	AutoActivated         bool           `json:"auto_activated"`
}

// Escalation is the one-shot high capacity state of a monitor.
type Escalation struct {
	Activated           bool          `json:"activated"`
	ActivatedAt         int64         `json:"activated_at,omitempty"`
	BottleneckCountdown time.Duration `json:"bottleneck_countdown"`
}

// HeatmapPoint is a disposable grid sample of crowd intensity.
type HeatmapPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

// CrowdIssue is a user report of a crowd problem, e.g. a blocked exit.
type CrowdIssue struct {
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Location    LocationSample `json:"location"`
	ReportedAt  int64          `json:"timestamp"`
}
