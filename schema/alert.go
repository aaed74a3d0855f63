package schema

import (
	"github.com/lib/pq"
)

type AlertKind string

const (
	AlertSOS     AlertKind = "sos"
	AlertMedical AlertKind = "medical"
	AlertFire    AlertKind = "fire"
	AlertPolice  AlertKind = "police"
	AlertGeneral AlertKind = "general"
)

// Valid reports whether the kind is one of the known alert kinds.
func (k AlertKind) Valid() bool {
	switch k {
	case AlertSOS, AlertMedical, AlertFire, AlertPolice, AlertGeneral:
		return true
	}
	return false
}

type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertResponded AlertStatus = "responded"
	AlertResolved  AlertStatus = "resolved"
)

// Resolution tells how a resolved alert got there.
type Resolution string

const (
	ResolutionNone       Resolution = ""
	ResolutionResolved   Resolution = "resolved"
	ResolutionFalseAlarm Resolution = "false_alarm"
)

// EmergencyAlert is never deleted; it is only superseded by a resolved state.
type EmergencyAlert struct {
	ID                     string         `json:"id" gorm:"type:uuid;primary_key"`
	OwnerID                string         `json:"user_id" gorm:"column:owner_id;index"`
	Kind                   AlertKind      `json:"type"`
	Location               LocationSample `json:"location" gorm:"embedded;embedded_prefix:location_"`
	Address                string         `json:"address"`
	CreatedAt              int64          `json:"timestamp" gorm:"index"`
	Status                 AlertStatus    `json:"status" sql:"default:'active'"`
	Resolution             Resolution     `json:"resolution,omitempty"`
	RespondingVolunteerIDs pq.StringArray `json:"responders" gorm:"column:responding_volunteer_ids;type:text[]"`
	Message                string         `json:"message,omitempty"`
}

// TableName pins the gorm table name.
func (EmergencyAlert) TableName() string {
	return "emergency_alerts"
}

// Summary is what notification collaborators receive about an alert.
func (a EmergencyAlert) Summary() AlertSummary {
	return AlertSummary{
		AlertID:   a.ID,
		Kind:      a.Kind,
		Address:   a.Address,
		Message:   a.Message,
		Latitude:  a.Location.Latitude,
		Longitude: a.Location.Longitude,
		CreatedAt: a.CreatedAt,
	}
}

// AlertSummary is the notification payload of an alert.
type AlertSummary struct {
	AlertID    string    `json:"alert_id"`
	Kind       AlertKind `json:"type"`
	Address    string    `json:"address"`
	Message    string    `json:"message,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  int64     `json:"timestamp"`
	DistanceKm float64   `json:"distance,omitempty"`
	Language   string    `json:"-"`
}
