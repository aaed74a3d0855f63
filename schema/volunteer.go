package schema

const (
	VolunteerCollection = "volunteers"
)

type Availability string

const (
	VolunteerAvailable  Availability = "available"
	VolunteerResponding Availability = "responding"
	VolunteerBusy       Availability = "busy"
)

// Volunteer is a read-only directory record. DistanceKm is relative to the
// query that returned it.
type Volunteer struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Location     LocationSample `json:"location" yaml:"location"`
	DistanceKm   float64        `json:"distance" yaml:"-"`
	Availability Availability   `json:"status" yaml:"status"`
	Skills       []string       `json:"skills" yaml:"skills"`
	Rating       float64        `json:"rating" yaml:"rating"`
	Language     string         `json:"language,omitempty" yaml:"language"`
}
