package utils

const (
	HospitalPlace    = "hospital"
	PharmacyPlace    = "pharmacy"
	PolicePlace      = "police"
	FireStationPlace = "fire_station"
	ShelterPlace     = "shelter"
	UnknownPlace     = "unknown"
)

// ReadPlaceType returns the emergency category of a place by analyzing a
// list of given google place types or osm amenity values
func ReadPlaceType(types []string) string {
	health := false
	for _, t := range types {
		switch t {
		case "health":
			health = true
		case "hospital", "doctor", "doctors", "clinic":
			return HospitalPlace
		case "pharmacy", "drugstore":
			return PharmacyPlace
		case "police":
			return PolicePlace
		case "fire_station":
			return FireStationPlace
		case "shelter", "emergency_shelter", "assembly_point":
			return ShelterPlace
		}
	}

	if health {
		return HospitalPlace
	}
	return UnknownPlace
}
