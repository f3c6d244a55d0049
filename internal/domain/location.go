package domain

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// A named point on the map referenced by clients and depots.
// Locations are loaded once and never mutated.
type Location struct {
	ID    string
	Coord Coordinates
}

// TravelMode selects how distances between locations are measured.
type TravelMode string

const (
	// ModeRoad follows the road network (ground vehicles).
	ModeRoad TravelMode = "road"
	// ModeAir is straight-line great-circle travel (aerial vehicles).
	ModeAir TravelMode = "air"
)
