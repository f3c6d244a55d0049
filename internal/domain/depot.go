package domain

// A depot where routes start and end. The opening-hours interval bounds
// vehicle departure and return times.
type Depot struct {
	DepotID    int
	Code       string
	LocationID string
	Coord      Coordinates
	Hours      TimeWindow
}
