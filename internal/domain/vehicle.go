package domain

import "fmt"

// VehicleType tags how a vehicle travels and which cost rate applies.
type VehicleType string

const (
	VehicleGround VehicleType = "ground"
	VehicleDrone  VehicleType = "drone"
)

// Mode returns the travel mode for the vehicle type.
func (t VehicleType) Mode() TravelMode {
	if t == VehicleDrone {
		return ModeAir
	}
	return ModeRoad
}

// A delivery vehicle. Speed is meaningful for aerial vehicles only;
// ground vehicles take their travel times from the road matrix.
type Vehicle struct {
	VehicleID  int
	CapacityKg int
	RangeKm    float64
	SpeedKmh   float64
	Type       VehicleType
}

// DisplayID returns the vehicle code used in solution files, e.g. "VEH3".
func (v Vehicle) DisplayID() string {
	return fmt.Sprintf("VEH%d", v.VehicleID)
}
