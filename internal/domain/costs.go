package domain

// Operator-supplied cost rates. These are domain inputs, not derived:
// the objective weights distance cost by vehicle type, a fixed usage cost
// per dispatched vehicle, and labor per operator-hour.
type CostRates struct {
	DistancePerKm   map[VehicleType]float64
	FixedPerVehicle float64
	LaborPerHour    float64
}

// PerKm returns the distance rate for a vehicle type, falling back to the
// ground rate when the type has no explicit entry.
func (c CostRates) PerKm(t VehicleType) float64 {
	if r, ok := c.DistancePerKm[t]; ok {
		return r
	}
	return c.DistancePerKm[VehicleGround]
}
