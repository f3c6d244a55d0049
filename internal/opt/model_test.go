package opt

import (
	"testing"

	"fleet-route-planner/internal/domain"
)

func TestBuildModelDimensions(t *testing.T) {
	inst := tinyInstance(t)

	rm, err := buildModel(inst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One vehicle, three clients: depot->client and client->depot arcs for
	// each client, plus every ordered client pair.
	wantArcs := 3 + 3 + 3*2
	if len(rm.arcs) != wantArcs {
		t.Errorf("arcs = %d, want %d", len(rm.arcs), wantArcs)
	}

	if len(rm.arrival) != len(inst.Clients) || len(rm.load) != len(inst.Clients) {
		t.Errorf("arrival/load vars = %d/%d, want %d each", len(rm.arrival), len(rm.load), len(inst.Clients))
	}
	if len(rm.depart) != len(inst.Vehicles) || len(rm.ret) != len(inst.Vehicles) {
		t.Errorf("depart/return vars = %d/%d, want %d each", len(rm.depart), len(rm.ret), len(inst.Vehicles))
	}

	// Every arc has a routing variable.
	for _, a := range rm.arcs {
		if rm.x.Get(a) == nil {
			t.Fatalf("arc %s has no routing variable", a.ID())
		}
	}
}

func TestBuildModelScalesWithFleet(t *testing.T) {
	inst := tinyInstance(t)
	inst.Vehicles = append(inst.Vehicles, domain.Vehicle{
		VehicleID: 2, CapacityKg: 50, RangeKm: 180, Type: domain.VehicleGround,
	})

	rm, err := buildModel(inst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := 2 * (3 + 3 + 3*2); len(rm.arcs) != want {
		t.Errorf("arcs = %d, want %d", len(rm.arcs), want)
	}
	if len(rm.depart) != 2 {
		t.Errorf("depart vars = %d, want 2", len(rm.depart))
	}
}

func TestBuildModelNeedsMatrixForEachMode(t *testing.T) {
	inst := tinyInstance(t)
	inst.Vehicles = append(inst.Vehicles, domain.Vehicle{
		VehicleID: 9, CapacityKg: 8, RangeKm: 25, SpeedKmh: 120, Type: domain.VehicleDrone,
	})
	// No air matrix for the drone.

	if _, err := buildModel(inst); err == nil {
		t.Fatal("expected error for an aerial vehicle without an air matrix")
	}
}
