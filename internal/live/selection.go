package live

import "github.com/Pa-nts/topperbus/internal/nextbus"

// SelectionKind discriminates what, if anything, the rider has open in the
// detail panel.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionStop
	SelectionVehicle
	SelectionBuilding
)

// Building is a campus building a rider can select as a walking target.
type Building struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Selection is the single selected entity. Exactly one detail panel can be
// open at a time, so selecting any entity replaces the previous selection;
// only the field matching Kind is meaningful.
type Selection struct {
	Kind     SelectionKind
	Stop     nextbus.Stop
	Vehicle  nextbus.VehicleLocation
	Building Building
}

// NoSelection is the cleared state.
var NoSelection = Selection{Kind: SelectionNone}

func StopSelection(stop nextbus.Stop) Selection {
	return Selection{Kind: SelectionStop, Stop: stop}
}

func VehicleSelection(vehicle nextbus.VehicleLocation) Selection {
	return Selection{Kind: SelectionVehicle, Vehicle: vehicle}
}

func BuildingSelection(building Building) Selection {
	return Selection{Kind: SelectionBuilding, Building: building}
}
