package buildconfig

import (
	"path"
	"path/filepath"
)

// binaryNames maps a vehicle target to the firmware binary that the build
// produces under build/<board>/bin/.
var binaryNames = map[string]string{
	"copter":         "arducopter",
	"heli":           "arducopter-heli",
	"plane":          "arduplane",
	"rover":          "ardurover",
	"sub":            "ardusub",
	"antennatracker": "antennatracker",
	"blimp":          "blimp",
	"AP_Periph":      "AP_Periph",
}

// BinaryPathFor returns the workspace-relative path of the firmware image
// built for the given board and vehicle, or "" for an unknown vehicle.
func BinaryPathFor(board, vehicle string) string {
	name, ok := binaryNames[vehicle]
	if !ok {
		return ""
	}
	return filepath.Join("build", board, "bin", name)
}

// VehicleFromPath is the reverse of BinaryPathFor: it recovers the vehicle
// target from a firmware binary path, or "" when the binary is unknown.
func VehicleFromPath(binaryPath string) string {
	base := path.Base(filepath.ToSlash(binaryPath))
	for vehicle, name := range binaryNames {
		if name == base {
			return vehicle
		}
	}
	return ""
}

// Vehicles returns the known vehicle targets.
func Vehicles() []string {
	out := make([]string, 0, len(binaryNames))
	for v := range binaryNames {
		out = append(out, v)
	}
	return out
}
