package pipeline

import (
	"math"

	"tk905-svr/internal/codec"
)

// UsableCoords reports whether the position carries coordinates worth
// storing: both present and finite, in range, and not the (0,0) "no fix"
// sentinel these trackers emit before first lock. allowZero exempts the
// sentinel check for deployments that legitimately sit at the origin.
func UsableCoords(p *codec.Position, allowZero bool) bool {
	if p.Lat == nil || p.Lon == nil {
		return false
	}
	lat, lon := *p.Lat, *p.Lon
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	if lat == 0 && lon == 0 && !allowZero {
		return false
	}
	return true
}

// ShouldForward gates relay to the backend: forwarding must be enabled,
// and when the only-valid policy is on the device must report a valid fix.
func ShouldForward(p *codec.Position, enabled, onlyValid bool) bool {
	if !enabled {
		return false
	}
	return !onlyValid || p.Valid
}
