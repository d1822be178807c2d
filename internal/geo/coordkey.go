package geo

import "math"

// CoordKey identifies a physical location at roughly 11 m precision: two
// stops whose coordinates round to the same 4-decimal-place values are
// treated as the same place. Quantized integers are used as the map key
// rather than formatted strings since deduplication runs on every render
// of the stop list.
type CoordKey struct {
	LatE4 int32
	LonE4 int32
}

// KeyFor quantizes a coordinate pair to its CoordKey.
func KeyFor(lat, lon float64) CoordKey {
	return CoordKey{
		LatE4: int32(math.Round(lat * 1e4)),
		LonE4: int32(math.Round(lon * 1e4)),
	}
}
