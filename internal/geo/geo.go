package geo

import (
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for all spherical math.
const EarthRadiusMeters = 6371000.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceMeters returns the great-circle distance between two points using
// the haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// BearingDegrees calculates the initial compass bearing in degrees from one
// point to another.
func BearingDegrees(from, to Point) float64 {
	phi1 := from.Lat * math.Pi / 180
	phi2 := to.Lat * math.Pi / 180
	deltaLon := (to.Lon - from.Lon) * math.Pi / 180

	y := math.Sin(deltaLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLon)

	theta := math.Atan2(y, x)
	return math.Mod(theta*180/math.Pi+360, 360)
}

// OffsetPoint returns the destination point reached by travelling the given
// distance along the given bearing from the start point (spherical Earth).
func OffsetPoint(p Point, bearingDegrees, distanceMeters float64) Point {
	delta := distanceMeters / EarthRadiusMeters
	theta := bearingDegrees * math.Pi / 180

	phi1 := p.Lat * math.Pi / 180
	lambda1 := p.Lon * math.Pi / 180

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) +
		math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	return Point{
		Lat: phi2 * 180 / math.Pi,
		Lon: lambda2 * 180 / math.Pi,
	}
}

// OffsetPolyline displaces every point of a polyline perpendicular to the
// local direction of travel by offsetMeters. The first point uses its
// outgoing bearing, the last its incoming bearing, and interior points the
// average of the two, so the displaced line stays parallel through corners.
// Polylines with fewer than 2 points are returned unchanged.
func OffsetPolyline(points []Point, offsetMeters float64) []Point {
	if len(points) < 2 || offsetMeters == 0 {
		return points
	}

	out := make([]Point, len(points))
	for i, p := range points {
		var bearing float64
		switch {
		case i == 0:
			bearing = BearingDegrees(points[0], points[1])
		case i == len(points)-1:
			bearing = BearingDegrees(points[i-1], points[i])
		default:
			incoming := BearingDegrees(points[i-1], points[i])
			outgoing := BearingDegrees(points[i], points[i+1])
			bearing = averageBearing(incoming, outgoing)
		}

		out[i] = OffsetPoint(p, math.Mod(bearing+90, 360), offsetMeters)
	}
	return out
}

// averageBearing averages two compass bearings, taking the short way around
// the circle so e.g. 350 and 10 average to 0 rather than 180.
func averageBearing(a, b float64) float64 {
	diff := math.Mod(b-a+540, 360) - 180
	return math.Mod(a+diff/2+360, 360)
}
