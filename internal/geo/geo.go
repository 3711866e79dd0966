// Package geo provides coordinate distance math and click hit-testing.
package geo

import "github.com/golang/geo/s2"

// EarthRadiusMeters is the WGS84 semi-major axis.
const EarthRadiusMeters = 6378137.0

// DefaultHitThresholdMeters is the distance within which a click resolves to
// an existing candidate instead of creating a new one.
const DefaultHitThresholdMeters = 20.0

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	p := s2.LatLngFromDegrees(a.Lat, a.Lng)
	q := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p.Distance(q).Radians() * EarthRadiusMeters
}

// HitTest resolves coord against candidates and returns the index of the
// nearest candidate strictly within thresholdMeters, or -1 when none
// qualifies. Nearest-match is used rather than the legacy last-match-wins
// scan, which is only distinguishable under dense marker clusters.
func HitTest(coord Coordinate, candidates []Coordinate, thresholdMeters float64) int {
	best := -1
	bestDist := thresholdMeters
	for i, c := range candidates {
		if d := Distance(coord, c); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
