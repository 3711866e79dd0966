package models

import "fmt"

// RoutePointType distinguishes route vertices that reference an existing
// point from vertices authored for the route itself.
type RoutePointType string

const (
	// VertexWaypoint references an existing Point via PointID.
	VertexWaypoint RoutePointType = "waypoint"
	// VertexRoutePoint is a newly authored vertex with no back-reference.
	VertexRoutePoint RoutePointType = "routepoint"
)

// RoutePoint is one element of a route's ordered vertex sequence. Order is
// significant: it is the traversal order of the route. Lat/Lng are a
// denormalized copy, so deleting the backing point does not break a route.
type RoutePoint struct {
	Lat     float64        `json:"lat"`
	Lng     float64        `json:"lng"`
	Name    string         `json:"name"`
	Type    RoutePointType `json:"type"`
	PointID int64          `json:"pointId,omitempty"`
}

// DefaultRoutePointName names a newly authored vertex by its 1-based position
// at creation time. Vertices are not renumbered when earlier ones are removed.
func DefaultRoutePointName(position int) string {
	return fmt.Sprintf("Route Point %d", position)
}

// Route is a persisted, ordered sequence of waypoints and route points.
// Once finalized its vertex sequence is immutable except for per-element
// renames; structural edits only happen while the route is being built.
type Route struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Username    string       `json:"username"`
	Timestamp   string       `json:"timestamp"`
	Points      []RoutePoint `json:"points"`
}
