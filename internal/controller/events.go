package controller

import (
	"github.com/mapmark/core/internal/geo"
	"github.com/mapmark/core/internal/models"
)

// View-update events published after each intent. The view never mutates
// entities itself; it re-renders from these.
const (
	EventPointsUpdated = "POINTS_UPDATED"
	EventPointCreated  = "POINT_CREATED"
	EventPointUpdated  = "POINT_UPDATED"
	EventPointDeleted  = "POINT_DELETED"

	EventRoutesUpdated = "ROUTES_UPDATED"
	EventRouteCreated  = "ROUTE_CREATED"
	EventRouteUpdated  = "ROUTE_UPDATED"
	EventRouteDeleted  = "ROUTE_DELETED"

	EventRouteModeStarted = "ROUTE_MODE_STARTED"
	EventRouteModeEnded   = "ROUTE_MODE_ENDED"
	EventRoutePreview     = "ROUTE_PREVIEW"
	EventMarkerCreated    = "MARKER_CREATED"
	EventMarkerRemoved    = "MARKER_REMOVED"

	EventRouteShown  = "ROUTE_SHOWN"
	EventRouteHidden = "ROUTE_HIDDEN"
)

// EventSink receives view-update events. The gateway hub implements it for
// connected web views; tests substitute a recorder.
type EventSink interface {
	Publish(event string, payload interface{})
}

// NopSink discards events, for headless embedders like the CLI.
type NopSink struct{}

func (NopSink) Publish(string, interface{}) {}

// MarkerEvent announces a preview marker creation or destruction.
type MarkerEvent struct {
	Handle string  `json:"handle"`
	Index  int     `json:"index"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// PreviewEvent carries the polyline to redraw after a build click.
type PreviewEvent struct {
	Polyline []geo.Coordinate `json:"polyline"`
}

// RouteMarker is one derived visual of a shown route: a marker for a vertex
// that is not already visible as its own point marker.
type RouteMarker struct {
	Index  int               `json:"index"`
	Vertex models.RoutePoint `json:"vertex"`
}

// RouteVisual describes the derived visuals of a toggled-on route.
type RouteVisual struct {
	RouteID  int64            `json:"routeId"`
	Polyline []geo.Coordinate `json:"polyline"`
	Markers  []RouteMarker    `json:"markers"`
}
