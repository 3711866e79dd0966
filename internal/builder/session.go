// Package builder implements the route construction state machine: the logic
// that turns a sequence of map clicks into an ordered vertex list with live
// preview geometry.
package builder

import (
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/mapmark/core/internal/geo"
	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/store"
)

// ErrNoSession is returned when Finish is called while no session is active.
var ErrNoSession = errors.New("no active route session")

// PointFinder resolves a click against the persisted point collection.
// *store.EntityStore satisfies it.
type PointFinder interface {
	NearestPoint(coord geo.Coordinate, thresholdMeters float64) (models.Point, bool)
}

// MarkerHandle identifies a transient preview marker. Handles are stable for
// the life of their vertex; the marker's display index is always derived from
// the vertex's current position, never cached.
type MarkerHandle string

type vertex struct {
	point models.RoutePoint
	// marker is empty for waypoints and duplicate re-adds, which have no
	// preview marker of their own.
	marker MarkerHandle
}

// ClickOutcome reports the effect of a primary click.
type ClickOutcome struct {
	Vertex models.RoutePoint
	Index  int
	// Marker is set only when a brand-new vertex created a preview marker.
	Marker   MarkerHandle
	Polyline []geo.Coordinate
}

// Removal reports the effect of a secondary click that hit a vertex.
type Removal struct {
	Vertex models.RoutePoint
	Index  int
	// Marker is the destroyed preview marker, empty when the removed vertex
	// had none.
	Marker   MarkerHandle
	Polyline []geo.Coordinate
}

// FinishResult carries the finalized vertex sequence and the preview markers
// the view must now destroy.
type FinishResult struct {
	Points  []models.RoutePoint
	Markers []MarkerHandle
}

// Session is the transient route build state. Exactly one session is active
// per controller; Start while building is an idempotent no-op.
type Session struct {
	finder    PointFinder
	threshold float64
	active    bool
	verts     []vertex
}

// NewSession creates an idle session. thresholdMeters <= 0 selects the
// default click threshold.
func NewSession(finder PointFinder, thresholdMeters float64) *Session {
	if thresholdMeters <= 0 {
		thresholdMeters = geo.DefaultHitThresholdMeters
	}
	return &Session{finder: finder, threshold: thresholdMeters}
}

// Active reports whether a build is in progress.
func (s *Session) Active() bool { return s.active }

// Start transitions Idle → Building and resets the vertex list. It returns
// false (and changes nothing) when already building.
func (s *Session) Start() bool {
	if s.active {
		return false
	}
	s.active = true
	s.verts = nil
	return true
}

// Vertices returns the in-progress vertex sequence in insertion order.
func (s *Session) Vertices() []models.RoutePoint {
	out := make([]models.RoutePoint, len(s.verts))
	for i, v := range s.verts {
		out[i] = v.point
	}
	return out
}

// Polyline returns the preview geometry: every vertex coordinate in
// insertion order.
func (s *Session) Polyline() []geo.Coordinate {
	out := make([]geo.Coordinate, len(s.verts))
	for i, v := range s.verts {
		out[i] = geo.Coordinate{Lat: v.point.Lat, Lng: v.point.Lng}
	}
	return out
}

// MarkerIndex derives the current vertex index of a preview marker.
func (s *Session) MarkerIndex(h MarkerHandle) (int, bool) {
	if h == "" {
		return 0, false
	}
	for i, v := range s.verts {
		if v.marker == h {
			return i, true
		}
	}
	return 0, false
}

// Markers returns the current index of every live preview marker.
func (s *Session) Markers() map[MarkerHandle]int {
	out := make(map[MarkerHandle]int)
	for i, v := range s.verts {
		if v.marker != "" {
			out[v.marker] = i
		}
	}
	return out
}

// PrimaryClick resolves a click into the next vertex. Existing points take
// priority over in-progress vertices; hitting a routepoint vertex re-inserts
// a copy at the end, which is what makes loop-closing routes possible.
func (s *Session) PrimaryClick(coord geo.Coordinate) (ClickOutcome, bool) {
	if !s.active {
		return ClickOutcome{}, false
	}

	var v vertex
	if p, ok := s.finder.NearestPoint(coord, s.threshold); ok {
		v = vertex{point: models.RoutePoint{
			Lat:     p.Lat,
			Lng:     p.Lng,
			Name:    p.Tag,
			Type:    models.VertexWaypoint,
			PointID: p.ID,
		}}
	} else if i := s.nearestVertex(coord, true); i >= 0 {
		dup := s.verts[i].point
		v = vertex{point: models.RoutePoint{
			Lat:  dup.Lat,
			Lng:  dup.Lng,
			Name: dup.Name,
			Type: models.VertexRoutePoint,
		}}
	} else {
		v = vertex{
			point: models.RoutePoint{
				Lat:  coord.Lat,
				Lng:  coord.Lng,
				Name: models.DefaultRoutePointName(len(s.verts) + 1),
				Type: models.VertexRoutePoint,
			},
			marker: MarkerHandle(uuid.NewString()),
		}
	}

	s.verts = append(s.verts, v)
	return ClickOutcome{
		Vertex:   v.point,
		Index:    len(s.verts) - 1,
		Marker:   v.marker,
		Polyline: s.Polyline(),
	}, true
}

// SecondaryClick removes the vertex nearest to coord within the threshold,
// destroying its preview marker if it has one. No-op when nothing is within
// range or no session is active.
func (s *Session) SecondaryClick(coord geo.Coordinate) (Removal, bool) {
	if !s.active {
		return Removal{}, false
	}
	i := s.nearestVertex(coord, false)
	if i < 0 {
		return Removal{}, false
	}

	removed := s.verts[i]
	s.verts = slices.Delete(s.verts, i, i+1)
	return Removal{
		Vertex:   removed.point,
		Index:    i,
		Marker:   removed.marker,
		Polyline: s.Polyline(),
	}, true
}

// nearestVertex hit-tests coord against the current vertices, optionally
// restricted to routepoint-type ones, and returns the index into s.verts.
func (s *Session) nearestVertex(coord geo.Coordinate, routePointsOnly bool) int {
	idx := make([]int, 0, len(s.verts))
	coords := make([]geo.Coordinate, 0, len(s.verts))
	for i, v := range s.verts {
		if routePointsOnly && v.point.Type != models.VertexRoutePoint {
			continue
		}
		idx = append(idx, i)
		coords = append(coords, geo.Coordinate{Lat: v.point.Lat, Lng: v.point.Lng})
	}
	hit := geo.HitTest(coord, coords, s.threshold)
	if hit < 0 {
		return -1
	}
	return idx[hit]
}

// Finish validates and hands back the vertex sequence, transitioning to Idle.
// The session keeps nothing: vertices and markers belong to the caller's
// finalized route and view teardown respectively.
func (s *Session) Finish() (FinishResult, error) {
	if !s.active {
		return FinishResult{}, ErrNoSession
	}
	if len(s.verts) < 2 {
		return FinishResult{}, store.ErrInvalidRoute
	}

	res := FinishResult{
		Points:  s.Vertices(),
		Markers: s.liveMarkers(),
	}
	s.active = false
	s.verts = nil
	return res, nil
}

// Cancel discards the session unconditionally and returns the preview
// markers to destroy.
func (s *Session) Cancel() []MarkerHandle {
	markers := s.liveMarkers()
	s.active = false
	s.verts = nil
	return markers
}

func (s *Session) liveMarkers() []MarkerHandle {
	var out []MarkerHandle
	for _, v := range s.verts {
		if v.marker != "" {
			out = append(out, v.marker)
		}
	}
	return out
}
