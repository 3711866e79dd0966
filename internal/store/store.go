// Package store owns the authoritative in-memory Point and Route collections
// and their persistence through a pluggable Backend.
package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mapmark/core/internal/geo"
	"github.com/mapmark/core/internal/models"
	"go.uber.org/zap"
)

// PointDraft carries the user-supplied fields of a new point.
type PointDraft struct {
	Lat      float64
	Lng      float64
	Category models.Category
	Tag      string
	Comment  string
	Username string
	Pictures []models.Picture
}

// PointPatch describes an edit. Nil fields are left unchanged; Pictures are
// appended to the existing sequence, never replacing it.
type PointPatch struct {
	Category *models.Category
	Tag      *string
	Comment  *string
	Pictures []models.Picture
}

// RouteDraft carries a finished build session ready to become a route.
type RouteDraft struct {
	Name        string
	Description string
	Username    string
	Points      []models.RoutePoint
}

// RoutePatch is a metadata-only route edit.
type RoutePatch struct {
	Name        *string
	Description *string
}

// EntityStore is the single owner of persisted points and routes. Every
// mutation persists before it commits to memory, so a failed write leaves the
// in-memory state exactly as it was.
type EntityStore struct {
	mu      sync.Mutex
	backend Backend
	logger  *zap.Logger
	ids     *IDGenerator
	clock   func() time.Time

	points   []models.Point
	routes   []models.Route
	pointIdx map[int64]int
	routeIdx map[int64]int
}

// New creates an empty store over the given backend.
func New(backend Backend, logger *zap.Logger) *EntityStore {
	return &EntityStore{
		backend:  backend,
		logger:   logger,
		ids:      NewIDGenerator(),
		clock:    time.Now,
		pointIdx: make(map[int64]int),
		routeIdx: make(map[int64]int),
	}
}

// SetClock overrides the timestamp clock; the id generator follows it too,
// keeping the ids it has already observed.
func (s *EntityStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = now
	s.ids.SetClock(now)
}

// LoadAll reads both collections from the backend. A failed read degrades to
// an empty collection: the error is logged, never propagated.
func (s *EntityStore) LoadAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points, err := s.backend.LoadPoints(ctx)
	if err != nil {
		s.logger.Warn("point load failed, starting empty", zap.Error(err))
		points = nil
	}
	routes, err := s.backend.LoadRoutes(ctx)
	if err != nil {
		s.logger.Warn("route load failed, starting empty", zap.Error(err))
		routes = nil
	}

	s.commitPoints(points)
	s.commitRoutes(routes)
}

// commitPoints replaces the in-memory collection and rebuilds the id index.
// Callers hold the mutex.
func (s *EntityStore) commitPoints(points []models.Point) {
	s.points = points
	s.pointIdx = make(map[int64]int, len(points))
	for i, p := range points {
		s.pointIdx[p.ID] = i
		s.ids.Observe(p.ID)
	}
}

func (s *EntityStore) commitRoutes(routes []models.Route) {
	s.routes = routes
	s.routeIdx = make(map[int64]int, len(routes))
	for i, r := range routes {
		s.routeIdx[r.ID] = i
		s.ids.Observe(r.ID)
	}
}

// Points returns a copy of the point collection in insertion order.
func (s *EntityStore) Points() []models.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.points)
}

// Routes returns a copy of the route collection in insertion order.
func (s *EntityStore) Routes() []models.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.routes)
}

// PointByID looks up a point in O(1).
func (s *EntityStore) PointByID(id int64) (models.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.pointIdx[id]
	if !ok {
		return models.Point{}, false
	}
	return s.points[i], true
}

// RouteByID looks up a route in O(1).
func (s *EntityStore) RouteByID(id int64) (models.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.routeIdx[id]
	if !ok {
		return models.Route{}, false
	}
	return s.routes[i], true
}

// NearestPoint resolves a coordinate against the point collection within
// thresholdMeters. Used as the first candidate set of route-building clicks.
func (s *EntityStore) NearestPoint(coord geo.Coordinate, thresholdMeters float64) (models.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coords := make([]geo.Coordinate, len(s.points))
	for i, p := range s.points {
		coords[i] = geo.Coordinate{Lat: p.Lat, Lng: p.Lng}
	}
	i := geo.HitTest(coord, coords, thresholdMeters)
	if i < 0 {
		return models.Point{}, false
	}
	return s.points[i], true
}

// AddPoint assigns id and timestamp, persists, and returns the stored record.
func (s *EntityStore) AddPoint(ctx context.Context, draft PointDraft) (models.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := draft.Username
	if username == "" {
		username = models.DefaultUsername
	}
	point := models.Point{
		ID:        s.ids.Next(),
		Lat:       draft.Lat,
		Lng:       draft.Lng,
		Category:  draft.Category,
		Tag:       draft.Tag,
		Comment:   draft.Comment,
		Username:  username,
		Timestamp: s.clock().Format(models.TimestampLayout),
		Pictures:  slices.Clone(draft.Pictures),
	}

	next := append(slices.Clone(s.points), point)
	if err := s.backend.SavePoints(ctx, next); err != nil {
		return models.Point{}, persistence(err)
	}
	s.commitPoints(next)
	return point, nil
}

// UpdatePoint merges category/tag/comment by replacement and pictures by
// append. Identity fields (id, coordinates, timestamp) never change.
func (s *EntityStore) UpdatePoint(ctx context.Context, id int64, patch PointPatch) (models.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.pointIdx[id]
	if !ok {
		return models.Point{}, ErrNotFound
	}

	next := slices.Clone(s.points)
	point := next[i]
	if patch.Category != nil {
		point.Category = *patch.Category
	}
	if patch.Tag != nil {
		point.Tag = *patch.Tag
	}
	if patch.Comment != nil {
		point.Comment = *patch.Comment
	}
	if len(patch.Pictures) > 0 {
		point.Pictures = append(slices.Clone(point.Pictures), patch.Pictures...)
	}
	next[i] = point

	if err := s.backend.SavePoints(ctx, next); err != nil {
		return models.Point{}, persistence(err)
	}
	s.commitPoints(next)
	return point, nil
}

// RemovePoint deletes a point. Routes keep their denormalized copies of the
// point's coordinates, so existing waypoints are unaffected.
func (s *EntityStore) RemovePoint(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.pointIdx[id]
	if !ok {
		return ErrNotFound
	}

	next := slices.Delete(slices.Clone(s.points), i, i+1)
	if err := s.backend.SavePoints(ctx, next); err != nil {
		return persistence(err)
	}
	s.commitPoints(next)
	return nil
}

// AddRoute finalizes a build session into a stored route.
func (s *EntityStore) AddRoute(ctx context.Context, draft RouteDraft) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(draft.Points) < 2 {
		return models.Route{}, ErrInvalidRoute
	}

	username := draft.Username
	if username == "" {
		username = models.DefaultUsername
	}
	route := models.Route{
		ID:          s.ids.Next(),
		Name:        draft.Name,
		Description: draft.Description,
		Username:    username,
		Timestamp:   s.clock().Format(models.TimestampLayout),
		Points:      slices.Clone(draft.Points),
	}

	next := append(slices.Clone(s.routes), route)
	if err := s.backend.SaveRoutes(ctx, next); err != nil {
		return models.Route{}, persistence(err)
	}
	s.commitRoutes(next)
	return route, nil
}

// UpdateRoute edits route metadata. The vertex sequence is immutable here.
func (s *EntityStore) UpdateRoute(ctx context.Context, id int64, patch RoutePatch) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.routeIdx[id]
	if !ok {
		return models.Route{}, ErrNotFound
	}

	next := slices.Clone(s.routes)
	route := next[i]
	if patch.Name != nil {
		route.Name = *patch.Name
	}
	if patch.Description != nil {
		route.Description = *patch.Description
	}
	next[i] = route

	if err := s.backend.SaveRoutes(ctx, next); err != nil {
		return models.Route{}, persistence(err)
	}
	s.commitRoutes(next)
	return route, nil
}

// RenameRoutePoint is the only per-element edit a finalized route allows:
// a name-only change of the vertex at index.
func (s *EntityStore) RenameRoutePoint(ctx context.Context, routeID int64, index int, name string) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.routeIdx[routeID]
	if !ok {
		return models.Route{}, ErrNotFound
	}
	if index < 0 || index >= len(s.routes[i].Points) {
		return models.Route{}, ErrNotFound
	}

	next := slices.Clone(s.routes)
	route := next[i]
	route.Points = slices.Clone(route.Points)
	route.Points[index].Name = name
	next[i] = route

	if err := s.backend.SaveRoutes(ctx, next); err != nil {
		return models.Route{}, persistence(err)
	}
	s.commitRoutes(next)
	return route, nil
}

// RemoveRoute deletes a route.
func (s *EntityStore) RemoveRoute(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.routeIdx[id]
	if !ok {
		return ErrNotFound
	}

	next := slices.Delete(slices.Clone(s.routes), i, i+1)
	if err := s.backend.SaveRoutes(ctx, next); err != nil {
		return persistence(err)
	}
	s.commitRoutes(next)
	return nil
}

// ReplacePoints swaps in a full collection, typically an import-merge result.
func (s *EntityStore) ReplacePoints(ctx context.Context, points []models.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.SavePoints(ctx, points); err != nil {
		return persistence(err)
	}
	s.commitPoints(slices.Clone(points))
	return nil
}

// ReplaceRoutes swaps in a full route collection.
func (s *EntityStore) ReplaceRoutes(ctx context.Context, routes []models.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.SaveRoutes(ctx, routes); err != nil {
		return persistence(err)
	}
	s.commitRoutes(slices.Clone(routes))
	return nil
}
