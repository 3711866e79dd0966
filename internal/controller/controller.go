// Package controller dispatches user intents against the entity store and
// the route build session, and republishes entity snapshots to the view.
package controller

import (
	"context"
	"errors"
	"time"

	"github.com/mapmark/core/internal/builder"
	"github.com/mapmark/core/internal/geo"
	"github.com/mapmark/core/internal/importer"
	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/store"
	"go.uber.org/zap"
)

// FilterAll shows every category.
const FilterAll = "all"

// ErrNoEdit is returned when SubmitEdit runs without a bound edit target.
var ErrNoEdit = errors.New("no edit in progress")

// PointSubmission is the add-point intent payload.
type PointSubmission struct {
	Lat         float64
	Lng         float64
	Category    models.Category
	Tag         string
	Comment     string
	Username    string
	Attachments []Attachment
}

// EditSubmission is the submit-edit intent payload. Which fields apply
// depends on the bound EditTarget: a route vertex only admits Name.
type EditSubmission struct {
	Category    *models.Category
	Tag         *string
	Comment     *string
	Name        *string
	Attachments []Attachment
}

// Controller is the single orchestrator of a view instance. All mutations
// flow through it; the view only emits intents and consumes events.
type Controller struct {
	store   *store.EntityStore
	session *builder.Session
	sink    EventSink
	logger  *zap.Logger
	clock   func() time.Time

	filter        string
	visibleRoutes map[int64]bool
	editing       *EditTarget
}

// New wires a controller over the store. thresholdMeters <= 0 selects the
// default click threshold.
func New(st *store.EntityStore, sink EventSink, logger *zap.Logger, thresholdMeters float64) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		store:         st,
		session:       builder.NewSession(st, thresholdMeters),
		sink:          sink,
		logger:        logger,
		clock:         time.Now,
		filter:        FilterAll,
		visibleRoutes: make(map[int64]bool),
	}
}

// SetClock overrides the export filename clock.
func (c *Controller) SetClock(now func() time.Time) { c.clock = now }

// Load populates the store from its backend and pushes full snapshots.
func (c *Controller) Load(ctx context.Context) {
	c.store.LoadAll(ctx)
	points, routes := c.store.Points(), c.store.Routes()
	c.logger.Info("annotation state loaded",
		zap.Int("points", len(points)),
		zap.Int("routes", len(routes)),
	)
	c.sink.Publish(EventPointsUpdated, points)
	c.sink.Publish(EventRoutesUpdated, routes)
}

// Points exposes the full point snapshot, unfiltered.
func (c *Controller) Points() []models.Point { return c.store.Points() }

// Routes exposes the full route snapshot.
func (c *Controller) Routes() []models.Route { return c.store.Routes() }

// SubmitPoint encodes all attachments (suspending until the batch is done),
// then appends and persists the point as one unit.
func (c *Controller) SubmitPoint(ctx context.Context, sub PointSubmission) (models.Point, error) {
	pictures, err := EncodeAttachments(sub.Attachments)
	if err != nil {
		return models.Point{}, err
	}

	point, err := c.store.AddPoint(ctx, store.PointDraft{
		Lat:      sub.Lat,
		Lng:      sub.Lng,
		Category: sub.Category,
		Tag:      sub.Tag,
		Comment:  sub.Comment,
		Username: sub.Username,
		Pictures: pictures,
	})
	if err != nil {
		return models.Point{}, err
	}

	c.sink.Publish(EventPointCreated, point)
	return point, nil
}

// DeletePoint removes a point. Routes referencing it keep their denormalized
// vertex copies.
func (c *Controller) DeletePoint(ctx context.Context, id int64) error {
	if err := c.store.RemovePoint(ctx, id); err != nil {
		return err
	}
	c.sink.Publish(EventPointDeleted, id)
	return nil
}

// DeleteRoute removes a route and its derived visuals.
func (c *Controller) DeleteRoute(ctx context.Context, id int64) error {
	if err := c.store.RemoveRoute(ctx, id); err != nil {
		return err
	}
	delete(c.visibleRoutes, id)
	c.sink.Publish(EventRouteDeleted, id)
	return nil
}

// BeginEdit binds the edit form to a target.
func (c *Controller) BeginEdit(target EditTarget) {
	c.editing = &target
}

// CurrentEdit returns the bound edit target, if any.
func (c *Controller) CurrentEdit() (EditTarget, bool) {
	if c.editing == nil {
		return EditTarget{}, false
	}
	return *c.editing, true
}

// CancelEdit unbinds the edit form.
func (c *Controller) CancelEdit() { c.editing = nil }

// SubmitEdit applies an edit to the bound target. Attachments are encoded
// before anything is touched; if the target point was deleted while the
// batch encoded, the result is discarded and NotFound comes back.
func (c *Controller) SubmitEdit(ctx context.Context, sub EditSubmission) error {
	if c.editing == nil {
		return ErrNoEdit
	}
	target := *c.editing

	switch target.Kind {
	case EditPoint:
		pictures, err := EncodeAttachments(sub.Attachments)
		if err != nil {
			return err
		}
		if _, ok := c.store.PointByID(target.PointID); !ok {
			c.editing = nil
			return store.ErrNotFound
		}
		point, err := c.store.UpdatePoint(ctx, target.PointID, store.PointPatch{
			Category: sub.Category,
			Tag:      sub.Tag,
			Comment:  sub.Comment,
			Pictures: pictures,
		})
		if err != nil {
			return err
		}
		c.editing = nil
		c.sink.Publish(EventPointUpdated, point)
		return nil

	case EditRoutePoint:
		if sub.Name == nil {
			return ErrNoEdit
		}
		route, err := c.store.RenameRoutePoint(ctx, target.RouteID, target.Index, *sub.Name)
		if err != nil {
			return err
		}
		c.editing = nil
		c.sink.Publish(EventRouteUpdated, route)
		return nil
	}
	return ErrNoEdit
}

// SetFilter selects the visible category; FilterAll or a category name.
func (c *Controller) SetFilter(filter string) {
	if filter == "" {
		filter = FilterAll
	}
	c.filter = filter
	c.sink.Publish(EventPointsUpdated, c.VisiblePoints())
}

// Filter returns the current category filter.
func (c *Controller) Filter() string { return c.filter }

// VisiblePoints projects the point collection through the current filter.
// Unknown categories fall under "other". Pure projection: the store is
// untouched and order is preserved.
func (c *Controller) VisiblePoints() []models.Point {
	points := c.store.Points()
	if c.filter == FilterAll {
		return points
	}

	want := models.Category(c.filter).Normalized()
	out := make([]models.Point, 0, len(points))
	for _, p := range points {
		if p.Category.Normalized() == want {
			out = append(out, p)
		}
	}
	return out
}

// StartRoute enters route building. Starting while already building is a
// no-op; one session per view instance.
func (c *Controller) StartRoute() bool {
	if !c.session.Start() {
		return false
	}
	c.sink.Publish(EventRouteModeStarted, nil)
	return true
}

// BuildingRoute reports whether a session is active.
func (c *Controller) BuildingRoute() bool { return c.session.Active() }

// RouteVertices exposes the in-progress vertex list.
func (c *Controller) RouteVertices() []models.RoutePoint { return c.session.Vertices() }

// RouteClick feeds a primary click to the build session.
func (c *Controller) RouteClick(coord geo.Coordinate) (builder.ClickOutcome, bool) {
	outcome, ok := c.session.PrimaryClick(coord)
	if !ok {
		return outcome, false
	}
	if outcome.Marker != "" {
		c.sink.Publish(EventMarkerCreated, MarkerEvent{
			Handle: string(outcome.Marker),
			Index:  outcome.Index,
			Lat:    outcome.Vertex.Lat,
			Lng:    outcome.Vertex.Lng,
		})
	}
	c.sink.Publish(EventRoutePreview, PreviewEvent{Polyline: outcome.Polyline})
	return outcome, true
}

// RouteRightClick feeds a secondary click (undo-by-click) to the session.
func (c *Controller) RouteRightClick(coord geo.Coordinate) (builder.Removal, bool) {
	removal, ok := c.session.SecondaryClick(coord)
	if !ok {
		return removal, false
	}
	if removal.Marker != "" {
		c.sink.Publish(EventMarkerRemoved, MarkerEvent{
			Handle: string(removal.Marker),
			Index:  removal.Index,
			Lat:    removal.Vertex.Lat,
			Lng:    removal.Vertex.Lng,
		})
	}
	c.sink.Publish(EventRoutePreview, PreviewEvent{Polyline: removal.Polyline})
	return removal, true
}

// FinishRoute finalizes the session into a persisted route. On failure
// (too few vertices, persistence error) the session stays alive so the user
// can acknowledge and retry.
func (c *Controller) FinishRoute(ctx context.Context, name, description, username string) (models.Route, error) {
	if !c.session.Active() {
		return models.Route{}, builder.ErrNoSession
	}

	route, err := c.store.AddRoute(ctx, store.RouteDraft{
		Name:        name,
		Description: description,
		Username:    username,
		Points:      c.session.Vertices(),
	})
	if err != nil {
		return models.Route{}, err
	}

	res, err := c.session.Finish()
	if err != nil {
		// AddRoute already validated; only a vanished session lands here.
		return route, err
	}
	for _, h := range res.Markers {
		c.sink.Publish(EventMarkerRemoved, MarkerEvent{Handle: string(h)})
	}
	c.sink.Publish(EventRouteModeEnded, nil)
	c.sink.Publish(EventRouteCreated, route)
	return route, nil
}

// CancelRoute discards the session and its preview visuals unconditionally.
func (c *Controller) CancelRoute() {
	if !c.session.Active() {
		return
	}
	for _, h := range c.session.Cancel() {
		c.sink.Publish(EventMarkerRemoved, MarkerEvent{Handle: string(h)})
	}
	c.sink.Publish(EventRoutePreview, PreviewEvent{Polyline: []geo.Coordinate{}})
	c.sink.Publish(EventRouteModeEnded, nil)
}

// ToggleRoute flips a route's visibility and returns the new state.
// Visibility is transient; it resets on reload.
func (c *Controller) ToggleRoute(id int64) (bool, error) {
	route, ok := c.store.RouteByID(id)
	if !ok {
		return false, store.ErrNotFound
	}

	if c.visibleRoutes[id] {
		delete(c.visibleRoutes, id)
		c.sink.Publish(EventRouteHidden, id)
		return false, nil
	}

	c.visibleRoutes[id] = true
	c.sink.Publish(EventRouteShown, routeVisual(route))
	return true, nil
}

// RouteVisible reports a route's transient visibility.
func (c *Controller) RouteVisible(id int64) bool { return c.visibleRoutes[id] }

// routeVisual derives the visuals of a shown route: the full polyline plus a
// marker per vertex that is not a waypoint (waypoints are already visible as
// their own point markers).
func routeVisual(route models.Route) RouteVisual {
	visual := RouteVisual{RouteID: route.ID}
	for i, rp := range route.Points {
		visual.Polyline = append(visual.Polyline, geo.Coordinate{Lat: rp.Lat, Lng: rp.Lng})
		if rp.Type != models.VertexWaypoint {
			visual.Markers = append(visual.Markers, RouteMarker{Index: i, Vertex: rp})
		}
	}
	return visual
}

// ImportPoints merges an exported document into the store. Existing records
// always win over imported ones sharing their id.
func (c *Controller) ImportPoints(ctx context.Context, data []byte) (int, error) {
	incoming, err := importer.ParsePoints(data)
	if err != nil {
		return 0, err
	}

	existing := c.store.Points()
	merged := importer.MergePoints(existing, incoming)
	if err := c.store.ReplacePoints(ctx, merged); err != nil {
		return 0, err
	}

	added := len(merged) - len(existing)
	c.sink.Publish(EventPointsUpdated, c.VisiblePoints())
	return added, nil
}

// ImportRoutes merges an exported route document into the store.
func (c *Controller) ImportRoutes(ctx context.Context, data []byte) (int, error) {
	incoming, err := importer.ParseRoutes(data)
	if err != nil {
		return 0, err
	}

	existing := c.store.Routes()
	merged := importer.MergeRoutes(existing, incoming)
	if err := c.store.ReplaceRoutes(ctx, merged); err != nil {
		return 0, err
	}

	added := len(merged) - len(existing)
	c.sink.Publish(EventRoutesUpdated, c.store.Routes())
	return added, nil
}

// ExportPoints renders the current point collection and its dated filename.
func (c *Controller) ExportPoints() ([]byte, string, error) {
	data, err := importer.ExportPoints(c.store.Points())
	if err != nil {
		return nil, "", err
	}
	return data, importer.PointsFilename(c.clock()), nil
}

// ExportRoutes renders the current route collection and its dated filename.
func (c *Controller) ExportRoutes() ([]byte, string, error) {
	data, err := importer.ExportRoutes(c.store.Routes())
	if err != nil {
		return nil, "", err
	}
	return data, importer.RoutesFilename(c.clock()), nil
}
