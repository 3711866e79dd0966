package controller

// EditTargetKind tags the variant of an EditTarget.
type EditTargetKind int

const (
	// EditPoint targets a persisted point by id.
	EditPoint EditTargetKind = iota
	// EditRoutePoint targets one vertex of a finalized route, which only
	// admits a name change.
	EditRoutePoint
)

// EditTarget is a tagged variant identifying what an edit form is bound to.
// It replaces the legacy habit of stuffing either a number or an ad-hoc
// object into one variable.
type EditTarget struct {
	Kind    EditTargetKind
	PointID int64
	RouteID int64
	Index   int
}

// PointTarget builds a point edit target.
func PointTarget(id int64) EditTarget {
	return EditTarget{Kind: EditPoint, PointID: id}
}

// RoutePointTarget builds a route-vertex edit target.
func RoutePointTarget(routeID int64, index int) EditTarget {
	return EditTarget{Kind: EditRoutePoint, RouteID: routeID, Index: index}
}
