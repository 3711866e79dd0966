package store

import (
	"context"

	"github.com/mapmark/core/internal/models"
)

// Slot names under which collections are persisted. The local backend uses
// them as file names, the redis backend as keys; both hold a full
// JSON-encoded array with whole-collection read/replace semantics.
const (
	PointsKey = "hkMapPoints"
	RoutesKey = "hkMapRoutes"
)

// Backend persists whole collections. There is no partial update protocol:
// every save replaces the stored array.
type Backend interface {
	LoadPoints(ctx context.Context) ([]models.Point, error)
	SavePoints(ctx context.Context, points []models.Point) error
	LoadRoutes(ctx context.Context) ([]models.Route, error)
	SaveRoutes(ctx context.Context, routes []models.Route) error
}
