package routes

import (
	"context"
	"time"

	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/store"
)

// CreateRouteDTO is the POST body: route fields minus id and timestamp.
type CreateRouteDTO struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Username    string              `json:"username"`
	Points      []models.RoutePoint `json:"points"`
}

// Service mirrors the points facade for the shared route collection:
// whole-file read-modify-write per request, no locking.
type Service struct {
	backend store.Backend
	ids     *store.IDGenerator
}

func NewService(backend store.Backend, ids *store.IDGenerator) *Service {
	return &Service{backend: backend, ids: ids}
}

// List returns the shared route collection.
func (s *Service) List(ctx context.Context) ([]models.Route, error) {
	routes, err := s.backend.LoadRoutes(ctx)
	if err != nil {
		return nil, err
	}
	if routes == nil {
		routes = []models.Route{}
	}
	return routes, nil
}

// Create validates, assigns id and timestamp, and appends.
func (s *Service) Create(ctx context.Context, dto CreateRouteDTO) (models.Route, error) {
	if len(dto.Points) < 2 {
		return models.Route{}, store.ErrInvalidRoute
	}

	routes, err := s.backend.LoadRoutes(ctx)
	if err != nil {
		return models.Route{}, err
	}
	for _, r := range routes {
		s.ids.Observe(r.ID)
	}

	username := dto.Username
	if username == "" {
		username = models.DefaultUsername
	}
	route := models.Route{
		ID:          s.ids.Next(),
		Name:        dto.Name,
		Description: dto.Description,
		Username:    username,
		Timestamp:   time.Now().Format(models.TimestampLayout),
		Points:      dto.Points,
	}

	if err := s.backend.SaveRoutes(ctx, append(routes, route)); err != nil {
		return models.Route{}, err
	}
	return route, nil
}

// Delete filters the id out. Absent ids succeed, like the points facade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	routes, err := s.backend.LoadRoutes(ctx)
	if err != nil {
		return err
	}

	kept := routes[:0]
	for _, r := range routes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return s.backend.SaveRoutes(ctx, kept)
}

// Replace swaps in a full collection (whole-collection PUT).
func (s *Service) Replace(ctx context.Context, routes []models.Route) error {
	for _, r := range routes {
		s.ids.Observe(r.ID)
	}
	return s.backend.SaveRoutes(ctx, routes)
}
