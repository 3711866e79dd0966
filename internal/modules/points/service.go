package points

import (
	"context"
	"time"

	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/store"
)

// CreatePointDTO is the POST body: point fields minus id and timestamp,
// which the server assigns.
type CreatePointDTO struct {
	Lat      float64          `json:"lat"`
	Lng      float64          `json:"lng"`
	Category models.Category  `json:"category"`
	Tag      string           `json:"tag"`
	Comment  string           `json:"comment"`
	Username string           `json:"username"`
	Pictures []models.Picture `json:"pictures"`
}

// Service is the stateless pass-through over the shared point collection.
// Every request reads, modifies, and rewrites the collection wholesale; no
// locking, so concurrent writers can race. Known limitation of the share
// server, kept deliberately simple.
type Service struct {
	backend store.Backend
	ids     *store.IDGenerator
}

// NewService wraps the configured storage backend.
func NewService(backend store.Backend, ids *store.IDGenerator) *Service {
	return &Service{backend: backend, ids: ids}
}

// List returns the shared point collection.
func (s *Service) List(ctx context.Context) ([]models.Point, error) {
	points, err := s.backend.LoadPoints(ctx)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []models.Point{}
	}
	return points, nil
}

// Create assigns id and timestamp, appends, and rewrites the collection.
func (s *Service) Create(ctx context.Context, dto CreatePointDTO) (models.Point, error) {
	points, err := s.backend.LoadPoints(ctx)
	if err != nil {
		return models.Point{}, err
	}
	// Ids already in the stored collection must never be re-issued, even on
	// a freshly started server.
	for _, p := range points {
		s.ids.Observe(p.ID)
	}

	username := dto.Username
	if username == "" {
		username = models.DefaultUsername
	}
	point := models.Point{
		ID:        s.ids.Next(),
		Lat:       dto.Lat,
		Lng:       dto.Lng,
		Category:  dto.Category,
		Tag:       dto.Tag,
		Comment:   dto.Comment,
		Username:  username,
		Timestamp: time.Now().Format(models.TimestampLayout),
		Pictures:  dto.Pictures,
	}

	if err := s.backend.SavePoints(ctx, append(points, point)); err != nil {
		return models.Point{}, err
	}
	return point, nil
}

// Delete filters the id out and rewrites. Deleting an absent id succeeds,
// matching the legacy server.
func (s *Service) Delete(ctx context.Context, id int64) error {
	points, err := s.backend.LoadPoints(ctx)
	if err != nil {
		return err
	}

	kept := points[:0]
	for _, p := range points {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return s.backend.SavePoints(ctx, kept)
}

// Replace swaps in a full collection (whole-collection PUT).
func (s *Service) Replace(ctx context.Context, points []models.Point) error {
	for _, p := range points {
		s.ids.Observe(p.ID)
	}
	return s.backend.SavePoints(ctx, points)
}
