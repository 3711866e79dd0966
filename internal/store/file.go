package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mapmark/core/internal/models"
)

const (
	dataFilePerm = 0o644
	dataDirPerm  = 0o755
)

// FileBackend stores each collection as a pretty-printed JSON array in its
// own file under a data directory. Writes go through a temp file plus rename
// so a crash mid-write never leaves a truncated collection behind.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the data directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the backing directory.
func (b *FileBackend) Dir() string { return b.dir }

func (b *FileBackend) slotPath(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func loadSlot[T any](b *FileBackend, key string) ([]T, error) {
	data, err := os.ReadFile(b.slotPath(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

func saveSlot[T any](b *FileBackend, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	path := b.slotPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, dataFilePerm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (b *FileBackend) LoadPoints(context.Context) ([]models.Point, error) {
	return loadSlot[models.Point](b, PointsKey)
}

func (b *FileBackend) SavePoints(_ context.Context, points []models.Point) error {
	return saveSlot(b, PointsKey, points)
}

func (b *FileBackend) LoadRoutes(context.Context) ([]models.Route, error) {
	return loadSlot[models.Route](b, RoutesKey)
}

func (b *FileBackend) SaveRoutes(_ context.Context, routes []models.Route) error {
	return saveSlot(b, RoutesKey, routes)
}
