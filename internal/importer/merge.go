// Package importer implements id-based merge of externally supplied
// collections and the export document framing.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mapmark/core/internal/models"
)

// ErrInvalidFormat indicates an import payload that is not a JSON array of
// the expected records.
var ErrInvalidFormat = errors.New("invalid import format")

// Merge unions incoming into existing by identity: existing records are kept
// verbatim, incoming records whose id is already present are dropped, and the
// survivors are appended in their original relative order.
func Merge[T any](existing, incoming []T, id func(T) int64) []T {
	seen := make(map[int64]struct{}, len(existing))
	for _, e := range existing {
		seen[id(e)] = struct{}{}
	}

	out := make([]T, 0, len(existing)+len(incoming))
	out = append(out, existing...)
	for _, in := range incoming {
		if _, dup := seen[id(in)]; dup {
			continue
		}
		seen[id(in)] = struct{}{}
		out = append(out, in)
	}
	return out
}

// MergePoints applies Merge to point collections.
func MergePoints(existing, incoming []models.Point) []models.Point {
	return Merge(existing, incoming, func(p models.Point) int64 { return p.ID })
}

// MergeRoutes applies Merge to route collections.
func MergeRoutes(existing, incoming []models.Route) []models.Route {
	return Merge(existing, incoming, func(r models.Route) int64 { return r.ID })
}

func parseArray[T any](data []byte, what string) ([]T, error) {
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if _, ok := probe.([]interface{}); !ok {
		return nil, fmt.Errorf("%w: top level is not an array", ErrInvalidFormat)
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: not a %s array: %v", ErrInvalidFormat, what, err)
	}
	return out, nil
}

// ParsePoints decodes an import payload, requiring a top-level array of
// point-shaped records.
func ParsePoints(data []byte) ([]models.Point, error) {
	return parseArray[models.Point](data, "point")
}

// ParseRoutes decodes an import payload of routes.
func ParseRoutes(data []byte) ([]models.Route, error) {
	return parseArray[models.Route](data, "route")
}
