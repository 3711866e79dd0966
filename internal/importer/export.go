package importer

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/mapmark/core/internal/models"
)

// ExportPoints renders the verbatim point collection as a pretty-printed
// JSON document. The output round-trips through ParsePoints unchanged.
func ExportPoints(points []models.Point) ([]byte, error) {
	if points == nil {
		points = []models.Point{}
	}
	return json.MarshalIndent(points, "", "  ")
}

// ExportRoutes renders the route collection the same way.
func ExportRoutes(routes []models.Route) ([]byte, error) {
	if routes == nil {
		routes = []models.Route{}
	}
	return json.MarshalIndent(routes, "", "  ")
}

// PointsFilename names an export document by its UTC date.
func PointsFilename(now time.Time) string {
	return "hk-map-points-" + now.UTC().Format("2006-01-02") + ".json"
}

// RoutesFilename names a route export document by its UTC date.
func RoutesFilename(now time.Time) string {
	return "hk-map-routes-" + now.UTC().Format("2006-01-02") + ".json"
}

// WriteDocument writes an export document to path, gzip-compressed when
// compress is set (the path gains a .gz suffix).
func WriteDocument(path string, data []byte, compress bool) (string, error) {
	if !compress {
		return path, os.WriteFile(path, data, 0o644)
	}

	path += ".gz"
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		f.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// ReadDocument reads an import document, transparently decompressing files
// written by WriteDocument with compression on.
func ReadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return data, nil
}
