package importer_test

import (
	"testing"

	"github.com/mapmark/core/internal/importer"
	"github.com/mapmark/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePoints(t *testing.T) {
	existing := []models.Point{
		{ID: 1, Tag: "mine"},
		{ID: 2, Tag: "also mine"},
	}
	incoming := []models.Point{
		{ID: 2, Tag: "theirs, same id"},
		{ID: 3, Tag: "new"},
		{ID: 4, Tag: "newer"},
	}

	merged := importer.MergePoints(existing, incoming)
	require.Len(t, merged, 4)

	// Existing records survive verbatim; the colliding incoming record loses.
	assert.Equal(t, "also mine", merged[1].Tag)
	assert.Equal(t, int64(3), merged[2].ID)
	assert.Equal(t, int64(4), merged[3].ID)
}

func TestMergeIdempotent(t *testing.T) {
	points := []models.Point{{ID: 1}, {ID: 2}}

	once := importer.MergePoints(nil, points)
	twice := importer.MergePoints(once, points)
	assert.Equal(t, once, twice)
}

func TestMergeDropsDuplicateIncoming(t *testing.T) {
	incoming := []models.Point{{ID: 7, Tag: "first"}, {ID: 7, Tag: "second"}}

	merged := importer.MergePoints(nil, incoming)
	require.Len(t, merged, 1)
	assert.Equal(t, "first", merged[0].Tag)
}

func TestMergeRoutes(t *testing.T) {
	existing := []models.Route{{ID: 10, Name: "Loop"}}
	incoming := []models.Route{{ID: 10, Name: "Shadow"}, {ID: 11, Name: "Coastal"}}

	merged := importer.MergeRoutes(existing, incoming)
	require.Len(t, merged, 2)
	assert.Equal(t, "Loop", merged[0].Name)
	assert.Equal(t, "Coastal", merged[1].Name)
}

func TestParsePoints(t *testing.T) {
	t.Run("valid array", func(t *testing.T) {
		points, err := importer.ParsePoints([]byte(`[{"id":1,"lat":22.3,"lng":114.1,"tag":"Pier"}]`))
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "Pier", points[0].Tag)
	})

	t.Run("empty array", func(t *testing.T) {
		points, err := importer.ParsePoints([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, points)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := importer.ParsePoints([]byte(`{broken`))
		assert.ErrorIs(t, err, importer.ErrInvalidFormat)
	})

	t.Run("top level object", func(t *testing.T) {
		_, err := importer.ParsePoints([]byte(`{"points":[]}`))
		assert.ErrorIs(t, err, importer.ErrInvalidFormat)
	})

	t.Run("wrong element shape", func(t *testing.T) {
		_, err := importer.ParsePoints([]byte(`[{"id":"not a number"}]`))
		assert.ErrorIs(t, err, importer.ErrInvalidFormat)
	})
}

func TestParseRoutes(t *testing.T) {
	routes, err := importer.ParseRoutes([]byte(`[{"id":5,"name":"Loop","points":[{"lat":1,"lng":2,"type":"routepoint"}]}]`))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, models.VertexRoutePoint, routes[0].Points[0].Type)
}
