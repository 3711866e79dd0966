package geo_test

import (
	"testing"

	"github.com/mapmark/core/internal/geo"
	"github.com/stretchr/testify/assert"
)

// 0.0001 degrees of latitude is about 11.1 m on the WGS84 sphere.
const latStepMeters = 11.13

func TestDistance(t *testing.T) {
	hk := geo.Coordinate{Lat: 22.3193, Lng: 114.1694}

	assert.Zero(t, geo.Distance(hk, hk))

	north := geo.Coordinate{Lat: hk.Lat + 1, Lng: hk.Lng}
	assert.InDelta(t, 111319.49, geo.Distance(hk, north), 1.0)
	assert.InDelta(t, geo.Distance(hk, north), geo.Distance(north, hk), 1e-9)

	near := geo.Coordinate{Lat: hk.Lat + 0.0001, Lng: hk.Lng}
	assert.InDelta(t, latStepMeters, geo.Distance(hk, near), 0.1)
}

func TestHitTest(t *testing.T) {
	click := geo.Coordinate{Lat: 22.3193, Lng: 114.1694}
	step := func(n float64) geo.Coordinate {
		return geo.Coordinate{Lat: click.Lat + n*0.0001, Lng: click.Lng}
	}

	t.Run("no candidates", func(t *testing.T) {
		assert.Equal(t, -1, geo.HitTest(click, nil, 20))
	})

	t.Run("all out of range", func(t *testing.T) {
		candidates := []geo.Coordinate{step(3), step(5)}
		assert.Equal(t, -1, geo.HitTest(click, candidates, 20))
	})

	t.Run("nearest wins", func(t *testing.T) {
		candidates := []geo.Coordinate{step(1.5), step(0.5), step(1)}
		assert.Equal(t, 1, geo.HitTest(click, candidates, 20))
	})

	t.Run("exact position", func(t *testing.T) {
		candidates := []geo.Coordinate{step(1), click}
		assert.Equal(t, 1, geo.HitTest(click, candidates, 20))
	})

	t.Run("threshold bounds the search", func(t *testing.T) {
		candidates := []geo.Coordinate{step(1)}
		assert.Equal(t, 0, geo.HitTest(click, candidates, 20))
		assert.Equal(t, -1, geo.HitTest(click, candidates, 5))
	})
}
