package models_test

import (
	"testing"

	"github.com/mapmark/core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCategoryNormalized(t *testing.T) {
	for _, c := range models.Categories {
		assert.True(t, c.Known())
		assert.Equal(t, c, c.Normalized())
	}

	unknown := models.Category("volcano")
	assert.False(t, unknown.Known())
	assert.Equal(t, models.CategoryOther, unknown.Normalized())
	assert.Equal(t, models.CategoryOther.Icon(), unknown.Icon())
}

func TestCategoryIcons(t *testing.T) {
	seen := map[string]models.Category{}
	for _, c := range models.Categories {
		icon := c.Icon()
		assert.NotEmpty(t, icon)
		if prev, dup := seen[icon]; dup {
			t.Errorf("%s and %s share icon %s", prev, c, icon)
		}
		seen[icon] = c
	}
}

func TestDefaultRoutePointName(t *testing.T) {
	assert.Equal(t, "Route Point 1", models.DefaultRoutePointName(1))
	assert.Equal(t, "Route Point 12", models.DefaultRoutePointName(12))
}
