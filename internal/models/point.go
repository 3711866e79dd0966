package models

// DefaultUsername is substituted when a point or route is submitted without one.
const DefaultUsername = "Anonymous"

// TimestampLayout is the human-readable creation time format. Timestamps are
// display strings, immutable after creation, and never parsed back.
const TimestampLayout = "2006-01-02 15:04:05"

// Category classifies a point. Unknown values are preserved verbatim in
// storage and only normalized to CategoryOther for display and filtering.
type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryAttraction Category = "attraction"
	CategoryShopping   Category = "shopping"
	CategoryTransport  Category = "transport"
	CategoryOther      Category = "other"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryRestaurant,
	CategoryAttraction,
	CategoryShopping,
	CategoryTransport,
	CategoryOther,
}

var categoryIcons = map[Category]string{
	CategoryRestaurant: "🍽️",
	CategoryAttraction: "🏛️",
	CategoryShopping:   "🛍️",
	CategoryTransport:  "🚇",
	CategoryOther:      "📍",
}

// Known reports whether c is one of the fixed categories.
func (c Category) Known() bool {
	_, ok := categoryIcons[c]
	return ok
}

// Normalized returns c itself when known, CategoryOther otherwise.
func (c Category) Normalized() Category {
	if c.Known() {
		return c
	}
	return CategoryOther
}

// Icon returns the display icon for the category, falling back to the
// CategoryOther icon for unknown values.
func (c Category) Icon() string {
	return categoryIcons[c.Normalized()]
}

// Picture is an embedded image attachment. Data holds the encoded payload
// (a base64 data URL). The pictures of a point are append-only: edits
// concatenate new uploads after the existing ones.
type Picture struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Point is a persisted, user-authored map annotation.
type Point struct {
	ID        int64     `json:"id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Category  Category  `json:"category"`
	Tag       string    `json:"tag"`
	Comment   string    `json:"comment"`
	Username  string    `json:"username"`
	Timestamp string    `json:"timestamp"`
	Pictures  []Picture `json:"pictures,omitempty"`
}
