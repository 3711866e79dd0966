package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOriginHost(t *testing.T) {
	assert.Equal(t, "example.com", extractOriginHost("https://example.com"))
	assert.Equal(t, "example.com:8080", extractOriginHost("http://example.com:8080"))
	assert.Equal(t, "localhost:3000", extractOriginHost("localhost:3000"))
}

func TestMatchOriginPattern(t *testing.T) {
	tests := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"example.com", "example.com", true},
		{"example.com", "evil.com", false},
		{"example.com:8080", "example.com:8080", true},
		{"example.com", "example.com:8080", false},
		{"*.example.com", "app.example.com", true},
		{"*.example.com", "example.org", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchOriginPattern(tt.pattern, tt.host), "%s vs %s", tt.pattern, tt.host)
	}
}
