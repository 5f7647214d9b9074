package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCurrentUserID(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		// The JWT middleware stores the sub claim as decoded from
		// JSON, which makes numbers float64.
		{"float64 sub claim", float64(7), "7"},
		{"string sub claim", "9", "9"},
		{"uint64", uint64(12), "12"},
		{"int64", int64(13), "13"},
		{"int", 14, "14"},
		{"unauthenticated", nil, "anon"},
		{"empty string", "", "anon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest("GET", "/v1/movies", nil)
			c := e.NewContext(req, httptest.NewRecorder())
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			assert.Equal(t, tt.want, currentUserID(c))
		})
	}
}
