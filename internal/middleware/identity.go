package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID as a string for
// building Redis keys.  JWTAuth stores the sub claim untyped, which
// arrives as float64 from JSON decoding, so numeric values are handled
// alongside strings.  Requests outside the JWT middleware (catalog
// browsing, health checks) rate-limit under "anon" plus their IP.
func currentUserID(c echo.Context) string {
	for _, key := range []string{"user_id", "userID"} {
		switch v := c.Get(key).(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatUint(uint64(v), 10)
		case uint64:
			return strconv.FormatUint(v, 10)
		case int64:
			return strconv.FormatInt(v, 10)
		case int:
			return strconv.Itoa(v)
		}
	}
	return "anon"
}
