package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers load balancer and uptime probes with a plain 200 "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
