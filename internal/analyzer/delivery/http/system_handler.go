package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterSystemRoutes registers the health check and the Prometheus scrape endpoint.
func RegisterSystemRoutes(e *echo.Echo, version string) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "version": version})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
