// Package http provides the HTTP server implementation for taskpilot.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	v1 "github.com/taskpilot/taskpilot/internal/transport/http/v1"
)

// NewServer creates and configures the API server.
func NewServer(handler *v1.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handler.RegisterRoutes(e)

	return e
}
