package server

import (
	"fmt"
	"net/http"
	"time"

	"domoticz2talkops/internal/core/domain"

	"github.com/carlmjohnson/versioninfo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/instructions", s.InstructionsHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, fmt.Sprintf("health_check: OK (%s)", versioninfo.Short()))
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

// InstructionsHandler exposes the latest published instructions, mostly for
// debugging what the assistant currently sees.
func (s *Server) InstructionsHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetInstructionsRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "instructions: FAIL")
	}
	response, ok := res.(domain.GetInstructionsResponse)
	if !ok {
		return c.String(http.StatusServiceUnavailable, "instructions: FAIL")
	}
	if !response.Published {
		return c.String(http.StatusNotFound, "instructions: not published yet")
	}
	return c.String(http.StatusOK, response.Instructions)
}
