package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Pinger checks a backing store.
type Pinger func(ctx context.Context) error

type HealthController struct {
	ping Pinger
	log  logrus.FieldLogger
}

// NewHealthController accepts a nil ping for stores without a connection.
func NewHealthController(ping Pinger, log logrus.FieldLogger) *HealthController {
	return &HealthController{ping: ping, log: log}
}

func (hc *HealthController) Health(c echo.Context) error {
	database := "connected"
	status := http.StatusOK
	if hc.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := hc.ping(ctx); err != nil {
			hc.log.WithError(err).Warn("Health check failed")
			database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	return c.JSON(status, map[string]string{
		"status":   http.StatusText(status),
		"database": database,
	})
}
