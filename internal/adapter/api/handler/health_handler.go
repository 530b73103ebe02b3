package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Probe reports whether a backing service is reachable.
type Probe func(ctx context.Context) error

type HealthHandler struct {
	storageDriver string
	probes        map[string]Probe
}

var healthHandler *HealthHandler

func NewHealthHandler(storageDriver string, probes map[string]Probe) *HealthHandler {
	return &HealthHandler{
		storageDriver: storageDriver,
		probes:        probes,
	}
}

func SetupHealthHandler(storageDriver string, probes map[string]Probe) {
	healthHandler = NewHealthHandler(storageDriver, probes)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "Server is running",
		"storage": h.storageDriver,
		"time":    time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.probes))
	for name, probe := range h.probes {
		if err := probe(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	return c.JSON(status, map[string]interface{}{
		"ready":  status == http.StatusOK,
		"checks": results,
	})
}
