package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

// StreamCounter reports how many live streams the server is holding open.
type StreamCounter interface {
	ActiveStreams() int
}

type HealthHandler struct {
	checks  map[string]HealthCheck
	streams StreamCounter
}

func NewHealthHandler(checks map[string]HealthCheck, streams StreamCounter) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		streams: streams,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CheckDependencies runs every registered check with a short deadline.
func (h *HealthHandler) CheckDependencies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	body := map[string]interface{}{
		"status":       http.StatusText(status),
		"dependencies": results,
	}
	if h.streams != nil {
		body["active_streams"] = h.streams.ActiveStreams()
	}

	return c.JSON(status, body)
}
