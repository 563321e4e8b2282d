// Package handlers implements forge's REST API endpoint handlers: a
// read-only view over the current-status map and the event sink's
// bucket history, plus a manual reload trigger.
package handlers

import (
	"log/slog"
	"time"

	"github.com/jroosing/forge/internal/eventsink"
	"github.com/jroosing/forge/internal/statusmap"
	"github.com/jroosing/forge/internal/supervisor"
)

// Handler contains the dependencies every endpoint handler needs.
type Handler struct {
	status     *statusmap.Map
	sink       eventsink.Sink
	supervisor *supervisor.Supervisor
	logger     *slog.Logger
	startTime  time.Time
}

// New creates a Handler wired to the supervisor's shared views.
func New(status *statusmap.Map, sink eventsink.Sink, sup *supervisor.Supervisor, logger *slog.Logger) *Handler {
	return &Handler{
		status:     status,
		sink:       sink,
		supervisor: sup,
		logger:     logger,
		startTime:  time.Now(),
	}
}
