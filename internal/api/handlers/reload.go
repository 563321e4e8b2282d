package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/forge/internal/api/models"
)

// Reload requests a manual reconciliation pass. It never blocks: if a
// reload is already queued, this request coalesces with it and the
// response status is "already-pending".
func (h *Handler) Reload(c *gin.Context) {
	accepted := h.supervisor.TriggerReload()
	if !accepted {
		c.JSON(http.StatusAccepted, models.StatusResponse{Status: "already-pending"})
		return
	}
	c.JSON(http.StatusAccepted, models.StatusResponse{Status: "accepted"})
}
