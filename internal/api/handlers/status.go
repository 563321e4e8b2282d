package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/forge/internal/api/models"
)

// Status returns the current-status map's values, sorted by lowercase
// endpoint name.
func (h *Handler) Status(c *gin.Context) {
	snapshot := h.status.Snapshot()

	out := make([]models.EndpointStatus, 0, len(snapshot))
	for _, o := range snapshot {
		out = append(out, models.EndpointStatus{
			Name:            o.EndpointName,
			ResolvedAddress: o.ResolvedAddress,
			Description:     o.Description,
			Group:           o.Group,
			Tags:            o.Tags,
			IsUp:            o.IsUp,
			StatusCode:      o.StatusCode,
			ResponseTimeMs:  o.ResponseTimeMs,
			ErrorKind:       string(o.ErrorKind),
			ErrorMessage:    o.ErrorMessage,
		})
	}

	c.JSON(http.StatusOK, out)
}
