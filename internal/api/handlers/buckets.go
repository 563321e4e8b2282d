package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/forge/internal/api/models"
	"github.com/jroosing/forge/internal/idgen"
)

// rangeAliases maps the query parameter's accepted spellings onto a
// duration; anything else falls back to 1 hour (§4.4).
var rangeAliases = map[string]time.Duration{
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"3h":  3 * time.Hour,
	"8h":  8 * time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// Buckets returns each requested endpoint's 30-bucket historical view
// over the requested range.
func (h *Handler) Buckets(c *gin.Context) {
	namesParam := c.Query("names")
	var names []string
	for _, n := range strings.Split(namesParam, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}

	rangeParam := c.Query("range")
	rng, ok := rangeAliases[rangeParam]
	if !ok {
		rng = time.Hour
	}

	idByName := make(map[string]string, len(names))
	ids := make([]string, 0, len(names))
	for _, n := range names {
		id := idgen.DeriveID(n)
		idByName[n] = id
		ids = append(ids, id)
	}

	byID, err := h.sink.Buckets(c.Request.Context(), ids, rng)
	if err != nil {
		h.logger.Warn("bucket query failed", "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "bucket query failed"})
		return
	}

	resp := models.BucketsResponse{
		Range:   strconv.Itoa(int(rng.Seconds())) + "s",
		Buckets: make(map[string][]string, len(names)),
	}
	for _, n := range names {
		statuses := byID[idByName[n]]
		asStrings := make([]string, len(statuses))
		for i, s := range statuses {
			asStrings[i] = string(s)
		}
		resp.Buckets[n] = asStrings
	}

	c.JSON(http.StatusOK, resp)
}
