// README: Analytics handlers; fleet summary and revenue rollups.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/http/middleware"
	"fleetrent/internal/modules/analytics"
)

type AnalyticsHandler struct {
	analytics *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc}
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	out, err := h.analytics.Summary(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	out, err := h.analytics.Revenue(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, out)
}
