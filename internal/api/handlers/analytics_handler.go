package handlers

import (
	"net/http"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid filter", err)
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to build dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *AnalyticsHandler) GetKPIs(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid filter", err)
		return
	}

	kpis, err := h.service.KPIs(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to compute kpis", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"filter": filter.Summary(), "kpis": kpis})
}

func (h *AnalyticsHandler) GetBreakdown(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid filter", err)
		return
	}

	breakdown, err := h.service.Breakdown(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to compute breakdown", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"filter": filter.Summary(), "breakdown": breakdown})
}

func (h *AnalyticsHandler) GetForecast(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid filter", err)
		return
	}

	forecast, err := h.service.Forecast(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to compute forecast", err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (h *AnalyticsHandler) GetClusters(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid filter", err)
		return
	}

	result, err := h.service.Clusters(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to cluster suppliers", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) GetTrend(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid filter", err)
		return
	}

	trend, err := h.service.Trend(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to compute trend", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"filter": filter.Summary(), "trend": trend})
}

func (h *AnalyticsHandler) GetLedger(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid filter", err)
		return
	}

	ledger, err := h.service.Ledger(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to fetch ledger", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ledger, "total": len(ledger)})
}
