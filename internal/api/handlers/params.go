package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// maxClusters bounds the k query parameter.
const maxClusters = 50

// parseFilter reads the dashboard query parameters. Unset numeric options stay
// zero so the service applies its configured defaults.
func parseFilter(c *gin.Context) (domain.DashboardFilter, error) {
	timeRange, err := domain.ParseTimeRange(c.Query("time_range"))
	if err != nil {
		return domain.DashboardFilter{}, err
	}

	filter := domain.DashboardFilter{
		RecordFilter: domain.RecordFilter{
			State:   domain.ParseSelector(c.Query("state"), domain.AllStates),
			Product: domain.ParseSelector(c.Query("product"), domain.AllProducts),
			Range:   timeRange,
		},
		ForecastProduct: strings.TrimSpace(c.Query("forecast_product")),
	}

	if filter.Clusters, err = positiveInt(c, "k", maxClusters); err != nil {
		return domain.DashboardFilter{}, err
	}
	if filter.Iterations, err = positiveInt(c, "iterations", 1000); err != nil {
		return domain.DashboardFilter{}, err
	}
	if filter.LedgerLimit, err = positiveInt(c, "limit", 1000); err != nil {
		return domain.DashboardFilter{}, err
	}
	if filter.SmoothingWindow, err = positiveInt(c, "window", 365); err != nil {
		return domain.DashboardFilter{}, err
	}

	if raw := strings.TrimSpace(c.Query("stop_when_stable")); raw != "" {
		stable, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.DashboardFilter{}, fmt.Errorf("invalid stop_when_stable: %q", raw)
		}
		filter.StopWhenStable = domain.ToggleOf(stable)
	}

	return filter, nil
}

// positiveInt returns 0 for an absent parameter and an error for anything
// that is not an integer in [1, max].
func positiveInt(c *gin.Context, param string, max int) (int, error) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > max {
		return 0, fmt.Errorf("invalid %s: must be an integer between 1 and %d", param, max)
	}
	return v, nil
}

func errorResponse(c *gin.Context, statusCode int, message string, err error) {
	event := log.Warn()
	if statusCode >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("path", c.Request.URL.Path).Msg(message)

	body := gin.H{"error": message}
	if err != nil && statusCode < http.StatusInternalServerError {
		body["error"] = err.Error()
	}
	c.JSON(statusCode, body)
}
