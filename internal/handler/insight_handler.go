package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/act-collective/intelligence-service/internal/service"
	"github.com/act-collective/intelligence-service/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InsightHandler handles coverage, financial metric and forecast HTTP requests
type InsightHandler struct {
	coverageService *service.CoverageService
	metricsService  *service.MetricsService
	forecastService *service.ForecastService
	defaultWindow   int
	defaultHorizon  int
	logger          *zap.Logger
}

// NewInsightHandler creates a new insight handler. defaultWindow and
// defaultHorizon apply when the request omits the corresponding query
// parameter; zero values fall back to the engine defaults.
func NewInsightHandler(
	coverageService *service.CoverageService,
	metricsService *service.MetricsService,
	forecastService *service.ForecastService,
	defaultWindow int,
	defaultHorizon int,
	logger *zap.Logger,
) *InsightHandler {
	if defaultWindow < 1 {
		defaultWindow = service.DefaultRunwayWindow
	}
	if defaultHorizon < 1 {
		defaultHorizon = service.DefaultHorizonYears
	}
	return &InsightHandler{
		coverageService: coverageService,
		metricsService:  metricsService,
		forecastService: forecastService,
		defaultWindow:   defaultWindow,
		defaultHorizon:  defaultHorizon,
		logger:          logger,
	}
}

// GetCoverage handles retrieving the tagging coverage report
// GET /api/v1/coverage
func (h *InsightHandler) GetCoverage(c *gin.Context) {
	report, err := h.coverageService.ComputeCoverage(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute coverage", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to compute coverage")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// GetRunway handles retrieving the runway snapshot
// GET /api/v1/metrics/runway
func (h *InsightHandler) GetRunway(c *gin.Context) {
	asOf, ok := utils.ParseDateParam(c, "as_of", time.Now().UTC())
	if !ok {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	window := h.defaultWindow
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid window, expected a positive integer")
			return
		}
		window = parsed
	}

	snapshot, err := h.metricsService.Runway(c.Request.Context(), asOf, window)
	if err != nil {
		h.logger.Error("Failed to compute runway", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to compute runway")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snapshot})
}

// GetGrantCliffs handles retrieving upcoming grant expiries
// GET /api/v1/metrics/grant-cliffs
func (h *InsightHandler) GetGrantCliffs(c *gin.Context) {
	asOf, ok := utils.ParseDateParam(c, "as_of", time.Now().UTC())
	if !ok {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	cliffs, err := h.metricsService.GrantCliffs(c.Request.Context(), asOf)
	if err != nil {
		h.logger.Error("Failed to compute grant cliffs", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to compute grant cliffs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cliffs})
}

// GetRDOffset handles retrieving the R&D offset summary for a fiscal year
// GET /api/v1/metrics/rd-offset
func (h *InsightHandler) GetRDOffset(c *gin.Context) {
	fiscalYear := fiscalYearFor(time.Now().UTC())
	if raw := c.Query("fiscal_year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid fiscal_year")
			return
		}
		fiscalYear = parsed
	}

	summary, err := h.metricsService.RDOffset(c.Request.Context(), fiscalYear)
	if err != nil {
		h.logger.Error("Failed to compute R&D offset", zap.Int("fiscal_year", fiscalYear), zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to compute R&D offset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// GetForecast handles retrieving scenario revenue projections
// GET /api/v1/forecast/scenarios
func (h *InsightHandler) GetForecast(c *gin.Context) {
	horizon := h.defaultHorizon
	if raw := c.Query("horizon"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid horizon, expected 1-50")
			return
		}
		horizon = parsed
	}

	startYear := time.Now().UTC().Year()
	if raw := c.Query("start_year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid start_year")
			return
		}
		startYear = parsed
	}

	projections, err := h.forecastService.ProjectScenarios(c.Request.Context(), horizon, startYear)
	if err != nil {
		h.logger.Error("Failed to project scenarios", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to project scenarios")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": projections})
}

// fiscalYearFor maps a date to the Australian fiscal year it falls in.
// July onwards belongs to the following year's label.
func fiscalYearFor(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year() + 1
	}
	return t.Year()
}
