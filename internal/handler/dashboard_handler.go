package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleOwner))
	{
		dashboard.GET("/activity", h.GetActivity)
		dashboard.GET("/obligations", h.GetObligations)
	}
}

// GetActivity returns revenue and expense series bucketed by period
// @Summary      Activity series
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id   query     string  true   "Entity ID"
// @Param        group_by    query     string  false  "Bucket size: week, month, quarter, year (default month)"
// @Param        start_date  query     string  false  "RFC3339 start of range (default 12 months ago)"
// @Param        end_date    query     string  false  "RFC3339 end of range (default now)"
// @Success      200         {object}  response.Response{data=[]service.ActivityDataPoint}
// @Router       /api/dashboard/activity [get]
func (h *DashboardHandler) GetActivity(c *gin.Context) {
	entityID := c.Query("entity_id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "entity_id query parameter is required"))
		return
	}

	filter := service.ActivityFilter{
		GroupBy:   c.Query("group_by"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	points, err := h.dashboardService.GetActivity(c.Request.Context(), entityID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

// GetObligations returns the stored summary rows for a year without recomputing
// @Summary      Obligations overview
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id  query     string  true  "Entity ID"
// @Param        year       query     int     true  "Tax year"
// @Success      200        {object}  response.Response{data=[]service.ObligationSummary}
// @Router       /api/dashboard/obligations [get]
func (h *DashboardHandler) GetObligations(c *gin.Context) {
	entityID := c.Query("entity_id")
	year, err := strconv.Atoi(c.Query("year"))
	if entityID == "" || err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "entity_id and year query parameters are required"))
		return
	}

	obligations, err := h.dashboardService.GetObligations(c.Request.Context(), entityID, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, obligations))
}
