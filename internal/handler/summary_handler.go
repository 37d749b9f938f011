package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/internal/tax"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryService service.SummaryService
}

func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	summaries := router.Group("/api/summaries")
	summaries.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleOwner))
	{
		summaries.GET("", h.GetSummary)
		summaries.GET("/overview", h.GetYearOverview)
		summaries.POST("/recalculate", h.Recalculate)
	}
}

type recalculateRequest struct {
	EntityID string `json:"entity_id" binding:"required,uuid"`
	TaxType  string `json:"tax_type" binding:"required"`
	Year     int    `json:"year" binding:"required"`
	Month    int    `json:"month"`
}

// summaryStatusCode maps computation errors to HTTP status codes
func summaryStatusCode(err error) int {
	switch {
	case errors.Is(err, tax.ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, tax.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, tax.ErrUnsupportedTaxYear):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tax.ErrInvalidRate), errors.Is(err, tax.ErrComputationInconsistency):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// GetSummary returns the tax summary for an entity, tax type, and period
// @Summary      Get tax summary
// @Description  Returns the cached summary, computing it on first read or when flagged stale
// @Tags         summaries
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id  query     string  true   "Entity ID"
// @Param        tax_type   query     string  true   "Tax type (PIT, CIT, VAT, WHT, PAYE)"
// @Param        year       query     int     true   "Tax year"
// @Param        month      query     int     false  "Month 1-12, omit or 0 for annual"
// @Success      200        {object}  response.Response{data=service.SummaryResponse}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      422        {object}  response.Response
// @Router       /api/summaries [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	entityID := c.Query("entity_id")
	taxType := c.Query("tax_type")
	year, yearErr := strconv.Atoi(c.Query("year"))
	if entityID == "" || taxType == "" || yearErr != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "entity_id, tax_type, and year query parameters are required"))
		return
	}
	month, _ := strconv.Atoi(c.DefaultQuery("month", "0"))

	summary, err := h.summaryService.GetSummary(c.Request.Context(), entityID, taxType, year, month)
	if err != nil {
		code := summaryStatusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetYearOverview returns every cached summary for an entity's year
// @Summary      Year overview
// @Tags         summaries
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id  query     string  true  "Entity ID"
// @Param        year       query     int     true  "Tax year"
// @Success      200        {object}  response.Response{data=[]service.SummaryResponse}
// @Failure      400        {object}  response.Response
// @Router       /api/summaries/overview [get]
func (h *SummaryHandler) GetYearOverview(c *gin.Context) {
	entityID := c.Query("entity_id")
	year, yearErr := strconv.Atoi(c.Query("year"))
	if entityID == "" || yearErr != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "entity_id and year query parameters are required"))
		return
	}

	summaries, err := h.summaryService.GetYearOverview(c.Request.Context(), entityID, year)
	if err != nil {
		code := summaryStatusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summaries))
}

// Recalculate forces a fresh computation, overwriting the cached summary
// @Summary      Recalculate tax summary
// @Tags         summaries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      handler.recalculateRequest  true  "Recalculate Payload"
// @Success      200      {object}  response.Response{data=service.SummaryResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/summaries/recalculate [post]
func (h *SummaryHandler) Recalculate(c *gin.Context) {
	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	summary, err := h.summaryService.Recalculate(c.Request.Context(), middleware.UserIDFromContext(c), req.EntityID, req.TaxType, req.Year, req.Month)
	if err != nil {
		code := summaryStatusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
