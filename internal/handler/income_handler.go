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

type IncomeHandler struct {
	incomeService service.IncomeService
}

func NewIncomeHandler(incomeService service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

func (h *IncomeHandler) RegisterRoutes(router *gin.RouterGroup) {
	incomes := router.Group("/api/incomes")
	incomes.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleOwner))
	{
		incomes.GET("", h.ListIncome)
		incomes.POST("", h.UpsertIncome)
		incomes.DELETE("/:id", h.DeleteIncome)
	}
}

// ListIncome returns income records for an entity's year
// @Summary      List income records
// @Tags         incomes
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id  query     string  true  "Entity ID"
// @Param        year       query     int     true  "Tax year"
// @Success      200        {object}  response.Response{data=[]service.IncomeResponse}
// @Router       /api/incomes [get]
func (h *IncomeHandler) ListIncome(c *gin.Context) {
	entityID := c.Query("entity_id")
	year, err := strconv.Atoi(c.Query("year"))
	if entityID == "" || err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "entity_id and year query parameters are required"))
		return
	}

	records, err := h.incomeService.ListIncome(c.Request.Context(), entityID, year)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// UpsertIncome creates or replaces the income record for a period
// @Summary      Upsert income record
// @Description  Creates the income record for an entity and period, replacing any existing one
// @Tags         incomes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpsertIncomeRequest  true  "Income Payload"
// @Success      200      {object}  response.Response{data=service.IncomeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/incomes [post]
func (h *IncomeHandler) UpsertIncome(c *gin.Context) {
	var req service.UpsertIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.incomeService.UpsertIncome(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// DeleteIncome removes an income record and flags affected summaries
// @Summary      Delete income record
// @Tags         incomes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Income record ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	if err := h.incomeService.DeleteIncome(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Income record deleted"))
}
