package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RemittanceHandler struct {
	remittanceService service.RemittanceService
}

func NewRemittanceHandler(remittanceService service.RemittanceService) *RemittanceHandler {
	return &RemittanceHandler{remittanceService: remittanceService}
}

func (h *RemittanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	remittances := router.Group("/api/remittances")
	remittances.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleOwner))
	{
		remittances.GET("", h.GetRemittances)
		remittances.POST("", h.CreateRemittance)
	}
}

// GetRemittances returns an entity's tax payments, optionally filtered by tax type
// @Summary      List remittances
// @Tags         remittances
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id  query     string  true   "Entity ID"
// @Param        tax_type   query     string  false  "Filter by tax type (PIT, CIT, VAT, WHT, PAYE)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=object}
// @Router       /api/remittances [get]
func (h *RemittanceHandler) GetRemittances(c *gin.Context) {
	entityID := c.Query("entity_id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "entity_id query parameter is required"))
		return
	}

	params := pagination.Parse(c)

	remittances, total, err := h.remittanceService.GetRemittances(c.Request.Context(), entityID, c.Query("tax_type"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"remittances": remittances,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// CreateRemittance records a tax payment against a period
// @Summary      Create remittance
// @Tags         remittances
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRemittanceRequest  true  "Create Remittance Payload"
// @Success      201      {object}  response.Response{data=service.RemittanceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/remittances [post]
func (h *RemittanceHandler) CreateRemittance(c *gin.Context) {
	var req service.CreateRemittanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	remittance, err := h.remittanceService.CreateRemittance(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, remittance))
}
