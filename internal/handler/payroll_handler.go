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

type PayrollHandler struct {
	payrollService service.PayrollService
}

func NewPayrollHandler(payrollService service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

func (h *PayrollHandler) RegisterRoutes(router *gin.RouterGroup) {
	payroll := router.Group("/api/payroll-runs")
	payroll.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleOwner))
	{
		payroll.GET("", h.GetRuns)
		payroll.POST("", h.CreateRun)
		payroll.POST("/:id/finalize", h.FinalizeRun)
	}
}

// GetRuns returns an entity's payroll runs for a year
// @Summary      List payroll runs
// @Tags         payroll
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id  query     string  true  "Entity ID"
// @Param        year       query     int     true  "Tax year"
// @Success      200        {object}  response.Response{data=[]service.PayrollRunResponse}
// @Router       /api/payroll-runs [get]
func (h *PayrollHandler) GetRuns(c *gin.Context) {
	entityID := c.Query("entity_id")
	year, err := strconv.Atoi(c.Query("year"))
	if entityID == "" || err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "entity_id and year query parameters are required"))
		return
	}

	runs, err := h.payrollService.GetRuns(c.Request.Context(), entityID, year)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, runs))
}

// CreateRun creates a draft payroll run with PAYE computed per employee
// @Summary      Create payroll run
// @Tags         payroll
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePayrollRunRequest  true  "Create Payroll Run Payload"
// @Success      201      {object}  response.Response{data=service.PayrollRunResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/payroll-runs [post]
func (h *PayrollHandler) CreateRun(c *gin.Context) {
	var req service.CreatePayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	run, err := h.payrollService.CreateRun(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, run))
}

// FinalizeRun locks a payroll run so it counts toward the PAYE liability
// @Summary      Finalize payroll run
// @Tags         payroll
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payroll Run ID"
// @Success      200  {object}  response.Response{data=service.PayrollRunResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/payroll-runs/{id}/finalize [post]
func (h *PayrollHandler) FinalizeRun(c *gin.Context) {
	run, err := h.payrollService.FinalizeRun(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, run))
}
