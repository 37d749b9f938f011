package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/internal/tax"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type EntityHandler struct {
	entityService service.EntityService
}

func NewEntityHandler(entityService service.EntityService) *EntityHandler {
	return &EntityHandler{entityService: entityService}
}

func (h *EntityHandler) RegisterRoutes(router *gin.RouterGroup) {
	entities := router.Group("/api/entities")
	entities.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleOwner))
	{
		entities.GET("", h.GetEntities)
		entities.GET("/:id", h.GetEntity)
		entities.POST("", h.CreateEntity)
		entities.PUT("/:id", h.UpdateEntity)
		entities.DELETE("/:id", h.DeleteEntity)
	}
}

// GetEntities returns the caller's taxed entities, paginated
// @Summary      List entities
// @Tags         entities
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/entities [get]
func (h *EntityHandler) GetEntities(c *gin.Context) {
	params := pagination.Parse(c)

	entities, total, err := h.entityService.GetEntities(c.Request.Context(), middleware.UserIDFromContext(c), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"entities": entities,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetEntity returns a single entity by ID
// @Summary      Get entity
// @Tags         entities
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Entity ID"
// @Success      200  {object}  response.Response{data=service.EntityResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/entities/{id} [get]
func (h *EntityHandler) GetEntity(c *gin.Context) {
	entity, err := h.entityService.GetEntity(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, tax.ErrEntityNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Entity not found"))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entity))
}

// CreateEntity registers a new taxed entity under the authenticated user
// @Summary      Create entity
// @Tags         entities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEntityRequest  true  "Create Entity Payload"
// @Success      201      {object}  response.Response{data=service.EntityResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/entities [post]
func (h *EntityHandler) CreateEntity(c *gin.Context) {
	var req service.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entity, err := h.entityService.CreateEntity(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entity))
}

// UpdateEntity modifies entity profile fields
// @Summary      Update entity
// @Tags         entities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Entity ID"
// @Param        payload  body      service.UpdateEntityRequest  true  "Update Entity Payload"
// @Success      200      {object}  response.Response{data=service.EntityResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/entities/{id} [put]
func (h *EntityHandler) UpdateEntity(c *gin.Context) {
	var req service.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entity, err := h.entityService.UpdateEntity(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, tax.ErrEntityNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Entity not found"))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entity))
}

// DeleteEntity soft-deletes an entity
// @Summary      Delete entity
// @Tags         entities
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Entity ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/entities/{id} [delete]
func (h *EntityHandler) DeleteEntity(c *gin.Context) {
	if err := h.entityService.DeleteEntity(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		if errors.Is(err, tax.ErrEntityNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Entity not found"))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Entity deleted"))
}
