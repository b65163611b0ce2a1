package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appMission "github.com/nexus-advisory/nexus-intelligence/internal/application/mission"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

// MissionHandler exposes mission profile CRUD.
type MissionHandler struct {
	service appMission.Service
}

// NewMissionHandler builds the mission handler.
func NewMissionHandler(service appMission.Service) *MissionHandler {
	return &MissionHandler{service: service}
}

// Create handles POST /api/v1/missions.
func (h *MissionHandler) Create(c *gin.Context) {
	var input appMission.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.Validation("invalid mission payload: "+err.Error()))
		return
	}

	profile, err := h.service.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, profile)
}

// Get handles GET /api/v1/missions/:id.
func (h *MissionHandler) Get(c *gin.Context) {
	profile, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

// Update handles PUT /api/v1/missions/:id.
func (h *MissionHandler) Update(c *gin.Context) {
	var input appMission.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.Validation("invalid mission payload: "+err.Error()))
		return
	}

	profile, err := h.service.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

// Delete handles DELETE /api/v1/missions/:id.
func (h *MissionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/v1/missions.
func (h *MissionHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	result, err := h.service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}
