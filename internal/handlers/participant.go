// internal/handlers/participant.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pharmatrace/pharmatrace-backend/internal/models"
	"github.com/pharmatrace/pharmatrace-backend/internal/services"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

type ParticipantHandler struct {
	registryService *services.RegistryService
}

func NewParticipantHandler(registryService *services.RegistryService) *ParticipantHandler {
	return &ParticipantHandler{
		registryService: registryService,
	}
}

func roleFromPath(c *gin.Context) (models.ParticipantRole, bool) {
	role, err := models.ParseParticipantRole(c.Param("role"))
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return "", false
	}
	return role, true
}

func idFromPath(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		// Id 0 is the reserved "absent" value, never assigned.
		utils.NotFoundResponse(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// POST /participants/:role
func (h *ParticipantHandler) Register(c *gin.Context) {
	role, ok := roleFromPath(c)
	if !ok {
		return
	}

	var req services.RegisterParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	participant, err := h.registryService.RegisterParticipant(role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"participant": participant})
}

// GET /participants/:role
func (h *ParticipantHandler) List(c *gin.Context) {
	role, ok := roleFromPath(c)
	if !ok {
		return
	}

	participants, err := h.registryService.ListParticipants(role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"participants": participants})
}

// GET /participants/:role/count
func (h *ParticipantHandler) Count(c *gin.Context) {
	role, ok := roleFromPath(c)
	if !ok {
		return
	}

	count, err := h.registryService.CountParticipants(role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"count": count})
}

// GET /participants/:role/:id
func (h *ParticipantHandler) Get(c *gin.Context) {
	role, ok := roleFromPath(c)
	if !ok {
		return
	}
	id, ok := idFromPath(c, "id")
	if !ok {
		return
	}

	participant, err := h.registryService.GetParticipant(role, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"participant": participant})
}

// PUT /participants/:role/:id/toggle
func (h *ParticipantHandler) Toggle(c *gin.Context) {
	role, ok := roleFromPath(c)
	if !ok {
		return
	}
	id, ok := idFromPath(c, "id")
	if !ok {
		return
	}

	active, err := h.registryService.ToggleParticipant(role, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"active": active})
}
