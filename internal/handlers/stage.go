// internal/handlers/stage.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pharmatrace/pharmatrace-backend/internal/services"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

type StageHandler struct {
	stageService *services.StageService
}

func NewStageHandler(stageService *services.StageService) *StageHandler {
	return &StageHandler{
		stageService: stageService,
	}
}

func (h *StageHandler) advance(c *gin.Context, kind services.TransitionKind) {
	address, ok := utils.GetAddressFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	id, ok := idFromPath(c, "id")
	if !ok {
		return
	}

	medicine, err := h.stageService.Transition(kind, id, address)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"medicine":    medicine,
		"stage_label": medicine.StageLabel(),
	})
}

// PUT /medicines/:id/supply
func (h *StageHandler) SupplyRawMaterial(c *gin.Context) {
	h.advance(c, services.TransitionSupplyRawMaterial)
}

// PUT /medicines/:id/manufacture
func (h *StageHandler) Manufacture(c *gin.Context) {
	h.advance(c, services.TransitionManufacture)
}

// PUT /medicines/:id/distribute
func (h *StageHandler) Distribute(c *gin.Context) {
	h.advance(c, services.TransitionDistribute)
}

// PUT /medicines/:id/retail
func (h *StageHandler) Retail(c *gin.Context) {
	h.advance(c, services.TransitionRetail)
}

// PUT /medicines/:id/sell
func (h *StageHandler) MarkSold(c *gin.Context) {
	h.advance(c, services.TransitionMarkSold)
}
