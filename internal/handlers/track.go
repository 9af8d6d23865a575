// internal/handlers/track.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pharmatrace/pharmatrace-backend/internal/services"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

// TrackHandler exposes the public verification surface: anyone holding a
// batch id (for instance from a scanned label) can read its custody trail.
type TrackHandler struct {
	provenanceService *services.ProvenanceService
}

func NewTrackHandler(provenanceService *services.ProvenanceService) *TrackHandler {
	return &TrackHandler{
		provenanceService: provenanceService,
	}
}

// GET /track/:id
func (h *TrackHandler) Trace(c *gin.Context) {
	id, ok := idFromPath(c, "id")
	if !ok {
		return
	}

	trace, err := h.provenanceService.Trace(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, trace)
}

// GET /track/:id/stage
func (h *TrackHandler) StageLabel(c *gin.Context) {
	id, ok := idFromPath(c, "id")
	if !ok {
		return
	}

	label, err := h.provenanceService.StageLabel(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"stage": label})
}
