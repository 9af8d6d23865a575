// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/pharmatrace/pharmatrace-backend/internal/services"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

// respondServiceError maps engine error kinds to HTTP statuses. Anything not
// wrapping a known kind is an infrastructure failure and surfaces as 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
