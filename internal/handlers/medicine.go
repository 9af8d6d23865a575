// internal/handlers/medicine.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmatrace/pharmatrace-backend/internal/services"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

type MedicineHandler struct {
	medicineService *services.MedicineService
	storageService  *services.StorageService
}

func NewMedicineHandler(medicineService *services.MedicineService, storageService *services.StorageService) *MedicineHandler {
	return &MedicineHandler{
		medicineService: medicineService,
		storageService:  storageService,
	}
}

// POST /medicines
func (h *MedicineHandler) Create(c *gin.Context) {
	address, ok := utils.GetAddressFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	medicine, err := h.medicineService.CreateMedicine(address, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"medicine": medicine})
}

// GET /medicines
func (h *MedicineHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	medicines, total, err := h.medicineService.ListMedicines(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// List views show the display label alongside the raw stage, mirroring
	// the stock table the legacy client rendered.
	type stockEntry struct {
		Medicine   interface{} `json:"medicine"`
		StageLabel string      `json:"stage_label"`
	}
	entries := make([]stockEntry, 0, len(medicines))
	for i := range medicines {
		entries = append(entries, stockEntry{
			Medicine:   &medicines[i],
			StageLabel: medicines[i].StageLabel(),
		})
	}

	utils.PaginatedResponse(c, utils.BuildPaginationResult(entries, total, params))
}

// GET /medicines/count
func (h *MedicineHandler) Count(c *gin.Context) {
	count, err := h.medicineService.CountMedicines()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"count": count})
}

// GET /medicines/:id
func (h *MedicineHandler) Get(c *gin.Context) {
	id, ok := idFromPath(c, "id")
	if !ok {
		return
	}

	medicine, err := h.medicineService.GetMedicine(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"medicine":    medicine,
		"stage_label": medicine.StageLabel(),
	})
}

// POST /medicines/:id/documents
func (h *MedicineHandler) UploadDocument(c *gin.Context) {
	// Storage can legitimately be absent (failed AWS session at boot).
	if h.storageService == nil {
		utils.ServiceUnavailableResponse(c, "document storage is not configured")
		return
	}

	address, ok := utils.GetAddressFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	id, ok := idFromPath(c, "id")
	if !ok {
		return
	}

	accountID := uuid.Nil
	if accountIDStr, ok := utils.GetAccountIDFromContext(c); ok {
		if parsed, err := uuid.Parse(accountIDStr); err == nil {
			accountID = parsed
		}
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err.Error())
		return
	}
	defer file.Close()

	upload, err := h.storageService.UploadFile(file, header, services.UploadOptions{
		Folder:       "medicine-documents",
		MaxSize:      10 * 1024 * 1024,
		AllowedTypes: []string{".pdf", ".png", ".jpg", ".jpeg"},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	document, err := h.medicineService.AttachDocument(address, id, accountID, upload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"document": document})
}

// GET /medicines/:id/documents
func (h *MedicineHandler) ListDocuments(c *gin.Context) {
	id, ok := idFromPath(c, "id")
	if !ok {
		return
	}

	documents, err := h.medicineService.ListDocuments(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"documents": documents})
}
