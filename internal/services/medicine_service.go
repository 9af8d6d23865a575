// internal/services/medicine_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pharmatrace/pharmatrace-backend/internal/database"
	"github.com/pharmatrace/pharmatrace-backend/internal/models"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

// MedicineService is the batch ledger. Creation is the one role-gated write
// here: only an active manufacturer may order a batch into existence. Stage
// advancement lives in StageService.
type MedicineService struct {
	db *gorm.DB
	mu sync.Mutex
}

type CreateMedicineRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Composition []string `json:"composition,omitempty" validate:"max=50,dive,max=255"`
}

func NewMedicineService(db *gorm.DB) *MedicineService {
	return &MedicineService{db: db}
}

func (s *MedicineService) CreateMedicine(callerAddress string, req *CreateMedicineRequest) (*models.Medicine, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: name and description must not be blank", ErrInvalidInput)
	}

	manufacturer, err := resolveParticipant(s.db, models.RoleManufacturer, callerAddress)
	if err != nil {
		return nil, err
	}
	if manufacturer == nil {
		return nil, fmt.Errorf("%w: only a registered manufacturer can order a batch", ErrUnauthorized)
	}
	if !manufacturer.Active {
		return nil, fmt.Errorf("%w: manufacturer %d is deactivated", ErrUnauthorized, manufacturer.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var medicine *models.Medicine
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		id, err := nextSequence(tx, models.CounterMedicine)
		if err != nil {
			return err
		}

		medicine = &models.Medicine{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Composition: pq.StringArray(req.Composition),
			Stage:       models.StageOrdered,
		}
		return tx.Create(medicine).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"medicine_id":  medicine.ID,
		"manufacturer": manufacturer.ID,
		"name":         medicine.Name,
	}).Info("Medicine batch ordered")

	return medicine, nil
}

func (s *MedicineService) GetMedicine(id uint) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := s.db.First(&medicine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: medicine %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &medicine, nil
}

func (s *MedicineService) ListMedicines(params utils.PaginationParams) ([]models.Medicine, int64, error) {
	query := s.db.Model(&models.Medicine{})

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", err)
	}

	allowedSortFields := []string{"id", "name", "stage", "created_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var medicines []models.Medicine
	if err := query.Find(&medicines).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch medicines: %w", err)
	}

	return medicines, total, nil
}

func (s *MedicineService) CountMedicines() (uint, error) {
	return currentSequence(s.db, models.CounterMedicine)
}

// AttachDocument records an uploaded batch artifact. Gated like creation:
// the caller must be an active manufacturer.
func (s *MedicineService) AttachDocument(callerAddress string, medicineID uint, accountID uuid.UUID, upload *UploadResult) (*models.MedicineDocument, error) {
	if _, err := s.GetMedicine(medicineID); err != nil {
		return nil, err
	}

	manufacturer, err := resolveParticipant(s.db, models.RoleManufacturer, callerAddress)
	if err != nil {
		return nil, err
	}
	if manufacturer == nil || !manufacturer.Active {
		return nil, fmt.Errorf("%w: only an active manufacturer can attach batch documents", ErrUnauthorized)
	}

	document := &models.MedicineDocument{
		MedicineID: medicineID,
		Key:        upload.Key,
		URL:        upload.URL,
		MimeType:   upload.MimeType,
		Size:       upload.Size,
		UploadedBy: accountID,
	}
	if err := s.db.Create(document).Error; err != nil {
		return nil, fmt.Errorf("failed to attach document: %w", err)
	}

	return document, nil
}

func (s *MedicineService) ListDocuments(medicineID uint) ([]models.MedicineDocument, error) {
	if _, err := s.GetMedicine(medicineID); err != nil {
		return nil, err
	}

	var documents []models.MedicineDocument
	if err := s.db.Where("medicine_id = ?", medicineID).Order("created_at").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}
