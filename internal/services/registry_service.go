// internal/services/registry_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pharmatrace/pharmatrace-backend/internal/database"
	"github.com/pharmatrace/pharmatrace-backend/internal/models"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

// RegistryService owns the four participant collections and their id
// counters. Registration is open onboarding: any authenticated caller may
// register any class, and duplicate addresses are allowed. Participants are
// never deleted; toggling Active is the only mutation after creation.
type RegistryService struct {
	db *gorm.DB

	// Serializes counter increments and toggles. The read-increment-insert
	// sequence must not interleave, or two registrations could claim the
	// same id.
	mu sync.Mutex
}

type RegisterParticipantRequest struct {
	Address        string   `json:"address" validate:"required,max=128"`
	Name           string   `json:"name" validate:"required,max=255"`
	Place          string   `json:"place" validate:"required,max=255"`
	Certifications []string `json:"certifications,omitempty" validate:"max=20,dive,max=255"`
}

func NewRegistryService(db *gorm.DB) *RegistryService {
	return &RegistryService{db: db}
}

func (s *RegistryService) RegisterParticipant(role models.ParticipantRole, req *RegisterParticipantRequest) (*models.Participant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Place) == "" {
		return nil, fmt.Errorf("%w: name and place must not be blank", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var participant *models.Participant
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		id, err := nextSequence(tx, role.CounterName())
		if err != nil {
			return err
		}

		participant = &models.Participant{
			ID:             id,
			Role:           role,
			Address:        req.Address,
			Name:           req.Name,
			Place:          req.Place,
			Active:         true,
			Certifications: pq.StringArray(req.Certifications),
		}
		return tx.Create(participant).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", role, err)
	}

	logrus.WithFields(logrus.Fields{
		"role":    role,
		"id":      participant.ID,
		"address": participant.Address,
	}).Info("Participant registered")

	return participant, nil
}

// ToggleParticipant flips the active flag and returns the new state. Any
// authenticated caller may toggle any participant; hardening this to an
// administrator role is a deliberate non-change (see DESIGN.md).
func (s *RegistryService) ToggleParticipant(role models.ParticipantRole, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active bool
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var participant models.Participant
		if err := tx.Where("role = ? AND id = ?", role, id).First(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s %d", ErrNotFound, role, id)
			}
			return fmt.Errorf("database error: %w", err)
		}

		participant.Active = !participant.Active
		active = participant.Active
		return tx.Save(&participant).Error
	})
	if err != nil {
		return false, err
	}

	logrus.WithFields(logrus.Fields{
		"role":   role,
		"id":     id,
		"active": active,
	}).Info("Participant toggled")

	return active, nil
}

func (s *RegistryService) GetParticipant(role models.ParticipantRole, id uint) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.Where("role = ? AND id = ?", role, id).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %d", ErrNotFound, role, id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &participant, nil
}

func (s *RegistryService) ListParticipants(role models.ParticipantRole) ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Where("role = ?", role).Order("id").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", role, err)
	}
	return participants, nil
}

func (s *RegistryService) CountParticipants(role models.ParticipantRole) (uint, error) {
	return currentSequence(s.db, role.CounterName())
}
