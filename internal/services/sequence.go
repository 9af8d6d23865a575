// internal/services/sequence.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pharmatrace/pharmatrace-backend/internal/models"
)

// nextSequence claims the next id from a counter row. Callers must hold
// their service mutex and run inside the same transaction that persists the
// record the id is for, so a failed insert rolls the increment back.
func nextSequence(tx *gorm.DB, name string) (uint, error) {
	var counter models.Counter
	if err := tx.Where(models.Counter{Name: name}).FirstOrCreate(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to load counter %s: %w", name, err)
	}

	counter.Value++
	if err := tx.Save(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}

	return counter.Value, nil
}

// currentSequence reads a counter without touching it. A missing row means
// nothing was ever created, which reads as zero.
func currentSequence(db *gorm.DB, name string) (uint, error) {
	var counter models.Counter
	if err := db.Where("name = ?", name).First(&counter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return counter.Value, nil
}

// resolveParticipant maps a caller address to its participant record for one
// role. Duplicate addresses are legal, so the lowest id wins, matching the
// reference lookup that scanned ids in order.
func resolveParticipant(tx *gorm.DB, role models.ParticipantRole, address string) (*models.Participant, error) {
	var participant models.Participant
	err := tx.Where("role = ? AND address = ?", role, address).Order("id").First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &participant, nil
}
