// internal/services/stage_service.go
package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pharmatrace/pharmatrace-backend/internal/database"
	"github.com/pharmatrace/pharmatrace-backend/internal/models"
)

// TransitionKind is the closed set of custody transitions. The reference
// client picked transitions by string name at runtime; keeping them as an
// enum makes the legal operations checkable at compile time.
type TransitionKind int

const (
	TransitionSupplyRawMaterial TransitionKind = iota
	TransitionManufacture
	TransitionDistribute
	TransitionRetail
	TransitionMarkSold
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionSupplyRawMaterial:
		return "supply_raw_material"
	case TransitionManufacture:
		return "manufacture"
	case TransitionDistribute:
		return "distribute"
	case TransitionRetail:
		return "retail"
	case TransitionMarkSold:
		return "mark_sold"
	default:
		return fmt.Sprintf("transition(%d)", int(k))
	}
}

// transitionRule binds a kind to its required predecessor stage, the role
// allowed to apply it, and the custody foreign key it locks in. markSold
// writes no new key; the retailer link from the previous step stands.
type transitionRule struct {
	from models.MedicineStage
	to   models.MedicineStage
	role models.ParticipantRole
	link func(*models.Medicine, uint)
}

var transitionRules = map[TransitionKind]transitionRule{
	TransitionSupplyRawMaterial: {
		from: models.StageOrdered,
		to:   models.StageRawMaterialSupplied,
		role: models.RoleSupplier,
		link: func(m *models.Medicine, id uint) { m.SupplierID = &id },
	},
	TransitionManufacture: {
		from: models.StageRawMaterialSupplied,
		to:   models.StageManufactured,
		role: models.RoleManufacturer,
		link: func(m *models.Medicine, id uint) { m.ManufacturerID = &id },
	},
	TransitionDistribute: {
		from: models.StageManufactured,
		to:   models.StageDistributed,
		role: models.RoleDistributor,
		link: func(m *models.Medicine, id uint) { m.DistributorID = &id },
	},
	TransitionRetail: {
		from: models.StageDistributed,
		to:   models.StageRetail,
		role: models.RoleRetailer,
		link: func(m *models.Medicine, id uint) { m.RetailerID = &id },
	},
	TransitionMarkSold: {
		from: models.StageRetail,
		to:   models.StageSold,
		role: models.RoleRetailer,
		link: nil,
	},
}

// StageService is the sole writer of a medicine's stage and custody keys.
// Transitions on the same batch serialize on a per-medicine mutex held
// across the whole validate-then-write transaction; without it the stage
// check and the write would race.
type StageService struct {
	db         *gorm.DB
	provenance *ProvenanceService

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewStageService(db *gorm.DB, provenance *ProvenanceService) *StageService {
	return &StageService{
		db:         db,
		provenance: provenance,
		locks:      make(map[uint]*sync.Mutex),
	}
}

func (s *StageService) lockFor(medicineID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[medicineID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[medicineID] = lock
	}
	return lock
}

// Transition validates and applies one custody step. Checks run in a fixed
// order and the first failure wins: batch exists, caller resolves to a
// participant of the required role, that participant is active, and the
// current stage equals the required predecessor. The stage advance and the
// foreign-key write commit together or not at all.
func (s *StageService) Transition(kind TransitionKind, medicineID uint, callerAddress string) (*models.Medicine, error) {
	rule, ok := transitionRules[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown transition", ErrInvalidTransition)
	}

	lock := s.lockFor(medicineID)
	lock.Lock()
	defer lock.Unlock()

	var medicine *models.Medicine
	var participant *models.Participant
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var m models.Medicine
		if err := tx.First(&m, medicineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: medicine %d", ErrNotFound, medicineID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		p, err := resolveParticipant(tx, rule.role, callerAddress)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: caller is not a registered %s", ErrUnauthorized, rule.role)
		}
		if !p.Active {
			return fmt.Errorf("%w: %s %d is deactivated", ErrUnauthorized, rule.role, p.ID)
		}

		if m.Stage != rule.from {
			return fmt.Errorf("%w: %s requires stage %q, medicine %d is at %q",
				ErrInvalidTransition, kind, rule.from, m.ID, m.Stage)
		}

		m.Stage = rule.to
		if rule.link != nil {
			rule.link(&m, p.ID)
		}
		if err := tx.Save(&m).Error; err != nil {
			return fmt.Errorf("failed to apply %s: %w", kind, err)
		}

		medicine = &m
		participant = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.provenance.Invalidate(medicineID)

	logrus.WithFields(logrus.Fields{
		"medicine_id": medicine.ID,
		"transition":  kind.String(),
		"stage":       medicine.Stage,
		"role":        rule.role,
		"participant": participant.ID,
	}).Info("Custody stage advanced")

	return medicine, nil
}

func (s *StageService) SupplyRawMaterial(medicineID uint, callerAddress string) (*models.Medicine, error) {
	return s.Transition(TransitionSupplyRawMaterial, medicineID, callerAddress)
}

func (s *StageService) Manufacture(medicineID uint, callerAddress string) (*models.Medicine, error) {
	return s.Transition(TransitionManufacture, medicineID, callerAddress)
}

func (s *StageService) Distribute(medicineID uint, callerAddress string) (*models.Medicine, error) {
	return s.Transition(TransitionDistribute, medicineID, callerAddress)
}

func (s *StageService) Retail(medicineID uint, callerAddress string) (*models.Medicine, error) {
	return s.Transition(TransitionRetail, medicineID, callerAddress)
}

func (s *StageService) MarkSold(medicineID uint, callerAddress string) (*models.Medicine, error) {
	return s.Transition(TransitionMarkSold, medicineID, callerAddress)
}
