// internal/services/provenance_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/pharmatrace/pharmatrace-backend/internal/models"
)

// ProvenanceService answers read-only custody queries. Traces of hot batches
// are cached briefly; the stage engine invalidates an entry the moment the
// batch advances, so a trace never lags behind a committed transition.
type ProvenanceService struct {
	db    *gorm.DB
	cache *gocache.Cache
}

// TraceResult is the reconstructed custody trail. Participants for stages
// not yet reached are omitted; a partial chain is a well-formed answer.
type TraceResult struct {
	Medicine     *models.Medicine    `json:"medicine"`
	Stage        string              `json:"stage"`
	Supplier     *models.Participant `json:"supplier,omitempty"`
	Manufacturer *models.Participant `json:"manufacturer,omitempty"`
	Distributor  *models.Participant `json:"distributor,omitempty"`
	Retailer     *models.Participant `json:"retailer,omitempty"`
}

func NewProvenanceService(db *gorm.DB) *ProvenanceService {
	return &ProvenanceService{
		db:    db,
		cache: gocache.New(30*time.Second, time.Minute),
	}
}

// Trace reconstructs the custody trail for one batch. Stage data is never
// stale: every transition evicts the cache entry before returning. Participant
// snapshots inside a cached trace can lag a ToggleParticipant by up to the
// cache TTL; custody keys and stages are unaffected.
func (s *ProvenanceService) Trace(medicineID uint) (*TraceResult, error) {
	key := strconv.FormatUint(uint64(medicineID), 10)
	if cached, found := s.cache.Get(key); found {
		return cached.(*TraceResult), nil
	}

	var medicine models.Medicine
	if err := s.db.First(&medicine, medicineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: medicine %d", ErrNotFound, medicineID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	result := &TraceResult{
		Medicine: &medicine,
		Stage:    medicine.Stage.Label(),
	}

	links := []struct {
		id   *uint
		role models.ParticipantRole
		dst  **models.Participant
	}{
		{medicine.SupplierID, models.RoleSupplier, &result.Supplier},
		{medicine.ManufacturerID, models.RoleManufacturer, &result.Manufacturer},
		{medicine.DistributorID, models.RoleDistributor, &result.Distributor},
		{medicine.RetailerID, models.RoleRetailer, &result.Retailer},
	}

	for _, link := range links {
		if link.id == nil {
			continue
		}
		var participant models.Participant
		if err := s.db.Where("role = ? AND id = ?", link.role, *link.id).First(&participant).Error; err != nil {
			// A set key always points at a participant that existed when the
			// transition committed; a miss here is corruption, not a 404.
			return nil, fmt.Errorf("failed to resolve %s %d: %w", link.role, *link.id, err)
		}
		*link.dst = &participant
	}

	s.cache.Set(key, result, gocache.DefaultExpiration)
	return result, nil
}

// StageLabel projects the batch's stage to its display label.
func (s *ProvenanceService) StageLabel(medicineID uint) (string, error) {
	trace, err := s.Trace(medicineID)
	if err != nil {
		return "", err
	}
	return trace.Stage, nil
}

func (s *ProvenanceService) Invalidate(medicineID uint) {
	s.cache.Delete(strconv.FormatUint(uint64(medicineID), 10))
}
