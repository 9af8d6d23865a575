// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums

type ParticipantRole string

const (
	RoleSupplier     ParticipantRole = "supplier"
	RoleManufacturer ParticipantRole = "manufacturer"
	RoleDistributor  ParticipantRole = "distributor"
	RoleRetailer     ParticipantRole = "retailer"
)

// ParticipantRoles lists every custody role, in chain order.
var ParticipantRoles = []ParticipantRole{
	RoleSupplier,
	RoleManufacturer,
	RoleDistributor,
	RoleRetailer,
}

func ParseParticipantRole(s string) (ParticipantRole, error) {
	role := ParticipantRole(s)
	for _, r := range ParticipantRoles {
		if role == r {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown participant role %q", s)
}

type MedicineStage string

const (
	StageOrdered             MedicineStage = "ordered"
	StageRawMaterialSupplied MedicineStage = "raw_material_supplied"
	StageManufactured        MedicineStage = "manufactured"
	StageDistributed         MedicineStage = "distributed"
	StageRetail              MedicineStage = "retail"
	StageSold                MedicineStage = "sold"
)

// StageOrder is the only legal progression; transitions advance exactly one
// position and never move backwards.
var StageOrder = []MedicineStage{
	StageOrdered,
	StageRawMaterialSupplied,
	StageManufactured,
	StageDistributed,
	StageRetail,
	StageSold,
}

// Display labels the legacy tracking client keys on; do not rephrase.
var stageLabels = map[MedicineStage]string{
	StageOrdered:             "Ordered",
	StageRawMaterialSupplied: "Raw Material Supplied",
	StageManufactured:        "Manufactured",
	StageDistributed:         "Distributed",
	StageRetail:              "Retailered",
	StageSold:                "Sold",
}

// Label returns the display form of the stage. It is the stable contract
// surface for callers that must not depend on the enum's storage values.
func (s MedicineStage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// Counter row names. Participant counters reuse the role name.
const CounterMedicine = "medicine"

func (r ParticipantRole) CounterName() string {
	return string(r)
}
