// internal/models/medicine.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Medicine is a tracked batch. The four custody foreign keys are filled in
// one at a time as the batch advances; each is written exactly once and
// never overwritten, so the set of non-null keys always mirrors the stages
// already passed.
type Medicine struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Composition pq.StringArray `json:"composition,omitempty" gorm:"type:text[]"`
	Stage       MedicineStage  `json:"stage" gorm:"type:varchar(30);not null;default:'ordered';index"`

	SupplierID     *uint `json:"supplier_id"`
	ManufacturerID *uint `json:"manufacturer_id"`
	DistributorID  *uint `json:"distributor_id"`
	RetailerID     *uint `json:"retailer_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Documents []MedicineDocument `json:"documents,omitempty" gorm:"foreignKey:MedicineID"`
}

// StageLabel is a convenience projection used by list endpoints.
func (m *Medicine) StageLabel() string {
	return m.Stage.Label()
}

// MedicineDocument is an uploaded batch artifact (certificate of analysis,
// QR label image) stored in object storage.
type MedicineDocument struct {
	BaseModel
	MedicineID uint      `json:"medicine_id" gorm:"not null;index"`
	Key        string    `json:"key" gorm:"size:512;not null"`
	URL        string    `json:"url" gorm:"size:1024;not null"`
	MimeType   string    `json:"mime_type" gorm:"size:100"`
	Size       int64     `json:"size"`
	UploadedBy uuid.UUID `json:"uploaded_by" gorm:"type:uuid"`
}
