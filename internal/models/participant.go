// internal/models/participant.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// Participant is a registered custody-chain actor. Each role keeps its own
// dense id sequence starting at 1, so the primary key is (role, id). Records
// are never deleted; deactivation only flips Active.
type Participant struct {
	ID             uint            `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Role           ParticipantRole `json:"role" gorm:"primaryKey;type:varchar(20)"`
	Address        string          `json:"address" gorm:"size:128;not null;index"`
	Name           string          `json:"name" gorm:"size:255;not null"`
	Place          string          `json:"place" gorm:"size:255;not null"`
	Active         bool            `json:"active" gorm:"not null;default:true"`
	Certifications pq.StringArray  `json:"certifications,omitempty" gorm:"type:text[]"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Counter backs the monotonically increasing id sequences: one row per
// participant role plus one for medicines. Values are incremented exactly
// once per successful creation and never reused.
type Counter struct {
	Name      string    `json:"name" gorm:"primaryKey;size:32"`
	Value     uint      `json:"value" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
