package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records privileged admin actions, currently role changes.
type AuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ActorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"actorId"`
	Action       string    `gorm:"size:64;index;not null" json:"action"`
	TargetUserID uuid.UUID `gorm:"type:uuid;index" json:"targetUserId"`
	OldValue     string    `gorm:"size:255" json:"oldValue"`
	NewValue     string    `gorm:"size:255" json:"newValue"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (log *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	return
}
