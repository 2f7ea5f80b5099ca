package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Registration is a user's application to a ticket. The unique index on
// (ticket_id, user_id) is the authoritative guard against double
// registration; service-level pre-checks are an optimization only.
type Registration struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	TicketID    uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_ticket_user" json:"ticketId"`
	Ticket      *Ticket                     `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
	UserID      uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_ticket_user" json:"userId"`
	User        *User                       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PhoneNumber string                      `gorm:"not null" json:"phoneNumber"`
	Photos      datatypes.JSONSlice[string] `json:"photos"`
	Videos      datatypes.JSONSlice[string] `json:"videos"`
	Status      Status                      `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (registration *Registration) BeforeCreate(tx *gorm.DB) (err error) {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	return
}
