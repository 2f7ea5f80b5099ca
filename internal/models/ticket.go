package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryCinema Category = "cinema"
	CategorySerial Category = "serial"
)

func (c Category) IsValid() bool {
	return c == CategoryCinema || c == CategorySerial
}

// Ticket is an audition posting. It is always created pending and only an
// admin moves it to approved or rejected. The roster of registered users is
// not stored here; it is derived from the registrations table.
type Ticket struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Description string                      `gorm:"not null" json:"description"`
	Category    Category                    `gorm:"type:varchar(16);not null" json:"category"`
	Location    string                      `gorm:"not null" json:"location"`
	Date        time.Time                   `gorm:"not null" json:"date"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Status      Status                      `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedByID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"createdById"`
	CreatedBy   *User                       `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
