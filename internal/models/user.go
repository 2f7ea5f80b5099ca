package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	LastName     string     `gorm:"not null" json:"lastName"`
	Email        string     `gorm:"unique;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	Role         Role       `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Age          *int       `json:"age,omitempty"`
	Address      *string    `json:"address,omitempty"`
	PhoneNumber  *string    `json:"phoneNumber,omitempty"`
	ProfilePhoto *string    `json:"profilePhoto,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
