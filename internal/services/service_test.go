package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/castcall/castcall/internal/authz"
	"github.com/castcall/castcall/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Ticket{}, &models.Registration{}, &models.AuditLog{})
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	user := models.User{
		Name:     name,
		LastName: "Test",
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func principalFor(user *models.User) *authz.Principal {
	return &authz.Principal{UserID: user.ID, Role: user.Role}
}

func createTestTicket(t *testing.T, db *gorm.DB, creator *models.User, status models.Status) *models.Ticket {
	ticket := models.Ticket{
		Title:       "Lead Role",
		Description: "Feature film lead",
		Category:    models.CategoryCinema,
		Location:    "Tehran",
		Date:        time.Now().AddDate(0, 1, 0),
		Status:      status,
		CreatedByID: creator.ID,
	}
	require.NoError(t, db.Create(&ticket).Error)
	return &ticket
}

func createTestRegistration(t *testing.T, db *gorm.DB, ticketID, userID uuid.UUID, phone string) *models.Registration {
	registration := models.Registration{
		TicketID:    ticketID,
		UserID:      userID,
		PhoneNumber: phone,
		Status:      models.StatusPending,
	}
	require.NoError(t, db.Create(&registration).Error)
	return &registration
}
