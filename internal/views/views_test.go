package views

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/castcall/castcall/internal/models"
)

func sampleCreator() *models.User {
	phone := "555-9999"
	address := "Private Rd 1"
	return &models.User{
		ID:          uuid.New(),
		Name:        "Sara",
		LastName:    "Karimi",
		Email:       "sara@example.com",
		Role:        models.RoleCasting,
		PhoneNumber: &phone,
		Address:     &address,
	}
}

func TestNewPublicTicket_RedactsCreator(t *testing.T) {
	creator := sampleCreator()
	ticket := &models.Ticket{
		ID:        uuid.New(),
		Title:     "Lead Role",
		Category:  models.CategoryCinema,
		Status:    models.StatusApproved,
		Images:    datatypes.NewJSONSlice([]string{"img-1"}),
		CreatedBy: creator,
	}

	view := NewPublicTicket(ticket, 3)
	assert.Equal(t, int64(3), view.RegisteredCount)
	require.NotNil(t, view.CreatedBy)
	assert.Equal(t, creator.Name, view.CreatedBy.Name)
	assert.Equal(t, creator.Email, view.CreatedBy.Email)

	// Creator PII beyond name and email must not survive serialization.
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "555-9999")
	assert.NotContains(t, string(raw), "Private Rd 1")
}

func TestNewUserSummaries_RedactsApplicants(t *testing.T) {
	phone := "555-9999"
	address := "Private Rd 1"
	applicant := models.User{
		ID:          uuid.New(),
		Name:        "Nima",
		LastName:    "Amiri",
		Email:       "nima@example.com",
		Role:        models.RoleUser,
		PhoneNumber: &phone,
		Address:     &address,
	}

	ticket := &models.Ticket{ID: uuid.New(), Title: "Lead Role"}
	view := NewPublicTicket(ticket, 1)
	view.RegisteredUsers = NewUserSummaries([]models.User{applicant})

	require.Len(t, view.RegisteredUsers, 1)
	assert.Equal(t, "Nima", view.RegisteredUsers[0].Name)
	assert.Equal(t, "nima@example.com", view.RegisteredUsers[0].Email)

	// The public roster summary exposes name and email only.
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "registeredUsers")
	assert.NotContains(t, string(raw), "555-9999")
	assert.NotContains(t, string(raw), "Private Rd 1")
}

func TestNewTicketRoster(t *testing.T) {
	age := 24
	dob := time.Date(2001, 5, 12, 0, 0, 0, 0, time.UTC)
	address := "12 Main St"
	applicant := &models.User{
		ID:          uuid.New(),
		Name:        "Nima",
		LastName:    "Amiri",
		Email:       "nima@example.com",
		Role:        models.RoleUser,
		Age:         &age,
		DateOfBirth: &dob,
		Address:     &address,
	}
	ticket := &models.Ticket{ID: uuid.New(), Title: "Lead Role"}

	registrations := []models.Registration{
		{
			ID:          uuid.New(),
			TicketID:    ticket.ID,
			UserID:      applicant.ID,
			User:        applicant,
			PhoneNumber: "555-0100",
			Photos:      datatypes.NewJSONSlice([]string{"p1"}),
			Status:      models.StatusPending,
			CreatedAt:   time.Now(),
		},
	}

	roster := NewTicketRoster(ticket, registrations)
	assert.Equal(t, ticket.ID, roster.Ticket.ID)
	assert.Equal(t, 1, roster.Ticket.RegisteredCount)
	require.Len(t, roster.RegisteredUsers, 1)

	entry := roster.RegisteredUsers[0]
	assert.Equal(t, "Nima", entry.Name)
	assert.Equal(t, "555-0100", entry.PhoneNumber)
	require.NotNil(t, entry.Address)
	assert.Equal(t, address, *entry.Address)
	assert.Equal(t, []string{"p1"}, entry.Photos)
}

func TestNewMyRegistration(t *testing.T) {
	ticket := &models.Ticket{
		ID:       uuid.New(),
		Title:    "Lead Role",
		Category: models.CategorySerial,
		Status:   models.StatusApproved,
	}
	registration := &models.Registration{
		ID:          uuid.New(),
		Ticket:      ticket,
		PhoneNumber: "555-0100",
		Status:      models.StatusApproved,
		CreatedAt:   time.Now(),
	}

	view := NewMyRegistration(registration)
	assert.Equal(t, models.StatusApproved, view.Status)
	require.NotNil(t, view.Ticket)
	assert.Equal(t, ticket.Title, view.Ticket.Title)
	assert.Equal(t, models.StatusApproved, view.Ticket.Status)

	// The own-list view never carries other applicants.
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "registeredUsers")
}

func TestNewMyRegistrationList_Empty(t *testing.T) {
	list := NewMyRegistrationList(nil)
	assert.NotNil(t, list)
	assert.Len(t, list, 0)
}
