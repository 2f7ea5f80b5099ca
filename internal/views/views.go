// Package views builds the role-specific response shapes. Each view redacts
// differently: the public ticket view only exposes the creator's name and
// email, the roster view is the single place applicant contact details
// appear, and the own-list view never exposes other applicants.
package views

import (
	"time"

	"github.com/google/uuid"

	"github.com/castcall/castcall/internal/models"
)

// UserSummary is the public-safe slice of a user: name and email only.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func NewUserSummaries(users []models.User) []UserSummary {
	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, UserSummary{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
	}
	return summaries
}

// PublicTicket is the listing/detail shape any caller may see.
// RegisteredUsers is only filled on the single-ticket detail view.
type PublicTicket struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        models.Category `json:"category"`
	Location        string          `json:"location"`
	Date            time.Time       `json:"date"`
	Images          []string        `json:"images"`
	Status          models.Status   `json:"status"`
	CreatedBy       *UserSummary    `json:"createdBy,omitempty"`
	RegisteredCount int64           `json:"registeredCount"`
	RegisteredUsers []UserSummary   `json:"registeredUsers,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func NewPublicTicket(ticket *models.Ticket, registeredCount int64) PublicTicket {
	view := PublicTicket{
		ID:              ticket.ID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Category:        ticket.Category,
		Location:        ticket.Location,
		Date:            ticket.Date,
		Images:          ticket.Images,
		Status:          ticket.Status,
		RegisteredCount: registeredCount,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
	if ticket.CreatedBy != nil {
		view.CreatedBy = &UserSummary{
			ID:    ticket.CreatedBy.ID,
			Name:  ticket.CreatedBy.Name,
			Email: ticket.CreatedBy.Email,
		}
	}
	return view
}

// RosterEntry is one applicant on the owner's registration roster. This is
// the only view carrying applicant phone numbers and addresses, so it must
// only ever be built for the ticket creator or an admin.
type RosterEntry struct {
	UserID       uuid.UUID     `json:"userId"`
	Name         string        `json:"name"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	Role         models.Role   `json:"role"`
	DateOfBirth  *time.Time    `json:"dateOfBirth,omitempty"`
	Age          *int          `json:"age,omitempty"`
	Address      *string       `json:"address,omitempty"`
	ProfilePhoto *string       `json:"profilePhoto,omitempty"`
	PhoneNumber  string        `json:"phoneNumber"`
	Photos       []string      `json:"photos"`
	Videos       []string      `json:"videos"`
	Status       models.Status `json:"status"`
	RegisteredAt time.Time     `json:"registeredAt"`
}

// TicketRoster is the owner view of a ticket's registrations.
type TicketRoster struct {
	Ticket struct {
		ID              uuid.UUID `json:"id"`
		Title           string    `json:"title"`
		RegisteredCount int       `json:"registeredCount"`
	} `json:"ticket"`
	RegisteredUsers []RosterEntry `json:"registeredUsers"`
}

func NewTicketRoster(ticket *models.Ticket, registrations []models.Registration) TicketRoster {
	roster := TicketRoster{}
	roster.Ticket.ID = ticket.ID
	roster.Ticket.Title = ticket.Title
	roster.Ticket.RegisteredCount = len(registrations)

	roster.RegisteredUsers = make([]RosterEntry, 0, len(registrations))
	for _, registration := range registrations {
		entry := RosterEntry{
			PhoneNumber:  registration.PhoneNumber,
			Photos:       registration.Photos,
			Videos:       registration.Videos,
			Status:       registration.Status,
			RegisteredAt: registration.CreatedAt,
		}
		if registration.User != nil {
			entry.UserID = registration.User.ID
			entry.Name = registration.User.Name
			entry.LastName = registration.User.LastName
			entry.Email = registration.User.Email
			entry.Role = registration.User.Role
			entry.DateOfBirth = registration.User.DateOfBirth
			entry.Age = registration.User.Age
			entry.Address = registration.User.Address
			entry.ProfilePhoto = registration.User.ProfilePhoto
		}
		roster.RegisteredUsers = append(roster.RegisteredUsers, entry)
	}
	return roster
}

// TicketSummary is the public-safe parent ticket inside the own-list view.
type TicketSummary struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Location    string          `json:"location"`
	Date        time.Time       `json:"date"`
	Status      models.Status   `json:"status"`
	Images      []string        `json:"images"`
}

// MyRegistration is one entry in the applicant's own application list.
type MyRegistration struct {
	ID           uuid.UUID      `json:"id"`
	Ticket       *TicketSummary `json:"ticket,omitempty"`
	PhoneNumber  string         `json:"phoneNumber"`
	Photos       []string       `json:"photos"`
	Videos       []string       `json:"videos"`
	Status       models.Status  `json:"status"`
	RegisteredAt time.Time      `json:"registeredAt"`
}

func NewMyRegistration(registration *models.Registration) MyRegistration {
	view := MyRegistration{
		ID:           registration.ID,
		PhoneNumber:  registration.PhoneNumber,
		Photos:       registration.Photos,
		Videos:       registration.Videos,
		Status:       registration.Status,
		RegisteredAt: registration.CreatedAt,
	}
	if registration.Ticket != nil {
		view.Ticket = &TicketSummary{
			ID:          registration.Ticket.ID,
			Title:       registration.Ticket.Title,
			Description: registration.Ticket.Description,
			Category:    registration.Ticket.Category,
			Location:    registration.Ticket.Location,
			Date:        registration.Ticket.Date,
			Status:      registration.Ticket.Status,
			Images:      registration.Ticket.Images,
		}
	}
	return view
}

func NewMyRegistrationList(registrations []models.Registration) []MyRegistration {
	list := make([]MyRegistration, 0, len(registrations))
	for i := range registrations {
		list = append(list, NewMyRegistration(&registrations[i]))
	}
	return list
}
