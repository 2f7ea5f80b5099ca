package services

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/castcall/castcall/internal/apperrors"
	"github.com/castcall/castcall/internal/authz"
	"github.com/castcall/castcall/internal/logger"
	"github.com/castcall/castcall/internal/models"
)

// RegistrationService owns the registration lifecycle. A registration can
// only be created by a user against an approved ticket, once per
// (ticket, user) pair, and only the ticket's creator or an admin moves it
// out of pending.
type RegistrationService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db, log: logger.WithComponent("registrations")}
}

type RegisterInput struct {
	PhoneNumber string
	Photos      []string
	Videos      []string
}

func (s *RegistrationService) Register(caller *authz.Principal, ticketID uuid.UUID, input RegisterInput) (*models.Registration, error) {
	if err := authz.Require(caller, models.RoleUser); err != nil {
		return nil, err
	}
	if input.PhoneNumber == "" {
		return nil, apperrors.NewValidationError("Phone number is required.")
	}

	var ticket models.Ticket
	if err := s.db.First(&ticket, "id = ?", ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Ticket not found.")
		}
		s.log.Error("load ticket failed", "error", err, "ticket_id", ticketID)
		return nil, apperrors.NewInternalError("Error retrieving ticket.")
	}
	if ticket.Status != models.StatusApproved {
		return nil, apperrors.NewInvalidStateError("This ticket is not approved yet.")
	}

	// Pre-check is an optimization only; the unique index on
	// (ticket_id, user_id) is the authoritative guard against a race
	// between check and write.
	var existing models.Registration
	err := s.db.Where("ticket_id = ? AND user_id = ?", ticketID, caller.UserID).First(&existing).Error
	if err == nil {
		return nil, apperrors.NewConflictError("Already registered.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error("check registration failed", "error", err, "ticket_id", ticketID)
		return nil, apperrors.NewInternalError("Error checking registration.")
	}

	registration := models.Registration{
		TicketID:    ticketID,
		UserID:      caller.UserID,
		PhoneNumber: input.PhoneNumber,
		Photos:      datatypes.NewJSONSlice(input.Photos),
		Videos:      datatypes.NewJSONSlice(input.Videos),
		Status:      models.StatusPending,
	}

	if err := s.db.Create(&registration).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("Already registered.")
		}
		s.log.Error("create registration failed", "error", err, "ticket_id", ticketID, "user_id", caller.UserID)
		return nil, apperrors.NewInternalError("Failed to register for ticket.")
	}

	registration.Ticket = &ticket
	s.log.Info("registration created", "registration_id", registration.ID, "ticket_id", ticketID, "user_id", caller.UserID)
	return &registration, nil
}

// ListForTicket returns all registrations for a ticket with applicant
// profiles preloaded. Only the ticket creator or an admin may call it; this
// is the one path exposing applicant phone numbers and addresses.
func (s *RegistrationService) ListForTicket(caller *authz.Principal, ticketID uuid.UUID) (*models.Ticket, []models.Registration, error) {
	if err := authz.Require(caller, models.RoleCasting, models.RoleAdmin); err != nil {
		return nil, nil, err
	}

	var ticket models.Ticket
	if err := s.db.First(&ticket, "id = ?", ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NewNotFoundError("Ticket not found.")
		}
		s.log.Error("load ticket failed", "error", err, "ticket_id", ticketID)
		return nil, nil, apperrors.NewInternalError("Error retrieving ticket.")
	}
	if err := authz.RequireOwnership(caller, ticket.CreatedByID); err != nil {
		return nil, nil, err
	}

	var registrations []models.Registration
	err := s.db.Preload("User").
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Find(&registrations).Error
	if err != nil {
		s.log.Error("list registrations failed", "error", err, "ticket_id", ticketID)
		return nil, nil, apperrors.NewInternalError("Error retrieving registrations.")
	}
	return &ticket, registrations, nil
}

// ListForUser returns one page of the caller's own registrations joined
// with their ticket summaries, newest first, plus the total count.
func (s *RegistrationService) ListForUser(caller *authz.Principal, page, limit int) ([]models.Registration, int64, error) {
	if err := authz.Require(caller, models.RoleUser); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	err := s.db.Model(&models.Registration{}).
		Where("user_id = ?", caller.UserID).
		Count(&total).Error
	if err != nil {
		s.log.Error("count own registrations failed", "error", err, "user_id", caller.UserID)
		return nil, 0, apperrors.NewInternalError("Error retrieving registrations.")
	}

	var registrations []models.Registration
	err = s.db.Preload("Ticket").
		Where("user_id = ?", caller.UserID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&registrations).Error
	if err != nil {
		s.log.Error("list own registrations failed", "error", err, "user_id", caller.UserID)
		return nil, 0, apperrors.NewInternalError("Error retrieving registrations.")
	}
	return registrations, total, nil
}

func (s *RegistrationService) Approve(caller *authz.Principal, registrationID uuid.UUID) (*models.Registration, error) {
	return s.setStatus(caller, registrationID, models.StatusApproved)
}

func (s *RegistrationService) Reject(caller *authz.Principal, registrationID uuid.UUID) (*models.Registration, error) {
	return s.setStatus(caller, registrationID, models.StatusRejected)
}

// setStatus joins the parent ticket to decide ownership and is idempotent
// per state.
func (s *RegistrationService) setStatus(caller *authz.Principal, registrationID uuid.UUID, status models.Status) (*models.Registration, error) {
	if err := authz.Require(caller, models.RoleCasting, models.RoleAdmin); err != nil {
		return nil, err
	}

	var registration models.Registration
	if err := s.db.Preload("Ticket").Preload("User").First(&registration, "id = ?", registrationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Registration not found.")
		}
		s.log.Error("load registration failed", "error", err, "registration_id", registrationID)
		return nil, apperrors.NewInternalError("Error retrieving registration.")
	}
	if registration.Ticket == nil {
		return nil, apperrors.NewNotFoundError("Ticket not found.")
	}
	if err := authz.RequireOwnership(caller, registration.Ticket.CreatedByID); err != nil {
		return nil, err
	}

	if registration.Status == status {
		return &registration, nil
	}

	registration.Status = status
	err := s.db.Model(&models.Registration{}).Where("id = ?", registrationID).Update("status", status).Error
	if err != nil {
		s.log.Error("set registration status failed", "error", err, "registration_id", registrationID)
		return nil, apperrors.NewInternalError("Failed to update registration status.")
	}
	s.log.Info("registration status changed", "registration_id", registrationID, "status", status, "caller_id", caller.UserID)
	return &registration, nil
}
