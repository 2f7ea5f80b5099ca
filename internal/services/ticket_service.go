package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/castcall/castcall/internal/apperrors"
	"github.com/castcall/castcall/internal/authz"
	"github.com/castcall/castcall/internal/logger"
	"github.com/castcall/castcall/internal/models"
)

// TicketService owns the ticket lifecycle: pending on creation, approved or
// rejected only through an admin action, field edits by creator or admin.
type TicketService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db, log: logger.WithComponent("tickets")}
}

type CreateTicketInput struct {
	Title       string
	Description string
	Category    models.Category
	Location    string
	Date        time.Time
	Images      []string
}

// UpdateTicketInput is the allow-list of mutable fields. Status, creator and
// id are deliberately absent: status changes go only through Approve/Reject.
type UpdateTicketInput struct {
	Title       *string
	Description *string
	Category    *models.Category
	Location    *string
	Date        *time.Time
	Images      *[]string
}

func (s *TicketService) Create(caller *authz.Principal, input CreateTicketInput) (*models.Ticket, error) {
	if err := authz.Require(caller, models.RoleCasting, models.RoleAdmin); err != nil {
		return nil, err
	}

	if input.Title == "" || input.Description == "" || input.Location == "" || input.Date.IsZero() {
		return nil, apperrors.NewValidationError("Please provide all fields.")
	}
	if !input.Category.IsValid() {
		return nil, apperrors.NewValidationError("Category must be either cinema or serial.")
	}

	ticket := models.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Date:        input.Date,
		Images:      datatypes.NewJSONSlice(input.Images),
		Status:      models.StatusPending,
		CreatedByID: caller.UserID,
	}

	if err := s.db.Create(&ticket).Error; err != nil {
		s.log.Error("create ticket failed", "error", err)
		return nil, apperrors.NewInternalError("Failed to create ticket.")
	}

	if err := s.db.Preload("CreatedBy").First(&ticket, "id = ?", ticket.ID).Error; err != nil {
		s.log.Error("reload ticket failed", "error", err, "ticket_id", ticket.ID)
		return nil, apperrors.NewInternalError("Error retrieving ticket.")
	}
	s.log.Info("ticket created", "ticket_id", ticket.ID, "creator_id", caller.UserID)
	return &ticket, nil
}

// List returns one page of approved tickets when no filter is given, plus
// the total matching count. "all" and explicit pending/rejected filters are
// scoped: admins see everything, other callers only see their own
// non-approved tickets.
func (s *TicketService) List(caller *authz.Principal, statusFilter string, page, limit int) ([]models.Ticket, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := s.db.Model(&models.Ticket{})

	isAdmin := caller != nil && caller.Role.IsAdmin()

	switch statusFilter {
	case "":
		query = query.Where("status = ?", models.StatusApproved)
	case "all":
		if !isAdmin {
			if caller == nil {
				query = query.Where("status = ?", models.StatusApproved)
			} else {
				query = query.Where("status = ? OR created_by_id = ?", models.StatusApproved, caller.UserID)
			}
		}
	default:
		status := models.Status(statusFilter)
		if !status.IsValid() {
			return nil, 0, apperrors.NewValidationError("Unknown status filter.")
		}
		query = query.Where("status = ?", status)
		if status != models.StatusApproved && !isAdmin {
			if caller == nil {
				return nil, 0, apperrors.NewForbiddenError("You don't have permission to list these tickets.")
			}
			query = query.Where("created_by_id = ?", caller.UserID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.log.Error("count tickets failed", "error", err)
		return nil, 0, apperrors.NewInternalError("Error retrieving tickets.")
	}

	offset := (page - 1) * limit
	var tickets []models.Ticket
	err := query.Preload("CreatedBy").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		s.log.Error("list tickets failed", "error", err)
		return nil, 0, apperrors.NewInternalError("Error retrieving tickets.")
	}
	return tickets, total, nil
}

func (s *TicketService) GetByID(id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.Preload("CreatedBy").First(&ticket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Ticket not found.")
		}
		s.log.Error("get ticket failed", "error", err, "ticket_id", id)
		return nil, apperrors.NewInternalError("Error retrieving ticket.")
	}
	return &ticket, nil
}

func (s *TicketService) Update(caller *authz.Principal, id uuid.UUID, input UpdateTicketInput) (*models.Ticket, error) {
	if err := authz.Require(caller, models.RoleCasting, models.RoleAdmin); err != nil {
		return nil, err
	}

	ticket, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnership(caller, ticket.CreatedByID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.NewValidationError("Title cannot be empty.")
		}
		ticket.Title = *input.Title
	}
	if input.Description != nil {
		if *input.Description == "" {
			return nil, apperrors.NewValidationError("Description cannot be empty.")
		}
		ticket.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, apperrors.NewValidationError("Category must be either cinema or serial.")
		}
		ticket.Category = *input.Category
	}
	if input.Location != nil {
		if *input.Location == "" {
			return nil, apperrors.NewValidationError("Location cannot be empty.")
		}
		ticket.Location = *input.Location
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, apperrors.NewValidationError("Date cannot be empty.")
		}
		ticket.Date = *input.Date
	}
	if input.Images != nil {
		ticket.Images = datatypes.NewJSONSlice(*input.Images)
	}

	if err := s.db.Save(ticket).Error; err != nil {
		s.log.Error("update ticket failed", "error", err, "ticket_id", id)
		return nil, apperrors.NewInternalError("Failed to update ticket.")
	}
	return ticket, nil
}

func (s *TicketService) Approve(caller *authz.Principal, id uuid.UUID) (*models.Ticket, error) {
	return s.setStatus(caller, id, models.StatusApproved)
}

func (s *TicketService) Reject(caller *authz.Principal, id uuid.UUID) (*models.Ticket, error) {
	return s.setStatus(caller, id, models.StatusRejected)
}

// setStatus is idempotent: re-approving an approved ticket is a no-op
// success.
func (s *TicketService) setStatus(caller *authz.Principal, id uuid.UUID, status models.Status) (*models.Ticket, error) {
	if err := authz.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	ticket, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == status {
		return ticket, nil
	}

	ticket.Status = status
	if err := s.db.Model(&models.Ticket{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		s.log.Error("set ticket status failed", "error", err, "ticket_id", id)
		return nil, apperrors.NewInternalError("Failed to update ticket status.")
	}
	s.log.Info("ticket status changed", "ticket_id", id, "status", status, "admin_id", caller.UserID)
	return ticket, nil
}

// Delete removes the ticket and every registration referencing it in one
// transaction, so a failed cascade never leaves orphaned registrations.
func (s *TicketService) Delete(caller *authz.Principal, id uuid.UUID) error {
	if err := authz.Require(caller, models.RoleCasting, models.RoleAdmin); err != nil {
		return err
	}

	ticket, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnership(caller, ticket.CreatedByID); err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Ticket{}, "id = ?", id).Error
	})
	if err != nil {
		s.log.Error("delete ticket failed", "error", err, "ticket_id", id)
		return apperrors.NewInternalError("Failed to delete ticket.")
	}
	s.log.Info("ticket deleted", "ticket_id", id, "caller_id", caller.UserID)
	return nil
}

// RegisteredUsers is the ticket's roster, always computed from the
// registrations table rather than kept as a second mutable copy. It joins
// through to the applicant profiles, newest registration first.
func (s *TicketService) RegisteredUsers(ticketID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.Model(&models.User{}).
		Joins("JOIN registrations ON registrations.user_id = users.id").
		Where("registrations.ticket_id = ?", ticketID).
		Order("registrations.created_at DESC").
		Find(&users).Error
	if err != nil {
		s.log.Error("load registered users failed", "error", err, "ticket_id", ticketID)
		return nil, apperrors.NewInternalError("Error retrieving registered users.")
	}
	return users, nil
}

// RegisteredCounts returns the registration count per ticket in one grouped
// query, for listings.
func (s *TicketService) RegisteredCounts(ticketIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ticketIDs))
	if len(ticketIDs) == 0 {
		return counts, nil
	}

	type row struct {
		TicketID uuid.UUID
		Total    int64
	}
	var rows []row
	err := s.db.Model(&models.Registration{}).
		Select("ticket_id, count(*) as total").
		Where("ticket_id IN ?", ticketIDs).
		Group("ticket_id").
		Scan(&rows).Error
	if err != nil {
		s.log.Error("count registrations failed", "error", err)
		return nil, apperrors.NewInternalError("Error counting registrations.")
	}
	for _, r := range rows {
		counts[r.TicketID] = r.Total
	}
	return counts, nil
}

// RegisteredCount reports how many registrations a ticket has.
func (s *TicketService) RegisteredCount(ticketID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Registration{}).Where("ticket_id = ?", ticketID).Count(&count).Error
	if err != nil {
		return 0, apperrors.NewInternalError("Error counting registrations.")
	}
	return count, nil
}
