package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/castcall/castcall/internal/apperrors"
	"github.com/castcall/castcall/internal/authz"
	"github.com/castcall/castcall/internal/logger"
	"github.com/castcall/castcall/internal/models"
)

const (
	auditActionChangeRole = "user.change_role"
	auditActionDeleteUser = "user.delete"
)

// UserService covers profiles and admin user management. Role changes are
// explicit admin commands that leave an audit record, not bare field writes.
type UserService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, log: logger.WithComponent("users")}
}

type UpdateProfileInput struct {
	Name         *string
	LastName     *string
	DateOfBirth  *time.Time
	Age          *int
	Address      *string
	PhoneNumber  *string
	ProfilePhoto *string
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("User not found.")
		}
		s.log.Error("get user failed", "error", err, "user_id", id)
		return nil, apperrors.NewInternalError("Error retrieving user.")
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(caller *authz.Principal, input UpdateProfileInput) (*models.User, error) {
	if caller == nil || caller.UserID == uuid.Nil {
		return nil, apperrors.NewUnauthenticatedError("Authentication required.")
	}

	user, err := s.GetByID(caller.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.NewValidationError("Name cannot be empty.")
		}
		user.Name = *input.Name
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = input.DateOfBirth
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.ProfilePhoto != nil {
		user.ProfilePhoto = input.ProfilePhoto
	}

	if err := s.db.Save(user).Error; err != nil {
		s.log.Error("update profile failed", "error", err, "user_id", caller.UserID)
		return nil, apperrors.NewInternalError("Failed to update profile.")
	}
	return user, nil
}

func (s *UserService) List(caller *authz.Principal, page, limit int) ([]models.User, int64, error) {
	if err := authz.Require(caller, models.RoleAdmin); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		s.log.Error("count users failed", "error", err)
		return nil, 0, apperrors.NewInternalError("Error retrieving users.")
	}

	var users []models.User
	err := s.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		s.log.Error("list users failed", "error", err)
		return nil, 0, apperrors.NewInternalError("Error retrieving users.")
	}
	return users, total, nil
}

// ChangeRole writes the new role and its audit record in one transaction.
func (s *UserService) ChangeRole(caller *authz.Principal, targetID uuid.UUID, newRole models.Role) (*models.User, error) {
	if err := authz.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !newRole.IsValid() {
		return nil, apperrors.NewValidationError("Unknown role.")
	}

	user, err := s.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if user.Role == newRole {
		return user, nil
	}

	oldRole := user.Role
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", targetID).Update("role", newRole).Error; err != nil {
			return err
		}
		audit := models.AuditLog{
			ActorID:      caller.UserID,
			Action:       auditActionChangeRole,
			TargetUserID: targetID,
			OldValue:     oldRole.String(),
			NewValue:     newRole.String(),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		s.log.Error("change role failed", "error", err, "target_id", targetID)
		return nil, apperrors.NewInternalError("Failed to change role.")
	}

	user.Role = newRole
	s.log.Info("role changed", "target_id", targetID, "old_role", oldRole, "new_role", newRole, "admin_id", caller.UserID)
	return user, nil
}

// Delete removes a user together with their registrations and, when they
// authored tickets, those tickets and every registration on them. Admins
// cannot delete themselves.
func (s *UserService) Delete(caller *authz.Principal, targetID uuid.UUID) error {
	if err := authz.Require(caller, models.RoleAdmin); err != nil {
		return err
	}
	if caller.UserID == targetID {
		return apperrors.NewValidationError("You cannot delete your own account.")
	}

	user, err := s.GetByID(targetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var ticketIDs []uuid.UUID
		if err := tx.Model(&models.Ticket{}).Where("created_by_id = ?", targetID).Pluck("id", &ticketIDs).Error; err != nil {
			return err
		}
		if len(ticketIDs) > 0 {
			if err := tx.Where("ticket_id IN ?", ticketIDs).Delete(&models.Registration{}).Error; err != nil {
				return err
			}
			if err := tx.Where("created_by_id = ?", targetID).Delete(&models.Ticket{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, "id = ?", targetID).Error; err != nil {
			return err
		}
		audit := models.AuditLog{
			ActorID:      caller.UserID,
			Action:       auditActionDeleteUser,
			TargetUserID: targetID,
			OldValue:     user.Email,
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		s.log.Error("delete user failed", "error", err, "target_id", targetID)
		return apperrors.NewInternalError("Failed to delete user.")
	}
	s.log.Info("user deleted", "target_id", targetID, "admin_id", caller.UserID)
	return nil
}
