package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castcall/castcall/internal/apperrors"
	"github.com/castcall/castcall/internal/models"
)

func validCreateInput() CreateTicketInput {
	return CreateTicketInput{
		Title:       "Lead Role",
		Description: "Feature film lead",
		Category:    models.CategoryCinema,
		Location:    "Tehran",
		Date:        time.Now().AddDate(0, 1, 0),
		Images:      []string{"img-1"},
	}
}

func TestTicketService_Create(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db)

	casting := createTestUser(t, db, "casting", models.RoleCasting)
	applicant := createTestUser(t, db, "applicant", models.RoleUser)

	t.Run("casting creates pending ticket", func(t *testing.T) {
		ticket, err := service.Create(principalFor(casting), validCreateInput())
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, ticket.Status)
		assert.Equal(t, casting.ID, ticket.CreatedByID)
		require.NotNil(t, ticket.CreatedBy)
		assert.Equal(t, casting.Email, ticket.CreatedBy.Email)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		input := validCreateInput()
		input.Title = ""
		_, err := service.Create(principalFor(casting), input)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown category fails validation", func(t *testing.T) {
		input := validCreateInput()
		input.Category = "theatre"
		_, err := service.Create(principalFor(casting), input)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("regular user cannot create", func(t *testing.T) {
		_, err := service.Create(principalFor(applicant), validCreateInput())
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("anonymous caller is unauthenticated", func(t *testing.T) {
		_, err := service.Create(nil, validCreateInput())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))
	})
}

func TestTicketService_List(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db)

	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	casting := createTestUser(t, db, "casting", models.RoleCasting)
	other := createTestUser(t, db, "other", models.RoleCasting)

	pending := createTestTicket(t, db, casting, models.StatusPending)
	approved := createTestTicket(t, db, casting, models.StatusApproved)
	rejected := createTestTicket(t, db, other, models.StatusRejected)

	t.Run("public listing only shows approved", func(t *testing.T) {
		tickets, total, err := service.List(nil, "", 1, 10)
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, approved.ID, tickets[0].ID)
	})

	t.Run("admin sees everything with all", func(t *testing.T) {
		tickets, total, err := service.List(principalFor(admin), "all", 1, 10)
		require.NoError(t, err)
		assert.Len(t, tickets, 3)
		assert.Equal(t, int64(3), total)
	})

	t.Run("casting with all sees approved plus own", func(t *testing.T) {
		tickets, _, err := service.List(principalFor(casting), "all", 1, 10)
		require.NoError(t, err)
		assert.Len(t, tickets, 2)
		for _, ticket := range tickets {
			assert.NotEqual(t, rejected.ID, ticket.ID)
		}
	})

	t.Run("anonymous all falls back to approved", func(t *testing.T) {
		tickets, _, err := service.List(nil, "all", 1, 10)
		require.NoError(t, err)
		assert.Len(t, tickets, 1)
	})

	t.Run("pending filter scoped to creator for non-admins", func(t *testing.T) {
		tickets, _, err := service.List(principalFor(casting), "pending", 1, 10)
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, pending.ID, tickets[0].ID)

		tickets, _, err = service.List(principalFor(other), "pending", 1, 10)
		require.NoError(t, err)
		assert.Len(t, tickets, 0)
	})

	t.Run("anonymous pending filter forbidden", func(t *testing.T) {
		_, _, err := service.List(nil, "pending", 1, 10)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("garbage filter fails validation", func(t *testing.T) {
		_, _, err := service.List(principalFor(admin), "bogus", 1, 10)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestTicketService_ListPagination(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db)

	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	casting := createTestUser(t, db, "casting", models.RoleCasting)

	base := time.Now().Add(-time.Hour)
	ids := make([]uuid.UUID, 0, 5)
	for i := 0; i < 5; i++ {
		ticket := createTestTicket(t, db, casting, models.StatusApproved)
		// Distinct timestamps so newest-first ordering is deterministic.
		stamp := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Model(&models.Ticket{}).
			Where("id = ?", ticket.ID).
			Update("created_at", stamp).Error)
		ids = append(ids, ticket.ID)
	}

	t.Run("first page is the newest tickets", func(t *testing.T) {
		tickets, total, err := service.List(principalFor(admin), "", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, tickets, 2)
		assert.Equal(t, ids[4], tickets[0].ID)
		assert.Equal(t, ids[3], tickets[1].ID)
	})

	t.Run("last page is partial", func(t *testing.T) {
		tickets, total, err := service.List(principalFor(admin), "", 3, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, tickets, 1)
		assert.Equal(t, ids[0], tickets[0].ID)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		tickets, total, err := service.List(principalFor(admin), "", 9, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, tickets, 0)
	})

	t.Run("out-of-range page and limit fall back to defaults", func(t *testing.T) {
		tickets, total, err := service.List(principalFor(admin), "", 0, -3)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, tickets, 5)
	})
}

func TestTicketService_Update(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db)

	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	casting := createTestUser(t, db, "casting", models.RoleCasting)
	other := createTestUser(t, db, "other", models.RoleCasting)

	ticket := createTestTicket(t, db, casting, models.StatusPending)

	t.Run("creator updates allowed fields", func(t *testing.T) {
		title := "Supporting Role"
		updated, err := service.Update(principalFor(casting), ticket.ID, UpdateTicketInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Supporting Role", updated.Title)
		assert.Equal(t, models.StatusPending, updated.Status)
	})

	t.Run("empty field rejected", func(t *testing.T) {
		empty := ""
		_, err := service.Update(principalFor(casting), ticket.ID, UpdateTicketInput{Location: &empty})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("non-owner casting forbidden", func(t *testing.T) {
		title := "Hijacked"
		_, err := service.Update(principalFor(other), ticket.ID, UpdateTicketInput{Title: &title})
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("admin can update any ticket", func(t *testing.T) {
		location := "Istanbul"
		updated, err := service.Update(principalFor(admin), ticket.ID, UpdateTicketInput{Location: &location})
		require.NoError(t, err)
		assert.Equal(t, "Istanbul", updated.Location)
	})

	t.Run("unknown ticket not found", func(t *testing.T) {
		title := "Nope"
		_, err := service.Update(principalFor(admin), uuid.New(), UpdateTicketInput{Title: &title})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestTicketService_ApproveReject(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db)

	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	casting := createTestUser(t, db, "casting", models.RoleCasting)

	ticket := createTestTicket(t, db, casting, models.StatusPending)

	t.Run("creator cannot approve own ticket", func(t *testing.T) {
		_, err := service.Approve(principalFor(casting), ticket.ID)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("admin approves", func(t *testing.T) {
		approved, err := service.Approve(principalFor(admin), ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, approved.Status)
	})

	t.Run("approve is idempotent", func(t *testing.T) {
		approved, err := service.Approve(principalFor(admin), ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, approved.Status)
	})

	t.Run("admin re-moderates a rejected ticket", func(t *testing.T) {
		rejected, err := service.Reject(principalFor(admin), ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, rejected.Status)

		approved, err := service.Approve(principalFor(admin), ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, approved.Status)
	})

	t.Run("unknown ticket not found", func(t *testing.T) {
		_, err := service.Approve(principalFor(admin), uuid.New())
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestTicketService_Delete(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db)

	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	casting := createTestUser(t, db, "casting", models.RoleCasting)
	other := createTestUser(t, db, "other", models.RoleCasting)
	applicant := createTestUser(t, db, "applicant", models.RoleUser)

	t.Run("delete cascades registrations", func(t *testing.T) {
		ticket := createTestTicket(t, db, casting, models.StatusApproved)
		createTestRegistration(t, db, ticket.ID, applicant.ID, "555-0100")

		require.NoError(t, service.Delete(principalFor(casting), ticket.ID))

		_, err := service.GetByID(ticket.ID)
		assert.True(t, apperrors.IsNotFound(err))

		var count int64
		db.Model(&models.Registration{}).Where("ticket_id = ?", ticket.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		ticket := createTestTicket(t, db, casting, models.StatusApproved)
		err := service.Delete(principalFor(other), ticket.ID)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("admin deletes any ticket", func(t *testing.T) {
		ticket := createTestTicket(t, db, casting, models.StatusApproved)
		assert.NoError(t, service.Delete(principalFor(admin), ticket.ID))
	})

	t.Run("unknown ticket not found", func(t *testing.T) {
		err := service.Delete(principalFor(admin), uuid.New())
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestTicketService_Roster(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db)

	casting := createTestUser(t, db, "casting", models.RoleCasting)
	first := createTestUser(t, db, "first", models.RoleUser)
	second := createTestUser(t, db, "second", models.RoleUser)

	ticket := createTestTicket(t, db, casting, models.StatusApproved)
	otherTicket := createTestTicket(t, db, casting, models.StatusApproved)

	older := createTestRegistration(t, db, ticket.ID, first.ID, "555-0100")
	createTestRegistration(t, db, ticket.ID, second.ID, "555-0101")
	createTestRegistration(t, db, otherTicket.ID, first.ID, "555-0100")

	// Backdate the first registration so newest-first ordering is observable.
	require.NoError(t, db.Model(&models.Registration{}).
		Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	users, err := service.RegisteredUsers(ticket.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID)
	assert.Equal(t, first.ID, users[1].ID)
	assert.Equal(t, first.Email, users[1].Email)

	count, err := service.RegisteredCount(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	counts, err := service.RegisteredCounts([]uuid.UUID{ticket.ID, otherTicket.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[ticket.ID])
	assert.Equal(t, int64(1), counts[otherTicket.ID])
}
