package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/castcall/castcall/internal/helpers"
	"github.com/castcall/castcall/internal/middleware"
	"github.com/castcall/castcall/internal/models"
	"github.com/castcall/castcall/internal/services"
	"github.com/castcall/castcall/internal/views"
)

type TicketRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Images      []string  `json:"images"`
}

type TicketUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Location    *string    `json:"location"`
	Date        *time.Time `json:"date"`
	Images      *[]string  `json:"images"`
}

func CreateTicket(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	ticketService := services.NewTicketService(gormDB)
	ticket, err := ticketService.Create(middleware.Principal(c), services.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    models.Category(req.Category),
		Location:    req.Location,
		Date:        req.Date,
		Images:      req.Images,
	})
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	view := views.NewPublicTicket(ticket, 0)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticket created successfully.",
		"ticket":  view,
	})
}

func ListTickets(c *gin.Context) {
	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit number.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	ticketService := services.NewTicketService(gormDB)
	tickets, totalCount, err := ticketService.List(middleware.Principal(c), c.Query("status"), pageNum, limitNum)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	ticketIDs := make([]uuid.UUID, 0, len(tickets))
	for i := range tickets {
		ticketIDs = append(ticketIDs, tickets[i].ID)
	}
	counts, err := ticketService.RegisteredCounts(ticketIDs)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	list := make([]views.PublicTicket, 0, len(tickets))
	for i := range tickets {
		list = append(list, views.NewPublicTicket(&tickets[i], counts[tickets[i].ID]))
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets":     list,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetTicket(c *gin.Context) {
	ticketID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	ticketService := services.NewTicketService(gormDB)
	ticket, err := ticketService.GetByID(ticketID)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	registered, err := ticketService.RegisteredUsers(ticketID)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	view := views.NewPublicTicket(ticket, int64(len(registered)))
	view.RegisteredUsers = views.NewUserSummaries(registered)
	c.JSON(http.StatusOK, view)
}

func UpdateTicket(c *gin.Context) {
	ticketID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req TicketUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	input := services.UpdateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Images:      req.Images,
	}
	if req.Category != nil {
		category := models.Category(*req.Category)
		input.Category = &category
	}

	ticketService := services.NewTicketService(gormDB)
	ticket, err := ticketService.Update(middleware.Principal(c), ticketID, input)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	count, err := ticketService.RegisteredCount(ticketID)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket updated successfully.",
		"ticket":  views.NewPublicTicket(ticket, count),
	})
}

func ApproveTicket(c *gin.Context) {
	setTicketStatus(c, models.StatusApproved, "Ticket approved successfully.")
}

func RejectTicket(c *gin.Context) {
	setTicketStatus(c, models.StatusRejected, "Ticket rejected successfully.")
}

func setTicketStatus(c *gin.Context, status models.Status, message string) {
	ticketID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	ticketService := services.NewTicketService(gormDB)

	var ticket *models.Ticket
	var err error
	if status == models.StatusApproved {
		ticket, err = ticketService.Approve(middleware.Principal(c), ticketID)
	} else {
		ticket, err = ticketService.Reject(middleware.Principal(c), ticketID)
	}
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	count, err := ticketService.RegisteredCount(ticketID)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"ticket":  views.NewPublicTicket(ticket, count),
	})
}

func DeleteTicket(c *gin.Context) {
	ticketID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	ticketService := services.NewTicketService(gormDB)
	if err := ticketService.Delete(middleware.Principal(c), ticketID); err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket deleted successfully.",
	})
}
