package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castcall/castcall/internal/helpers"
	"github.com/castcall/castcall/internal/middleware"
	"github.com/castcall/castcall/internal/models"
	"github.com/castcall/castcall/internal/services"
	"github.com/castcall/castcall/internal/views"
)

type RegisterRequest struct {
	PhoneNumber string   `json:"phoneNumber" binding:"required"`
	Photos      []string `json:"photos"`
	Videos      []string `json:"videos"`
}

func RegisterForTicket(c *gin.Context) {
	ticketID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Phone number is required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	registrationService := services.NewRegistrationService(gormDB)
	registration, err := registrationService.Register(middleware.Principal(c), ticketID, services.RegisterInput{
		PhoneNumber: req.PhoneNumber,
		Photos:      req.Photos,
		Videos:      req.Videos,
	})
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Registered successfully.",
		"registration": views.NewMyRegistration(registration),
	})
}

func ListTicketRegistrations(c *gin.Context) {
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

	registrationService := services.NewRegistrationService(gormDB)
	ticket, registrations, err := registrationService.ListForTicket(middleware.Principal(c), ticketID)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, views.NewTicketRoster(ticket, registrations))
}

func ListMyRegistrations(c *gin.Context) {
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

	registrationService := services.NewRegistrationService(gormDB)
	registrations, totalCount, err := registrationService.ListForUser(middleware.Principal(c), pageNum, limitNum)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registrations": views.NewMyRegistrationList(registrations),
		"total":         totalCount,
		"page":          pageNum,
		"limit":         limitNum,
		"total_pages":   (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func ApproveRegistration(c *gin.Context) {
	setRegistrationStatus(c, models.StatusApproved, "Registration approved successfully.")
}

func RejectRegistration(c *gin.Context) {
	setRegistrationStatus(c, models.StatusRejected, "Registration rejected successfully.")
}

func setRegistrationStatus(c *gin.Context, status models.Status, message string) {
	registrationID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	registrationService := services.NewRegistrationService(gormDB)

	var registration *models.Registration
	var err error
	if status == models.StatusApproved {
		registration, err = registrationService.Approve(middleware.Principal(c), registrationID)
	} else {
		registration, err = registrationService.Reject(middleware.Principal(c), registrationID)
	}
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"registration": views.NewMyRegistration(registration),
	})
}
