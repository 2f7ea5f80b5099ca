package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castcall/castcall/internal/helpers"
	"github.com/castcall/castcall/internal/middleware"
	"github.com/castcall/castcall/internal/models"
	"github.com/castcall/castcall/internal/services"
)

type ProfileUpdateRequest struct {
	Name         *string    `json:"name"`
	LastName     *string    `json:"lastName"`
	DateOfBirth  *time.Time `json:"dateOfBirth"`
	Age          *int       `json:"age"`
	Address      *string    `json:"address"`
	PhoneNumber  *string    `json:"phoneNumber"`
	ProfilePhoto *string    `json:"profilePhoto"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func GetProfile(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	userService := services.NewUserService(gormDB)
	user, err := userService.GetByID(principal.UserID)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
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

	userService := services.NewUserService(gormDB)
	user, err := userService.UpdateProfile(middleware.Principal(c), services.UpdateProfileInput{
		Name:         req.Name,
		LastName:     req.LastName,
		DateOfBirth:  req.DateOfBirth,
		Age:          req.Age,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		ProfilePhoto: req.ProfilePhoto,
	})
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"user":    user,
	})
}

func ListUsers(c *gin.Context) {
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

	userService := services.NewUserService(gormDB)
	users, totalCount, err := userService.List(middleware.Principal(c), pageNum, limitNum)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func ChangeUserRole(c *gin.Context) {
	targetID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
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

	userService := services.NewUserService(gormDB)
	user, err := userService.ChangeRole(middleware.Principal(c), targetID, models.Role(req.Role))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated successfully.",
		"user":    user,
	})
}

func DeleteUser(c *gin.Context) {
	targetID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	userService := services.NewUserService(gormDB)
	if err := userService.Delete(middleware.Principal(c), targetID); err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully.",
	})
}
