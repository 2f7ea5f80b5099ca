package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castcall/castcall/config"
	"github.com/castcall/castcall/internal/handlers"
	"github.com/castcall/castcall/internal/middleware"
	"github.com/castcall/castcall/internal/models"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	setupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	public := r.Group("/v1")
	{
		public.POST("/auth/signup", handlers.Signup)
		public.POST("/auth/login", handlers.Login)

		ticketPublic := public.Group("/tickets")
		ticketPublic.Use(middleware.OptionalJWTAuthMiddleware())
		{
			ticketPublic.GET("", handlers.ListTickets)
			ticketPublic.GET("/:id", handlers.GetTicket)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.PUT("/profile", handlers.UpdateProfile)

		ticketProtected := protected.Group("/tickets")
		{
			casting := ticketProtected.Group("")
			casting.Use(middleware.RequireRoles(models.RoleCasting, models.RoleAdmin))
			{
				casting.POST("", handlers.CreateTicket)
				casting.PUT("/:id", handlers.UpdateTicket)
				casting.DELETE("/:id", handlers.DeleteTicket)
				casting.GET("/:id/registrations", handlers.ListTicketRegistrations)
			}

			admin := ticketProtected.Group("")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.PATCH("/:id/approve", handlers.ApproveTicket)
				admin.PATCH("/:id/reject", handlers.RejectTicket)
			}

			applicant := ticketProtected.Group("")
			applicant.Use(middleware.RequireRoles(models.RoleUser))
			{
				applicant.POST("/:id/register", handlers.RegisterForTicket)
			}
		}

		registrations := protected.Group("/registrations")
		{
			registrations.GET("/me", middleware.RequireRoles(models.RoleUser), handlers.ListMyRegistrations)

			moderation := registrations.Group("")
			moderation.Use(middleware.RequireRoles(models.RoleCasting, models.RoleAdmin))
			{
				moderation.PATCH("/:id/approve", handlers.ApproveRegistration)
				moderation.PATCH("/:id/reject", handlers.RejectRegistration)
			}
		}

		adminUsers := protected.Group("/users")
		adminUsers.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			adminUsers.GET("", handlers.ListUsers)
			adminUsers.PATCH("/:id/role", handlers.ChangeUserRole)
			adminUsers.DELETE("/:id", handlers.DeleteUser)
		}
	}
}
