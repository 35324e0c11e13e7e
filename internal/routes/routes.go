package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/config"
	"github.com/BruksfildServices01/petcare-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/petcare-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/petcare-scheduler/internal/logging"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	"github.com/BruksfildServices01/petcare-scheduler/internal/storage"
)

// Deps are the process-wide singletons the HTTP layer is built from.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *slog.Logger
	Issuer   *auth.Issuer
	Audit    audit.Sink
	Store    storage.ObjectStore
	Geocoder handlers.ReverseGeocoder
	Limiter  cache.WindowCounter
	Cache    cache.Store
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		logging.RequestID(d.Logger),
		logging.AccessLog(d.Logger),
		middleware.CORSMiddleware(d.Config.CORSAllowedOrigins),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	sessions := auth.NewSessions(infraRepo.NewAccountGormRepository(d.DB), d.Cache)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Issuer, sessions, d.Store)
	meHandler := handlers.NewMeHandler(d.DB)
	businessHandler := handlers.NewBusinessHandler(d.DB)
	scheduleHandler := handlers.NewScheduleHandler(d.DB, d.Audit)
	serviceHandler := handlers.NewServiceHandler(d.DB)
	staffHandler := handlers.NewStaffHandler(d.DB, d.Store, d.Audit)
	shiftHandler := handlers.NewStaffScheduleHandler(d.DB, d.Audit)
	petHandler := handlers.NewPetHandler(d.DB)
	imageHandler := handlers.NewImageHandler(d.DB, d.Store)
	geoHandler := handlers.NewGeolocationHandler(d.Geocoder)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	limited := middleware.RateLimit(d.Limiter, d.Config.RateLimitPerMinute, time.Minute, "rl", d.Logger)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")

	// ------------------------------
	// PUBLIC
	// ------------------------------
	public := api.Group("/")
	public.Use(limited)
	{
		public.POST("/auth/pet-owners/register", authHandler.RegisterPetOwner)
		public.POST("/auth/business-owners/register", authHandler.RegisterBusinessOwner)
		public.POST("/auth/pet-owners/login", authHandler.Login(auth.RolePetOwner))
		public.POST("/auth/business-owners/login", authHandler.Login(auth.RoleBusinessOwner))
		public.POST("/auth/staff/login", authHandler.Login(auth.RoleStaff))

		// Trashed accounts can no longer use their tokens, so these take
		// the account's credentials instead.
		public.POST("/auth/pet-owners/trashed", authHandler.Trashed(auth.RolePetOwner))
		public.POST("/auth/pet-owners/restore", authHandler.Restore(auth.RolePetOwner))
		public.POST("/auth/pet-owners/force-delete", authHandler.ForceDelete(auth.RolePetOwner))
		public.POST("/auth/business-owners/trashed", authHandler.Trashed(auth.RoleBusinessOwner))
		public.POST("/auth/business-owners/restore", authHandler.Restore(auth.RoleBusinessOwner))
		public.POST("/auth/business-owners/force-delete", authHandler.ForceDelete(auth.RoleBusinessOwner))

		public.GET("/businesses", businessHandler.List)
		public.GET("/businesses/:id", businessHandler.Show)
		public.GET("/businesses/:id/services", serviceHandler.ListByBusiness)
		public.GET("/businesses/:id/schedule", scheduleHandler.Get)

		public.GET("/services/:id", serviceHandler.Show)
		public.GET("/services/:id/availability", appointmentHandler.Availability)
		public.GET("/services/:id/slots", appointmentHandler.Slots)

		public.GET("/geolocation/reverse", geoHandler.Reverse)
	}

	// ------------------------------
	// AUTHENTICATED
	// ------------------------------
	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(d.Issuer, sessions))
	{
		secured.POST("/auth/refresh", authHandler.Refresh)
		secured.POST("/auth/logout", authHandler.Logout)

		secured.GET("/me", meHandler.GetMe)
		secured.PATCH("/me", meHandler.UpdateMe)
		secured.DELETE("/me", meHandler.DeleteMe)
		secured.PUT("/me/photo", imageHandler.UploadProfilePhoto)

		secured.GET("/me/appointments", appointmentHandler.List)
		secured.POST("/appointments",
			middleware.RequireCapability(auth.CapBookAppointment),
			appointmentHandler.Create,
		)
		secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		secured.PATCH("/appointments/:id/complete",
			middleware.RequireCapability(auth.CapManageAppointments),
			appointmentHandler.Complete,
		)

		// ------------------------------
		// PETS
		// ------------------------------
		pets := secured.Group("/me/pets")
		pets.Use(middleware.RequireCapability(auth.CapManagePets))
		{
			pets.GET("", petHandler.List)
			pets.GET("/trashed", petHandler.Trashed)
			pets.POST("", petHandler.Create)
			pets.GET("/:id", petHandler.Show)
			pets.PUT("/:id", petHandler.Update)
			pets.DELETE("/:id", petHandler.Delete)
			pets.PATCH("/:id/restore", petHandler.Restore)
			pets.DELETE("/:id/force", petHandler.ForceDelete)
			pets.PUT("/:id/photo", imageHandler.UploadPetPhoto)
		}

		// ------------------------------
		// BUSINESSES (owner)
		// ------------------------------
		owned := secured.Group("/me/businesses")
		owned.Use(middleware.RequireCapability(auth.CapManageBusiness))
		{
			owned.GET("", businessHandler.Mine)
			owned.GET("/trashed", businessHandler.Trashed)
			owned.POST("", businessHandler.Create)
			owned.GET("/:id", businessHandler.ShowMine)
			owned.PUT("/:id", businessHandler.Update)
			owned.DELETE("/:id", businessHandler.Delete)
			owned.PATCH("/:id/restore", businessHandler.Restore)
			owned.DELETE("/:id/force", businessHandler.ForceDelete)
			owned.PUT("/:id/photo", imageHandler.UploadBusinessPhoto)

			owned.PUT("/:id/schedule", scheduleHandler.Replace)
			owned.DELETE("/:id/schedule", scheduleHandler.Delete)

			owned.POST("/:id/services", serviceHandler.Create)

			owned.GET("/:id/staff", staffHandler.List)
			owned.GET("/:id/staff/trashed", staffHandler.Trashed)
			owned.POST("/:id/staff", staffHandler.Create)
			owned.GET("/:id/staff/:staff_id", staffHandler.Show)
			owned.PUT("/:id/staff/:staff_id", staffHandler.Update)
			owned.DELETE("/:id/staff/:staff_id", staffHandler.Delete)
			owned.PATCH("/:id/staff/:staff_id/restore", staffHandler.Restore)
			owned.DELETE("/:id/staff/:staff_id/force", staffHandler.ForceDelete)
			owned.GET("/:id/staff/:staff_id/shifts", shiftHandler.ForStaff)

			owned.GET("/:id/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// SHIFTS (staff)
		// ------------------------------
		shifts := secured.Group("/me/shifts")
		shifts.Use(middleware.RequireCapability(auth.CapManageShifts))
		{
			shifts.GET("", shiftHandler.Mine)
			shifts.POST("", shiftHandler.Add)
			shifts.PUT("", shiftHandler.Replace)
			shifts.DELETE("/:day", shiftHandler.DeleteDay)
		}

		services := secured.Group("/me/services")
		services.Use(middleware.RequireCapability(auth.CapManageBusiness))
		{
			services.PUT("/:id", serviceHandler.Update)
			services.DELETE("/:id", serviceHandler.Delete)
			services.PUT("/:id/offer", serviceHandler.PutOffer)
			services.DELETE("/:id/offer", serviceHandler.DeleteOffer)
		}
	}
}
