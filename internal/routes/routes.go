package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/audit"
	"github.com/campuscare/counselling-api/internal/config"
	"github.com/campuscare/counselling-api/internal/domain/access"
	"github.com/campuscare/counselling-api/internal/handlers"
	infraRepo "github.com/campuscare/counselling-api/internal/infra/repository"
	"github.com/campuscare/counselling-api/internal/infra/slotlock"
	"github.com/campuscare/counselling-api/internal/mailer"
	"github.com/campuscare/counselling-api/internal/middleware"
	ucAppointment "github.com/campuscare/counselling-api/internal/usecase/appointment"
	ucAvailability "github.com/campuscare/counselling-api/internal/usecase/availability"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	lock slotlock.Locker,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	policy := access.NewPolicy(appointmentRepo)
	mail := mailer.New(cfg)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	bookUC := ucAppointment.NewBookAppointment(
		appointmentRepo,
		lock,
		auditDispatcher,
		mail,
		cfg.AvailabilityEnforced,
	)

	rescheduleUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		lock,
		policy,
		auditDispatcher,
		cfg.AvailabilityEnforced,
	)

	cancelUC := ucAppointment.NewCancelAppointment(appointmentRepo, policy, auditDispatcher)
	completeUC := ucAppointment.NewCompleteAppointment(appointmentRepo, policy, auditDispatcher)
	deleteUC := ucAppointment.NewDeleteAppointment(appointmentRepo, auditDispatcher)

	listUC := ucAppointment.NewListAppointments(appointmentRepo, policy)
	getUC := ucAppointment.NewGetAppointment(appointmentRepo, policy)
	statsUC := ucAppointment.NewAppointmentStats(appointmentRepo, policy)
	upcomingUC := ucAppointment.NewListUpcoming(appointmentRepo)

	slotsUC := ucAvailability.NewGetDaySlots(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		cfg,
		bookUC,
		rescheduleUC,
		cancelUC,
		completeUC,
		deleteUC,
		listUC,
		getUC,
		statsUC,
		upcomingUC,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(db)
	publicHandler := handlers.NewPublicHandler(db, slotsUC)
	usersHandler := handlers.NewUsersHandler(db, auditDispatcher)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/counsellors", publicHandler.ListCounsellors)
			publicAPI.GET("/counsellors/:id/availability", publicHandler.DaySlots)

			// Anonymous bookings: no bearer token, the response carries a
			// session token instead of a student id.
			publicAPI.POST("/appointments", appointmentHandler.Create)
		}

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/stats", appointmentHandler.Stats)
			secured.GET("/appointments/upcoming/:userType/:userId", appointmentHandler.Upcoming)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			// ------------------------------
			// AVAILABILITY WINDOWS
			// ------------------------------
			secured.GET("/me/availability", availabilityHandler.List)
			secured.POST("/me/availability", availabilityHandler.Create)
			secured.DELETE("/me/availability/:id", availabilityHandler.Delete)

			// ------------------------------
			// ACCOUNTS
			// ------------------------------
			secured.DELETE("/users/:id", usersHandler.Delete)
		}
	}
}
