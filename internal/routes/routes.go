package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	"github.com/BruksfildServices01/hospital-scheduler/internal/config"
	"github.com/BruksfildServices01/hospital-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/hospital-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/hospital-scheduler/internal/middleware"
	"github.com/BruksfildServices01/hospital-scheduler/internal/queue"
	ucBooking "github.com/BruksfildServices01/hospital-scheduler/internal/usecase/booking"
	ucSchedule "github.com/BruksfildServices01/hospital-scheduler/internal/usecase/schedule"
	ucSession "github.com/BruksfildServices01/hospital-scheduler/internal/usecase/session"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	sessionRepo := infraRepo.NewSessionGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	broadcaster := queue.NewBroadcaster(rdb)

	// ======================================================
	// USE CASES — SCHEDULES
	// ======================================================
	createScheduleUC := ucSchedule.NewCreateSchedule(scheduleRepo, auditDispatcher)
	updateScheduleUC := ucSchedule.NewUpdateSchedule(scheduleRepo, auditDispatcher)
	deleteScheduleUC := ucSchedule.NewDeleteSchedule(scheduleRepo, auditDispatcher)
	requestCancellationUC := ucSchedule.NewRequestCancellation(scheduleRepo, auditDispatcher)
	decideCancellationUC := ucSchedule.NewDecideCancellation(scheduleRepo, auditDispatcher)
	availabilityUC := ucSchedule.NewGetAvailability(scheduleRepo)

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	bookUC := ucBooking.NewBookAppointment(
		appointmentRepo,
		auditDispatcher,
		cfg.SlotLockTTL,
	)
	rescheduleUC := ucBooking.NewRescheduleAppointment(
		appointmentRepo,
		auditDispatcher,
		cfg.SlotLockTTL,
		cfg.RescheduleLimit,
		cfg.RescheduleMinAdvance,
	)
	cancelUC := ucBooking.NewCancelAppointment(appointmentRepo, auditDispatcher)
	changeStatusUC := ucBooking.NewChangeStatus(appointmentRepo, auditDispatcher)

	// ======================================================
	// USE CASES — SESSIONS
	// ======================================================
	materializeUC := ucSession.NewMaterializeSession(sessionRepo, auditDispatcher)
	assignNursesUC := ucSession.NewAssignNurses(sessionRepo, auditDispatcher)
	availableNursesUC := ucSession.NewAvailableNurses(sessionRepo)
	patchQueueUC := ucSession.NewPatchQueue(sessionRepo, broadcaster)
	upsertIntakeUC := ucSession.NewUpsertIntake(sessionRepo)
	attachPatientUC := ucSession.NewAttachPatient(sessionRepo, auditDispatcher)
	deleteSessionUC := ucSession.NewDeleteSession(sessionRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	scheduleHandler := handlers.NewScheduleHandler(
		scheduleRepo,
		createScheduleUC,
		updateScheduleUC,
		deleteScheduleUC,
		requestCancellationUC,
		decideCancellationUC,
		availabilityUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		appointmentRepo,
		bookUC,
		rescheduleUC,
		cancelUC,
		changeStatusUC,
	)

	sessionHandler := handlers.NewSessionHandler(
		db,
		materializeUC,
		assignNursesUC,
		availableNursesUC,
		patchQueueUC,
		upsertIntakeUC,
		attachPatientUC,
		deleteSessionUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// ------------------------------
			// SCHEDULES
			// ------------------------------
			secured.POST("/schedules", scheduleHandler.Create)
			secured.GET("/schedules", scheduleHandler.List)
			secured.GET("/schedules/:id", scheduleHandler.Get)
			secured.PATCH("/schedules/:id", scheduleHandler.Update)
			secured.DELETE("/schedules/:id", scheduleHandler.Delete)

			secured.POST("/schedules/:id/cancellations", scheduleHandler.RequestCancellation)
			secured.POST("/cancellations/:id/approve", scheduleHandler.ApproveCancellation)
			secured.POST("/cancellations/:id/reject", scheduleHandler.RejectCancellation)

			secured.GET("/availability", scheduleHandler.Availability)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Book)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.POST("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/appointments/:id/status", appointmentHandler.ChangeStatus)
			secured.GET("/appointments/:id/audit-logs", auditLogsHandler.ListForAppointment)

			// ------------------------------
			// SESSIONS
			// ------------------------------
			secured.POST("/sessions", sessionHandler.Materialize)
			secured.GET("/sessions", sessionHandler.List)
			secured.GET("/sessions/:id", sessionHandler.Get)
			secured.DELETE("/sessions/:id", sessionHandler.Delete)

			secured.GET("/sessions/:id/slots", sessionHandler.Slots)
			secured.GET("/sessions/:id/patients", sessionHandler.Patients)
			secured.POST("/sessions/:id/patients", sessionHandler.AttachPatient)

			secured.GET("/sessions/:id/nurses/available", sessionHandler.AvailableNurses)
			secured.POST("/sessions/:id/nurses", sessionHandler.AssignNurses)

			secured.PATCH("/sessions/:id/queue", sessionHandler.PatchQueue)

			secured.GET("/sessions/:id/intake", sessionHandler.Intake)
			secured.POST("/sessions/:id/intake", sessionHandler.UpsertIntake)

			// ------------------------------
			// AUDIT
			// ------------------------------
			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
