package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-scheduler/internal/config"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.DoctorSchedule{},
		&models.ScheduleCancellation{},
		&models.ScheduleSession{},
		&models.SessionStaff{},
		&models.SessionQueue{},
		&models.SessionIntake{},
		&models.Appointment{},
		&models.SlotLock{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// AutoMigrate cannot express a partial index; this is the double
	// booking guard of record. Cancelled rows are excluded so a freed
	// slot can be rebooked.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot_active
        ON appointments (doctor_id, appointment_date, appointment_time)
        WHERE status <> 'cancelled'
    `)

	return db
}
