package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/config"
	"github.com/campuscare/counselling-api/internal/models"
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
		&models.User{},
		&models.Counsellor{},
		&models.AvailabilityWindow{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := installNoOverlapConstraint(db); err != nil {
		log.Fatalf("failed to install overlap constraint: %v", err)
	}

	db.Exec(`
        UPDATE counsellors
        SET timezone = 'Asia/Kolkata'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}

const noOverlapConstraint = "appointments_no_overlap"

// start_at/end_at migrate as timestamptz, so the range type must be
// tstzrange; tsrange over those columns fails with "function does not
// exist" (42883).
const noOverlapDDL = `
    ALTER TABLE appointments
    ADD CONSTRAINT ` + noOverlapConstraint + `
    EXCLUDE USING gist (
        counsellor_id WITH =,
        tstzrange(start_at, end_at) WITH &&
    )
    WHERE (status = 'SCHEDULED')`

// installNoOverlapConstraint is the last line of defence against
// double-booking: no two scheduled appointments for one counsellor may
// hold overlapping intervals, enforced inside Postgres itself. The
// conflict checks and the slot lock lean on it, so failing to install it
// is fatal, not a warning.
func installNoOverlapConstraint(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Raw(
		`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`,
		noOverlapConstraint,
	).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Exec(noOverlapDDL).Error
}
