package appointment

import (
	"context"
	"time"

	"github.com/campuscare/counselling-api/internal/models"
)

// ===============================
// Query types
// ===============================

type Filter struct {
	CounsellorID *uint
	StudentID    *uint
	Mode         string
	Status       string
	StartAfter   *time.Time
	StartBefore  *time.Time

	// ExcludeID drops one appointment from the result, used when a
	// reschedule re-checks conflicts against everything but itself.
	ExcludeID uint
}

type Sort struct {
	Field string // "start_at", "created_at", "status", "mode"
	Desc  bool
}

type Page struct {
	Offset int
	Limit  int
}

type Stats struct {
	Total        int64            `json:"total"`
	Upcoming     int64            `json:"upcoming"`
	Past         int64            `json:"past"`
	CountsByMode map[string]int64 `json:"counts_by_mode"`
}

type UserKind string

const (
	KindStudent    UserKind = "student"
	KindCounsellor UserKind = "counsellor"
)

// ===============================
// Repository contract
// ===============================

type Repository interface {
	// -------- Counsellor --------
	GetCounsellorByID(ctx context.Context, id uint) (*models.Counsellor, error)

	GetCounsellorByUserID(ctx context.Context, userID uint) (*models.Counsellor, error)

	// -------- Availability --------
	ListWindows(ctx context.Context, counsellorID uint) ([]models.AvailabilityWindow, error)

	// -------- Appointment (create / conflict) --------
	// CreateAppointment runs the locked overlap re-check and the insert in
	// one transaction; it returns a time_conflict business error when the
	// interval is already taken.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	HasTimeConflict(ctx context.Context, counsellorID uint, start, end time.Time, excludeID uint) (bool, error)

	// -------- Appointment (read) --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	Query(ctx context.Context, f Filter, s Sort, p Page) ([]models.Appointment, int64, error)

	AggregateStats(ctx context.Context, f Filter, now time.Time) (*Stats, error)

	ListUpcoming(ctx context.Context, userID uint, kind UserKind, now time.Time, limit int) ([]models.Appointment, error)

	// -------- Appointment (state change) --------
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// RescheduleAppointment re-checks conflicts for the new interval
	// (excluding ap itself) and saves, atomically.
	RescheduleAppointment(ctx context.Context, ap *models.Appointment) error

	DeleteAppointment(ctx context.Context, id uint) error
}
