package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Counsellor
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCounsellorByID(
	ctx context.Context,
	id uint,
) (*models.Counsellor, error) {

	var counsellor models.Counsellor
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&counsellor, id).Error; err != nil {
		return nil, err
	}
	return &counsellor, nil
}

func (r *AppointmentGormRepository) GetCounsellorByUserID(
	ctx context.Context,
	userID uint,
) (*models.Counsellor, error) {

	var counsellor models.Counsellor
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&counsellor).Error; err != nil {
		return nil, err
	}
	return &counsellor, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListWindows(
	ctx context.Context,
	counsellorID uint,
) ([]models.AvailabilityWindow, error) {

	var windows []models.AvailabilityWindow
	if err := r.db.WithContext(ctx).
		Where("counsellor_id = ?", counsellorID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) HasTimeConflict(
	ctx context.Context,
	counsellorID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"counsellor_id = ? AND status = ? AND start_at < ? AND end_at > ?",
			counsellorID, string(domain.StatusScheduled), end, start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAppointment locks the counsellor's scheduled rows that could
// overlap, re-checks, and inserts, all in one transaction. The exclusion
// constraint on the table is the last line of defence for a racing insert
// that commits between our check and ours.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"counsellor_id = ? AND status = ? AND start_at < ? AND end_at > ?",
				ap.CounsellorID, string(domain.StatusScheduled), ap.EndAt, ap.StartAt,
			).
			Count(&conflicts).Error; err != nil {
			return err
		}

		if conflicts > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(ap).Error
	})

	if err != nil && httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Counsellor").
		Preload("Student").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func applyFilter(q *gorm.DB, f domain.Filter) *gorm.DB {
	if f.CounsellorID != nil {
		q = q.Where("counsellor_id = ?", *f.CounsellorID)
	}
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.Mode != "" {
		q = q.Where("mode = ?", f.Mode)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StartAfter != nil {
		q = q.Where("start_at >= ?", *f.StartAfter)
	}
	if f.StartBefore != nil {
		q = q.Where("start_at < ?", *f.StartBefore)
	}
	if f.ExcludeID != 0 {
		q = q.Where("id <> ?", f.ExcludeID)
	}
	return q
}

var sortableFields = map[string]string{
	"start_at":   "start_at",
	"created_at": "created_at",
	"status":     "status",
	"mode":       "mode",
}

func (r *AppointmentGormRepository) Query(
	ctx context.Context,
	f domain.Filter,
	s domain.Sort,
	p domain.Page,
) ([]models.Appointment, int64, error) {

	q := applyFilter(
		r.db.WithContext(ctx).Model(&models.Appointment{}),
		f,
	)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortableFields[s.Field]
	if !ok {
		col = "start_at"
	}
	order := col + " ASC"
	if s.Desc {
		order = col + " DESC"
	}

	limit := p.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	var items []models.Appointment
	if err := q.
		Preload("Counsellor").
		Preload("Student").
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *AppointmentGormRepository) AggregateStats(
	ctx context.Context,
	f domain.Filter,
	now time.Time,
) (*domain.Stats, error) {

	base := func() *gorm.DB {
		return applyFilter(
			r.db.WithContext(ctx).Model(&models.Appointment{}),
			f,
		)
	}

	stats := &domain.Stats{CountsByMode: map[string]int64{}}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("start_at >= ?", now).Count(&stats.Upcoming).Error; err != nil {
		return nil, err
	}
	stats.Past = stats.Total - stats.Upcoming

	rows := []struct {
		Mode  string
		Count int64
	}{}
	if err := base().
		Select("mode, COUNT(*) AS count").
		Group("mode").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.CountsByMode[row.Mode] = row.Count
	}

	return stats, nil
}

func (r *AppointmentGormRepository) ListUpcoming(
	ctx context.Context,
	userID uint,
	kind domain.UserKind,
	now time.Time,
	limit int,
) ([]models.Appointment, error) {

	if limit <= 0 || limit > 50 {
		limit = 5
	}

	q := r.db.WithContext(ctx).
		Where("start_at >= ?", now)

	switch kind {
	case domain.KindStudent:
		q = q.Where("student_id = ?", userID)
	case domain.KindCounsellor:
		q = q.Where("counsellor_id = ?", userID)
	default:
		return nil, httperr.ErrBusiness("invalid_user_kind")
	}

	var items []models.Appointment
	if err := q.
		Preload("Counsellor").
		Preload("Student").
		Order("start_at ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"counsellor_id = ? AND status = ? AND id <> ? AND start_at < ? AND end_at > ?",
				ap.CounsellorID, string(domain.StatusScheduled), ap.ID, ap.EndAt, ap.StartAt,
			).
			Count(&conflicts).Error; err != nil {
			return err
		}

		if conflicts > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Save(ap).Error
	})

	if err != nil && httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
