package availability_test

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/models"
	ucAvailability "github.com/campuscare/counselling-api/internal/usecase/availability"
)

// slotsRepo serves just enough of domain.Repository for the slot grid.
type slotsRepo struct {
	counsellor   *models.Counsellor
	windows      []models.AvailabilityWindow
	appointments []models.Appointment
}

var _ domain.Repository = (*slotsRepo)(nil)

func (r *slotsRepo) GetCounsellorByID(_ context.Context, id uint) (*models.Counsellor, error) {
	if r.counsellor == nil || r.counsellor.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return r.counsellor, nil
}

func (r *slotsRepo) GetCounsellorByUserID(context.Context, uint) (*models.Counsellor, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *slotsRepo) ListWindows(context.Context, uint) ([]models.AvailabilityWindow, error) {
	return r.windows, nil
}

func (r *slotsRepo) Query(_ context.Context, f domain.Filter, _ domain.Sort, _ domain.Page) ([]models.Appointment, int64, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if f.StartAfter != nil && ap.StartAt.Before(*f.StartAfter) {
			continue
		}
		if f.StartBefore != nil && !ap.StartAt.Before(*f.StartBefore) {
			continue
		}
		out = append(out, ap)
	}
	return out, int64(len(out)), nil
}

func (r *slotsRepo) CreateAppointment(context.Context, *models.Appointment) error { return nil }
func (r *slotsRepo) HasTimeConflict(context.Context, uint, time.Time, time.Time, uint) (bool, error) {
	return false, nil
}
func (r *slotsRepo) GetAppointment(context.Context, uint) (*models.Appointment, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *slotsRepo) AggregateStats(context.Context, domain.Filter, time.Time) (*domain.Stats, error) {
	return &domain.Stats{}, nil
}
func (r *slotsRepo) ListUpcoming(context.Context, uint, domain.UserKind, time.Time, int) ([]models.Appointment, error) {
	return nil, nil
}
func (r *slotsRepo) UpdateAppointment(context.Context, *models.Appointment) error     { return nil }
func (r *slotsRepo) RescheduleAppointment(context.Context, *models.Appointment) error { return nil }
func (r *slotsRepo) DeleteAppointment(context.Context, uint) error                    { return nil }

func TestDaySlotGrid(t *testing.T) {
	// A Tuesday. The counsellor publishes 09:00-12:00 at 60 minutes.
	day := time.Date(2030, 6, 11, 0, 0, 0, 0, time.UTC)
	taken := time.Date(2030, 6, 11, 10, 0, 0, 0, time.UTC)

	repo := &slotsRepo{
		counsellor: &models.Counsellor{ID: 1, Timezone: "UTC", DefaultDuration: 60},
		windows: []models.AvailabilityWindow{
			{CounsellorID: 1, Weekday: 2, StartTime: "09:00", EndTime: "12:00"},
		},
		appointments: []models.Appointment{
			{ID: 1, CounsellorID: 1, Status: "SCHEDULED", StartAt: taken, EndAt: taken.Add(time.Hour)},
		},
	}

	slots, err := ucAvailability.NewGetDaySlots(repo).Execute(context.Background(), 1, day)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("len = %d, want 3", len(slots))
	}

	wantFree := []bool{true, false, true}
	for i, s := range slots {
		if s.Free != wantFree[i] {
			t.Errorf("slot %d (%v) free = %v, want %v", i, s.Start, s.Free, wantFree[i])
		}
		if s.End.Sub(s.Start) != time.Hour {
			t.Errorf("slot %d has duration %v", i, s.End.Sub(s.Start))
		}
	}
	if !slots[0].Start.Equal(day.Add(9 * time.Hour)) {
		t.Errorf("first slot starts %v", slots[0].Start)
	}
}

func TestDaySlotsRespectTimezone(t *testing.T) {
	// Kolkata 09:00-10:00 is 03:30-04:30 UTC.
	day := time.Date(2030, 6, 11, 0, 0, 0, 0, time.UTC)

	repo := &slotsRepo{
		counsellor: &models.Counsellor{ID: 1, Timezone: "Asia/Kolkata", DefaultDuration: 30},
		windows: []models.AvailabilityWindow{
			{CounsellorID: 1, Weekday: 2, StartTime: "09:00", EndTime: "10:00"},
		},
	}

	slots, err := ucAvailability.NewGetDaySlots(repo).Execute(context.Background(), 1, day)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("len = %d, want 2", len(slots))
	}
	want := time.Date(2030, 6, 11, 3, 30, 0, 0, time.UTC)
	if !slots[0].Start.Equal(want) {
		t.Errorf("first slot = %v, want %v", slots[0].Start, want)
	}
}

func TestDaySlotsEmptyWhenNoWindow(t *testing.T) {
	repo := &slotsRepo{
		counsellor: &models.Counsellor{ID: 1, Timezone: "UTC", DefaultDuration: 30},
		windows: []models.AvailabilityWindow{
			{CounsellorID: 1, Weekday: 3, StartTime: "09:00", EndTime: "12:00"},
		},
	}

	// Requested day is a Tuesday; the only window is Wednesday.
	day := time.Date(2030, 6, 11, 0, 0, 0, 0, time.UTC)
	slots, err := ucAvailability.NewGetDaySlots(repo).Execute(context.Background(), 1, day)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("len = %d, want 0", len(slots))
	}
}
