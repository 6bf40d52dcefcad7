package appointment_test

import (
	"context"
	"testing"
	"time"

	"github.com/campuscare/counselling-api/internal/domain/access"
	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/infra/slotlock"
	ucAppointment "github.com/campuscare/counselling-api/internal/usecase/appointment"
)

func newRescheduleUC(repo *fakeRepo) *ucAppointment.RescheduleAppointment {
	return ucAppointment.NewRescheduleAppointment(
		repo, slotlock.NewMemoryLocker(), access.NewPolicy(repo), nil, false,
	)
}

func timePtr(ts time.Time) *time.Time { return &ts }

func TestRescheduleToFreeSlot(t *testing.T) {
	repo := newFakeRepo()
	seedCounsellor(repo)
	ctx := context.Background()

	id := seedBooking(t, repo, 10)
	newStart := nextWeekAt(t, 15)

	ap, err := newRescheduleUC(repo).Execute(ctx, access.Caller{ID: 100, Role: access.RoleCounsellor}, ucAppointment.RescheduleInput{
		AppointmentID: id,
		StartAt:       timePtr(newStart),
		EndAt:         timePtr(newStart.Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !ap.StartAt.Equal(newStart) {
		t.Errorf("start = %v, want %v", ap.StartAt, newStart)
	}
	if ap.Status != string(domain.StatusScheduled) {
		t.Errorf("status changed to %s", ap.Status)
	}
}

func TestRescheduleIntoOccupiedSlot(t *testing.T) {
	repo := newFakeRepo()
	seedCounsellor(repo)
	ctx := context.Background()

	seedBooking(t, repo, 10)
	id := seedBooking(t, repo, 14)
	target := nextWeekAt(t, 10).Add(30 * time.Minute)

	_, err := newRescheduleUC(repo).Execute(ctx, access.Caller{ID: 1, Role: access.RoleAdmin}, ucAppointment.RescheduleInput{
		AppointmentID: id,
		StartAt:       timePtr(target),
		EndAt:         timePtr(target.Add(time.Hour)),
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("err = %v, want time_conflict", err)
	}
}

// Keeping the same interval must not conflict with itself.
func TestRescheduleModeOnly(t *testing.T) {
	repo := newFakeRepo()
	seedCounsellor(repo)
	ctx := context.Background()

	id := seedBooking(t, repo, 10)
	phone := domain.ModePhone

	ap, err := newRescheduleUC(repo).Execute(ctx, access.Caller{ID: 1, Role: access.RoleAdmin}, ucAppointment.RescheduleInput{
		AppointmentID: id,
		Mode:          &phone,
	})
	if err != nil {
		t.Fatalf("mode change: %v", err)
	}
	if ap.Mode != string(domain.ModePhone) {
		t.Errorf("mode = %s", ap.Mode)
	}
}

func TestRescheduleTerminalAppointment(t *testing.T) {
	repo := newFakeRepo()
	seedCounsellor(repo)
	ctx := context.Background()

	id := seedBooking(t, repo, 10)
	admin := access.Caller{ID: 1, Role: access.RoleAdmin}

	cancelUC := ucAppointment.NewCancelAppointment(repo, access.NewPolicy(repo), nil)
	if _, err := cancelUC.Execute(ctx, admin, id); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	newStart := nextWeekAt(t, 15)
	_, err := newRescheduleUC(repo).Execute(ctx, admin, ucAppointment.RescheduleInput{
		AppointmentID: id,
		StartAt:       timePtr(newStart),
		EndAt:         timePtr(newStart.Add(time.Hour)),
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("err = %v, want invalid_state", err)
	}
}

func TestRescheduleForbiddenForVolunteerAndStudent(t *testing.T) {
	repo := newFakeRepo()
	seedCounsellor(repo)
	ctx := context.Background()

	id := seedBooking(t, repo, 10)
	newStart := nextWeekAt(t, 15)
	in := ucAppointment.RescheduleInput{
		AppointmentID: id,
		StartAt:       timePtr(newStart),
		EndAt:         timePtr(newStart.Add(time.Hour)),
	}

	for _, caller := range []access.Caller{
		{ID: 2, Role: access.RoleVolunteer},
		{ID: 7, Role: access.RoleStudent}, // owns it, but students only cancel
	} {
		if _, err := newRescheduleUC(repo).Execute(ctx, caller, in); !httperr.IsBusiness(err, "forbidden") {
			t.Errorf("%s reschedule err = %v, want forbidden", caller.Role, err)
		}
	}
}

func TestReschedulePastInterval(t *testing.T) {
	repo := newFakeRepo()
	seedCounsellor(repo)
	ctx := context.Background()

	id := seedBooking(t, repo, 10)
	past := time.Now().UTC().Add(-48 * time.Hour)

	_, err := newRescheduleUC(repo).Execute(ctx, access.Caller{ID: 1, Role: access.RoleAdmin}, ucAppointment.RescheduleInput{
		AppointmentID: id,
		StartAt:       timePtr(past),
		EndAt:         timePtr(past.Add(time.Hour)),
	})
	if !httperr.IsBusiness(err, "invalid_interval") {
		t.Fatalf("err = %v, want invalid_interval", err)
	}
}
