package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/audit"
	"github.com/campuscare/counselling-api/internal/domain/access"
	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/domain/availability"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/infra/slotlock"
	"github.com/campuscare/counselling-api/internal/models"
)

type RescheduleInput struct {
	AppointmentID uint

	// Nil fields keep the current value.
	StartAt *time.Time
	EndAt   *time.Time
	Mode    *domain.Mode
}

// RescheduleAppointment is the update path. Changing the interval re-runs
// the whole booking pipeline against the new slot, excluding the record
// itself; a raw field patch could smuggle a conflict in.
type RescheduleAppointment struct {
	repo   domain.Repository
	lock   slotlock.Locker
	policy *access.Policy
	audit  *audit.Dispatcher

	enforceAvailability bool
	now                 func() time.Time
}

func NewRescheduleAppointment(
	repo domain.Repository,
	lock slotlock.Locker,
	policy *access.Policy,
	auditD *audit.Dispatcher,
	enforceAvailability bool,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:                repo,
		lock:                lock,
		policy:              policy,
		audit:               auditD,
		enforceAvailability: enforceAvailability,
		now:                 time.Now,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	in RescheduleInput,
) (*models.Appointment, error) {

	if !access.CanMutate(caller) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if err := uc.policy.AuthorizeWrite(ctx, caller, ap, access.ActionReschedule); err != nil {
		return nil, err
	}

	if domain.Status(ap.Status) != domain.StatusScheduled {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	start := ap.StartAt
	end := ap.EndAt
	if in.StartAt != nil {
		start = in.StartAt.UTC()
	}
	if in.EndAt != nil {
		end = in.EndAt.UTC()
	}
	if in.Mode != nil {
		if !in.Mode.Valid() || *in.Mode == domain.ModeHelpline {
			return nil, httperr.ErrBusiness("invalid_request")
		}
		ap.Mode = string(*in.Mode)
	}

	intervalChanged := !start.Equal(ap.StartAt) || !end.Equal(ap.EndAt)

	if intervalChanged {
		if !domain.ValidInterval(start, end, uc.now()) {
			return nil, httperr.ErrBusiness("invalid_interval")
		}

		counsellor, err := uc.repo.GetCounsellorByID(ctx, ap.CounsellorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("counsellor_not_found")
			}
			return nil, err
		}

		if uc.enforceAvailability {
			windows, err := uc.repo.ListWindows(ctx, counsellor.ID)
			if err != nil {
				return nil, err
			}
			if !availability.WithinWindows(windows, counsellor.Timezone, start, end) {
				return nil, httperr.ErrBusiness("outside_availability")
			}
		}

		key := slotlock.SlotKey(ap.CounsellorID, start)
		token, ok, err := uc.lock.Acquire(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		defer uc.lock.Release(ctx, key, token)

		ap.StartAt = start
		ap.EndAt = end

		if err := uc.repo.RescheduleAppointment(ctx, ap); err != nil {
			return nil, err
		}
	} else {
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return nil, err
		}
	}

	actorID := caller.ID
	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
