package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/audit"
	"github.com/campuscare/counselling-api/internal/domain/access"
	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/models"
)

type CancelAppointment struct {
	repo   domain.Repository
	policy *access.Policy
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	policy *access.Policy,
	auditD *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		policy: policy,
		audit:  auditD,
		now:    time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	appointmentID uint,
) (*models.Appointment, error) {

	if !access.CanMutate(caller) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if err := uc.policy.AuthorizeWrite(ctx, caller, ap, access.ActionCancel); err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	actorID := caller.ID
	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
