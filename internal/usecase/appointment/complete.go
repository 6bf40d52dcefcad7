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

type CompleteAppointment struct {
	repo   domain.Repository
	policy *access.Policy
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewCompleteAppointment(
	repo domain.Repository,
	policy *access.Policy,
	auditD *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:   repo,
		policy: policy,
		audit:  auditD,
		now:    time.Now,
	}
}

// Execute marks a session as held. Completing before end_at is allowed;
// counsellors close out sessions that finished early.
func (uc *CompleteAppointment) Execute(
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

	if err := uc.policy.AuthorizeWrite(ctx, caller, ap, access.ActionComplete); err != nil {
		return nil, err
	}

	// Students may only cancel, never complete.
	if caller.Role == access.RoleStudent {
		return nil, httperr.ErrBusiness("forbidden")
	}

	if err := domain.Complete(ap, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	actorID := caller.ID
	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
