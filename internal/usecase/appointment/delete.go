package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/audit"
	"github.com/campuscare/counselling-api/internal/domain/access"
	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/httperr"
)

// DeleteAppointment hard-deletes a record. Normal lifecycle goes through
// cancellation; this is the admin escape hatch for bad data.
type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(repo domain.Repository, auditD *audit.Dispatcher) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: auditD}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	appointmentID uint,
) error {

	if caller.Role != access.RoleAdmin {
		return httperr.ErrBusiness("forbidden")
	}

	if _, err := uc.repo.GetAppointment(ctx, appointmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("appointment_not_found")
		}
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, appointmentID); err != nil {
		return err
	}

	actorID := caller.ID
	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return nil
}
