package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/domain/access"
	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/models"
)

type ListAppointments struct {
	repo   domain.Repository
	policy *access.Policy
}

func NewListAppointments(repo domain.Repository, policy *access.Policy) *ListAppointments {
	return &ListAppointments{repo: repo, policy: policy}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	caller access.Caller,
	f domain.Filter,
	s domain.Sort,
	p domain.Page,
) ([]models.Appointment, int64, error) {

	scoped, err := uc.policy.Scope(ctx, caller, f)
	if err != nil {
		return nil, 0, err
	}

	return uc.repo.Query(ctx, scoped, s, p)
}

type GetAppointment struct {
	repo   domain.Repository
	policy *access.Policy
}

func NewGetAppointment(repo domain.Repository, policy *access.Policy) *GetAppointment {
	return &GetAppointment{repo: repo, policy: policy}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	id uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if err := uc.policy.CanView(ctx, caller, ap); err != nil {
		return nil, err
	}

	return ap, nil
}
