package appointment

import (
	"context"
	"time"

	"github.com/campuscare/counselling-api/internal/domain/access"
	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/models"
)

type AppointmentStats struct {
	repo   domain.Repository
	policy *access.Policy
	now    func() time.Time
}

func NewAppointmentStats(repo domain.Repository, policy *access.Policy) *AppointmentStats {
	return &AppointmentStats{repo: repo, policy: policy, now: time.Now}
}

func (uc *AppointmentStats) Execute(
	ctx context.Context,
	caller access.Caller,
	f domain.Filter,
) (*domain.Stats, error) {

	scoped, err := uc.policy.Scope(ctx, caller, f)
	if err != nil {
		return nil, err
	}

	return uc.repo.AggregateStats(ctx, scoped, uc.now().UTC())
}

type ListUpcoming struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListUpcoming(repo domain.Repository) *ListUpcoming {
	return &ListUpcoming{repo: repo, now: time.Now}
}

func (uc *ListUpcoming) Execute(
	ctx context.Context,
	caller access.Caller,
	userID uint,
	kind domain.UserKind,
	limit int,
) ([]models.Appointment, error) {

	switch kind {
	case domain.KindStudent, domain.KindCounsellor:
	default:
		return nil, httperr.ErrBusiness("invalid_user_kind")
	}

	// Students can only peek at their own dashboard feed.
	if caller.Role == access.RoleStudent &&
		(kind != domain.KindStudent || userID != caller.ID) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	return uc.repo.ListUpcoming(ctx, userID, kind, uc.now().UTC(), limit)
}
