package access

import (
	"context"

	"github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/models"
)

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleCounsellor Role = "COUNSELLOR"
	RoleAdmin      Role = "ADMIN"
	RoleVolunteer  Role = "VOLUNTEER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCounsellor, RoleAdmin, RoleVolunteer:
		return true
	}
	return false
}

// Caller is the opaque identity produced by the auth middleware.
type Caller struct {
	ID   uint
	Role Role
}

type Action string

const (
	ActionCancel     Action = "cancel"
	ActionComplete   Action = "complete"
	ActionReschedule Action = "reschedule"
)

// ===============================
// Policy
// ===============================

type CounsellorResolver interface {
	GetCounsellorByUserID(ctx context.Context, userID uint) (*models.Counsellor, error)
}

type Policy struct {
	resolver CounsellorResolver
}

func NewPolicy(resolver CounsellorResolver) *Policy {
	return &Policy{resolver: resolver}
}

// Scope narrows f to what the caller is allowed to see. It is applied
// before every appointment query.
func (p *Policy) Scope(ctx context.Context, caller Caller, f appointment.Filter) (appointment.Filter, error) {
	switch caller.Role {
	case RoleStudent:
		id := caller.ID
		f.StudentID = &id
		return f, nil

	case RoleCounsellor:
		counsellor, err := p.resolver.GetCounsellorByUserID(ctx, caller.ID)
		if err != nil || counsellor == nil {
			return f, httperr.ErrBusiness("forbidden")
		}
		f.CounsellorID = &counsellor.ID
		return f, nil

	case RoleAdmin, RoleVolunteer:
		// Volunteers see everything admins see, but are read-only.
		return f, nil
	}

	return f, httperr.ErrBusiness("forbidden")
}

// AuthorizeWrite decides whether the caller may run action against ap.
// Lifecycle legality (scheduled vs terminal) is the state machine's job,
// not the policy's.
func (p *Policy) AuthorizeWrite(ctx context.Context, caller Caller, ap *models.Appointment, action Action) error {
	switch caller.Role {
	case RoleAdmin:
		return nil

	case RoleVolunteer:
		return httperr.ErrBusiness("forbidden")

	case RoleStudent:
		if action != ActionCancel {
			return httperr.ErrBusiness("forbidden")
		}
		if ap.StudentID == nil || *ap.StudentID != caller.ID {
			return httperr.ErrBusiness("forbidden")
		}
		return nil

	case RoleCounsellor:
		counsellor, err := p.resolver.GetCounsellorByUserID(ctx, caller.ID)
		if err != nil || counsellor == nil {
			return httperr.ErrBusiness("forbidden")
		}
		if ap.CounsellorID != counsellor.ID {
			return httperr.ErrBusiness("forbidden")
		}
		return nil
	}

	return httperr.ErrBusiness("forbidden")
}

// CanView applies the same ownership rules as Scope to a single record.
func (p *Policy) CanView(ctx context.Context, caller Caller, ap *models.Appointment) error {
	switch caller.Role {
	case RoleAdmin, RoleVolunteer:
		return nil

	case RoleStudent:
		if ap.StudentID != nil && *ap.StudentID == caller.ID {
			return nil
		}
		return httperr.ErrBusiness("forbidden")

	case RoleCounsellor:
		counsellor, err := p.resolver.GetCounsellorByUserID(ctx, caller.ID)
		if err != nil || counsellor == nil {
			return httperr.ErrBusiness("forbidden")
		}
		if ap.CounsellorID == counsellor.ID {
			return nil
		}
		return httperr.ErrBusiness("forbidden")
	}

	return httperr.ErrBusiness("forbidden")
}

// CanMutate is the blanket write gate: volunteers are strictly read-only
// on scheduling data.
func CanMutate(caller Caller) bool {
	return caller.Role != RoleVolunteer
}

func CanDeleteUser(caller Caller) bool {
	return caller.Role == RoleAdmin
}
