package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/audit"
	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/domain/availability"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/infra/slotlock"
	"github.com/campuscare/counselling-api/internal/mailer"
	"github.com/campuscare/counselling-api/internal/meeting"
	"github.com/campuscare/counselling-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	CounsellorID uint
	StudentID    *uint

	Mode    domain.Mode
	StartAt time.Time
	// Zero EndAt means counsellor's default session duration.
	EndAt time.Time

	// Opaque encrypted note blob, stored untouched.
	NotesEncrypted string

	// Used only for the calendar invite and the confirmation mail.
	StudentEmail string
	Note         string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo  domain.Repository
	lock  slotlock.Locker
	audit *audit.Dispatcher
	mail  *mailer.Mailer

	enforceAvailability bool
	now                 func() time.Time
}

func NewBookAppointment(
	repo domain.Repository,
	lock slotlock.Locker,
	auditD *audit.Dispatcher,
	mail *mailer.Mailer,
	enforceAvailability bool,
) *BookAppointment {
	return &BookAppointment{
		repo:                repo,
		lock:                lock,
		audit:               auditD,
		mail:                mail,
		enforceAvailability: enforceAvailability,
		now:                 time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	if !in.Mode.Valid() || in.Mode == domain.ModeHelpline {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	counsellor, err := uc.repo.GetCounsellorByID(ctx, in.CounsellorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("counsellor_not_found")
		}
		return nil, err
	}

	start := in.StartAt.UTC()
	end := in.EndAt.UTC()
	if in.EndAt.IsZero() {
		duration := counsellor.DefaultDuration
		if duration <= 0 {
			duration = 30
		}
		end = start.Add(time.Duration(duration) * time.Minute)
	}

	if !domain.ValidInterval(start, end, uc.now()) {
		return nil, httperr.ErrBusiness("invalid_interval")
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

	// Serialize racing requests for the same slot before touching the
	// database; a held lock means someone else is mid-booking.
	key := slotlock.SlotKey(counsellor.ID, start)
	token, ok, err := uc.lock.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("time_conflict")
	}
	defer uc.lock.Release(ctx, key, token)

	ap := &models.Appointment{
		CounsellorID:   counsellor.ID,
		StudentID:      in.StudentID,
		Mode:           string(in.Mode),
		StartAt:        start,
		EndAt:          end,
		Status:         string(domain.InitialStatus()),
		NotesEncrypted: in.NotesEncrypted,
	}

	if in.StudentID == nil {
		ap.SessionToken = uuid.NewString()
	}

	location := "Campus Counselling Center"
	if in.Mode == domain.ModeVideo {
		ap.MeetingLink = meeting.JitsiLink(counsellor.ID)
		location = ap.MeetingLink
	} else if in.Mode == domain.ModePhone {
		location = "Phone"
	}

	var attendees []string
	if in.StudentEmail != "" {
		attendees = append(attendees, in.StudentEmail)
	}
	ap.IcsLink = meeting.IcsDataLink(meeting.Event{
		Title:       "Counselling with " + counsellor.DisplayName,
		Description: in.Note,
		Location:    location,
		Start:       start,
		End:         end,
		Attendees:   attendees,
	})

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			uc.audit.Dispatch(audit.Event{
				ActorID: in.StudentID,
				Action:  "appointment_conflict",
				Entity:  "appointment",
				Metadata: map[string]any{
					"counsellor_id": counsellor.ID,
					"start_at":      start,
					"end_at":        end,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.StudentID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notify(counsellor, in, start, location)

	return ap, nil
}

func (uc *BookAppointment) notify(
	counsellor *models.Counsellor,
	in BookAppointmentInput,
	start time.Time,
	location string,
) {
	if uc.mail == nil {
		return
	}

	uc.mail.Send(mailer.Message{
		To:      counsellor.User.Email,
		Subject: fmt.Sprintf("New booking: %s", start.Format(time.RFC3339)),
		Body: fmt.Sprintf(
			"A new appointment has been scheduled.\nMode: %s\nLocation: %s",
			in.Mode, location,
		),
	})

	if in.StudentEmail != "" {
		uc.mail.Send(mailer.Message{
			To:      in.StudentEmail,
			Subject: fmt.Sprintf("Your appointment is confirmed - %s", start.Format(time.RFC3339)),
			Body: fmt.Sprintf(
				"Your appointment is confirmed.\nMode: %s\nLocation: %s",
				in.Mode, location,
			),
		})
	}
}
