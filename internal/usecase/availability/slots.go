package availability

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	avail "github.com/campuscare/counselling-api/internal/domain/availability"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/timezone"
)

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Free  bool      `json:"is_free"`
}

// GetDaySlots slices a counsellor's published windows for one date into
// bookable slots of the counsellor's default duration, flagging the ones
// already taken.
type GetDaySlots struct {
	repo domain.Repository
}

func NewGetDaySlots(repo domain.Repository) *GetDaySlots {
	return &GetDaySlots{repo: repo}
}

func (uc *GetDaySlots) Execute(
	ctx context.Context,
	counsellorID uint,
	date time.Time,
) ([]Slot, error) {

	counsellor, err := uc.repo.GetCounsellorByID(ctx, counsellorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("counsellor_not_found")
		}
		return nil, err
	}

	loc := timezone.Location(counsellor.Timezone)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := day.AddDate(0, 0, 1)
	weekday := int(day.Weekday())

	windows, err := uc.repo.ListWindows(ctx, counsellor.ID)
	if err != nil {
		return nil, err
	}

	scheduled := string(domain.StatusScheduled)
	dayStart := day.UTC()
	dayEndUTC := dayEnd.UTC()
	existing, _, err := uc.repo.Query(ctx, domain.Filter{
		CounsellorID: &counsellor.ID,
		Status:       scheduled,
		StartAfter:   &dayStart,
		StartBefore:  &dayEndUTC,
	}, domain.Sort{Field: "start_at"}, domain.Page{Limit: 100})
	if err != nil {
		return nil, err
	}

	duration := counsellor.DefaultDuration
	if duration <= 0 {
		duration = 30
	}
	step := time.Duration(duration) * time.Minute

	slots := []Slot{}
	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}

		ws, err := avail.ParseHM(w.StartTime)
		if err != nil {
			continue
		}
		we, err := avail.ParseHM(w.EndTime)
		if err != nil {
			continue
		}

		windowStart := day.Add(time.Duration(ws) * time.Minute)
		windowEnd := day.Add(time.Duration(we) * time.Minute)

		for cur := windowStart; !cur.Add(step).After(windowEnd); cur = cur.Add(step) {
			slotStart := cur.UTC()
			slotEnd := cur.Add(step).UTC()

			free := true
			for _, ap := range existing {
				if domain.Overlaps(slotStart, slotEnd, ap.StartAt, ap.EndAt) {
					free = false
					break
				}
			}

			slots = append(slots, Slot{Start: slotStart, End: slotEnd, Free: free})
		}
	}

	return slots, nil
}
