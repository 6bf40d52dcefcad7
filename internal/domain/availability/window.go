package availability

import (
	"time"

	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/models"
	"github.com/campuscare/counselling-api/internal/timezone"
)

// ParseHM parses a "15:04" time-of-day string into minutes since midnight.
func ParseHM(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateWindow checks a new recurring window against the counsellor's
// existing ones: weekday in [0,6], start < end, and no overlap with another
// window on the same weekday (half-open, so touching edges are fine).
func ValidateWindow(weekday int, startTime, endTime string, existing []models.AvailabilityWindow) error {
	if weekday < 0 || weekday > 6 {
		return httperr.ErrBusiness("invalid_window")
	}

	start, err := ParseHM(startTime)
	if err != nil {
		return httperr.ErrBusiness("invalid_window")
	}
	end, err := ParseHM(endTime)
	if err != nil {
		return httperr.ErrBusiness("invalid_window")
	}
	if start >= end {
		return httperr.ErrBusiness("invalid_window")
	}

	for _, w := range existing {
		if w.Weekday != weekday {
			continue
		}
		ws, err := ParseHM(w.StartTime)
		if err != nil {
			continue
		}
		we, err := ParseHM(w.EndTime)
		if err != nil {
			continue
		}
		if start < we && end > ws {
			return httperr.ErrBusiness("window_conflict")
		}
	}

	return nil
}

// WithinWindows reports whether [startAt, endAt) falls entirely inside a
// single published window, evaluated in the counsellor's timezone.
//
// An appointment must not span a window boundary, and a booking that
// crosses local midnight never fits one weekday's window, so it is
// rejected as outside availability. That is a deliberate conservative
// policy (callers gate the whole check behind config).
func WithinWindows(windows []models.AvailabilityWindow, tz string, startAt, endAt time.Time) bool {
	loc := timezone.Location(tz)

	start := startAt.In(loc)
	end := endAt.In(loc)

	if start.Year() != end.Year() || start.YearDay() != end.YearDay() {
		return false
	}

	weekday := int(start.Weekday())
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}
		ws, err := ParseHM(w.StartTime)
		if err != nil {
			continue
		}
		we, err := ParseHM(w.EndTime)
		if err != nil {
			continue
		}
		if startMin >= ws && endMin <= we {
			return true
		}
	}

	return false
}
