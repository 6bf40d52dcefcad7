package appointment_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/models"
)

var errNotFound = gorm.ErrRecordNotFound

// fakeRepo is an in-memory domain.Repository. CreateAppointment and
// RescheduleAppointment run their conflict check and write under one
// mutex, mirroring the transactional guarantee of the real store.
type fakeRepo struct {
	mu sync.Mutex

	counsellors  map[uint]*models.Counsellor
	windows      map[uint][]models.AvailabilityWindow
	appointments map[uint]*models.Appointment
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		counsellors:  make(map[uint]*models.Counsellor),
		windows:      make(map[uint][]models.AvailabilityWindow),
		appointments: make(map[uint]*models.Appointment),
		nextID:       1,
	}
}

func (r *fakeRepo) addCounsellor(c models.Counsellor) *models.Counsellor {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := c
	r.counsellors[c.ID] = &stored
	return &stored
}

func (r *fakeRepo) addWindow(counsellorID uint, weekday int, start, end string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows[counsellorID] = append(r.windows[counsellorID], models.AvailabilityWindow{
		CounsellorID: counsellorID,
		Weekday:      weekday,
		StartTime:    start,
		EndTime:      end,
	})
}

func (r *fakeRepo) GetCounsellorByID(_ context.Context, id uint) (*models.Counsellor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counsellors[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetCounsellorByUserID(_ context.Context, userID uint) (*models.Counsellor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.counsellors {
		if c.UserID == userID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeRepo) ListWindows(_ context.Context, counsellorID uint) ([]models.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AvailabilityWindow(nil), r.windows[counsellorID]...), nil
}

func (r *fakeRepo) hasConflictLocked(counsellorID uint, start, end time.Time, excludeID uint) bool {
	for _, ap := range r.appointments {
		if ap.CounsellorID != counsellorID || ap.ID == excludeID {
			continue
		}
		if ap.Status != string(domain.StatusScheduled) {
			continue
		}
		if domain.Overlaps(ap.StartAt, ap.EndAt, start, end) {
			return true
		}
	}
	return false
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasConflictLocked(ap.CounsellorID, ap.StartAt, ap.EndAt, 0) {
		return httperr.ErrBusiness("time_conflict")
	}

	ap.ID = r.nextID
	r.nextID++
	ap.CreatedAt = time.Now()
	ap.UpdatedAt = ap.CreatedAt

	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) HasTimeConflict(_ context.Context, counsellorID uint, start, end time.Time, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasConflictLocked(counsellorID, start, end, excludeID), nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap, ok := r.appointments[id]; ok {
		copied := *ap
		return &copied, nil
	}
	return nil, errNotFound
}

func matches(ap *models.Appointment, f domain.Filter) bool {
	if f.CounsellorID != nil && ap.CounsellorID != *f.CounsellorID {
		return false
	}
	if f.StudentID != nil && (ap.StudentID == nil || *ap.StudentID != *f.StudentID) {
		return false
	}
	if f.Mode != "" && ap.Mode != f.Mode {
		return false
	}
	if f.Status != "" && ap.Status != f.Status {
		return false
	}
	if f.StartAfter != nil && ap.StartAt.Before(*f.StartAfter) {
		return false
	}
	if f.StartBefore != nil && !ap.StartAt.Before(*f.StartBefore) {
		return false
	}
	if f.ExcludeID != 0 && ap.ID == f.ExcludeID {
		return false
	}
	return true
}

func (r *fakeRepo) Query(_ context.Context, f domain.Filter, s domain.Sort, p domain.Page) ([]models.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []models.Appointment
	for _, ap := range r.appointments {
		if matches(ap, f) {
			items = append(items, *ap)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		less := items[i].StartAt.Before(items[j].StartAt)
		if s.Desc {
			return !less
		}
		return less
	})

	total := int64(len(items))

	offset := p.Offset
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]

	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit < len(items) {
		items = items[:limit]
	}

	return items, total, nil
}

func (r *fakeRepo) AggregateStats(_ context.Context, f domain.Filter, now time.Time) (*domain.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &domain.Stats{CountsByMode: map[string]int64{}}
	for _, ap := range r.appointments {
		if !matches(ap, f) {
			continue
		}
		stats.Total++
		if !ap.StartAt.Before(now) {
			stats.Upcoming++
		} else {
			stats.Past++
		}
		stats.CountsByMode[ap.Mode]++
	}
	return stats, nil
}

func (r *fakeRepo) ListUpcoming(_ context.Context, userID uint, kind domain.UserKind, now time.Time, limit int) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []models.Appointment
	for _, ap := range r.appointments {
		if ap.StartAt.Before(now) {
			continue
		}
		switch kind {
		case domain.KindStudent:
			if ap.StudentID == nil || *ap.StudentID != userID {
				continue
			}
		case domain.KindCounsellor:
			if ap.CounsellorID != userID {
				continue
			}
		}
		items = append(items, *ap)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].StartAt.Before(items[j].StartAt)
	})

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[ap.ID]; !ok {
		return errNotFound
	}
	ap.UpdatedAt = time.Now()
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) RescheduleAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[ap.ID]; !ok {
		return errNotFound
	}
	if r.hasConflictLocked(ap.CounsellorID, ap.StartAt, ap.EndAt, ap.ID) {
		return httperr.ErrBusiness("time_conflict")
	}
	ap.UpdatedAt = time.Now()
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.appointments, id)
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)
