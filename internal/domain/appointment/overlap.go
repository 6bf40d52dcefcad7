package appointment

import "time"

// Overlaps is the half-open interval test shared by every conflict check.
// Equal boundaries (one slot ends exactly when the next starts) do not
// overlap, so back-to-back bookings are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidInterval reports whether [start, end) is well-formed and strictly in
// the future relative to now.
func ValidInterval(start, end, now time.Time) bool {
	return start.Before(end) && start.After(now)
}
