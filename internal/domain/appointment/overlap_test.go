package appointment

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2030, 6, 10, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", at(14, 0), at(15, 0), at(14, 0), at(15, 0), true},
		{"partial front", at(14, 30), at(15, 30), at(14, 0), at(15, 0), true},
		{"partial back", at(13, 30), at(14, 30), at(14, 0), at(15, 0), true},
		{"contained", at(14, 15), at(14, 45), at(14, 0), at(15, 0), true},
		{"containing", at(13, 0), at(16, 0), at(14, 0), at(15, 0), true},
		{"back to back after", at(15, 0), at(16, 0), at(14, 0), at(15, 0), false},
		{"back to back before", at(13, 0), at(14, 0), at(14, 0), at(15, 0), false},
		{"disjoint", at(16, 0), at(17, 0), at(14, 0), at(15, 0), false},
	}

	for _, tc := range cases {
		if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidInterval(t *testing.T) {
	now := at(12, 0)

	if !ValidInterval(at(14, 0), at(15, 0), now) {
		t.Errorf("future interval rejected")
	}
	if ValidInterval(at(15, 0), at(14, 0), now) {
		t.Errorf("inverted interval accepted")
	}
	if ValidInterval(at(14, 0), at(14, 0), now) {
		t.Errorf("empty interval accepted")
	}
	if ValidInterval(at(10, 0), at(15, 0), now) {
		t.Errorf("past start accepted")
	}
	if ValidInterval(now, at(15, 0), now) {
		t.Errorf("start exactly now accepted, must be strictly future")
	}
}
