package meeting

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestJitsiLink(t *testing.T) {
	link := JitsiLink(7)
	if !strings.HasPrefix(link, "https://meet.jit.si/campus-7-") {
		t.Errorf("link = %q", link)
	}
	if link == JitsiLink(7) {
		t.Error("two links for the same counsellor are identical")
	}
}

func TestIcsDataLink(t *testing.T) {
	ev := Event{
		Title:       "Counselling; first session",
		Description: "Bring your\nintake form",
		Location:    "https://meet.jit.si/campus-1-abc",
		Start:       time.Date(2030, 6, 11, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2030, 6, 11, 10, 0, 0, 0, time.UTC),
		Attendees:   []string{"student@campus.test"},
	}

	link := IcsDataLink(ev)
	const prefix = "data:text/calendar;base64,"
	if !strings.HasPrefix(link, prefix) {
		t.Fatalf("link = %q", link)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link, prefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	cal := string(raw)

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"BEGIN:VEVENT\r\n",
		"DTSTART:20300611T090000Z\r\n",
		"DTEND:20300611T100000Z\r\n",
		"SUMMARY:Counselling\\; first session\r\n",
		"DESCRIPTION:Bring your\\nintake form\r\n",
		"ATTENDEE:mailto:student@campus.test\r\n",
		"END:VCALENDAR\r\n",
	} {
		if !strings.Contains(cal, want) {
			t.Errorf("calendar missing %q:\n%s", want, cal)
		}
	}
}
