package meeting

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JitsiLink mints a fresh meeting room for a video session. Room names are
// unguessable so a link doubles as the access credential.
func JitsiLink(counsellorID uint) string {
	room := fmt.Sprintf("campus-%d-%s", counsellorID, uuid.NewString())
	return "https://meet.jit.si/" + url.PathEscape(room)
}

type Event struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

const icsTimeLayout = "20060102T150405Z"

// IcsDataLink renders a minimal single-event VCALENDAR and returns it as a
// base64 data link, the same artifact the booking UI attaches to calendar
// buttons.
func IcsDataLink(ev Event) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//campuscare//counselling//EN\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:%s\r\n", uuid.NewString())
	fmt.Fprintf(&b, "DTSTAMP:%s\r\n", time.Now().UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTSTART:%s\r\n", ev.Start.UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTEND:%s\r\n", ev.End.UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeText(ev.Title))
	if ev.Description != "" {
		fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeText(ev.Description))
	}
	if ev.Location != "" {
		fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeText(ev.Location))
	}
	for _, email := range ev.Attendees {
		fmt.Fprintf(&b, "ATTENDEE:mailto:%s\r\n", email)
	}
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")

	return "data:text/calendar;base64," +
		base64.StdEncoding.EncodeToString([]byte(b.String()))
}

func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}
