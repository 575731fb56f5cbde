package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

// DefaultProductID identifies the generator in the PRODID property
const DefaultProductID = "-//edt2ics//Emploi du temps//FR"

// uidNamespace scopes the name-based UUIDs generated for events
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/pfrederiksen/edt2ics"))

// Options controls calendar document generation
type Options struct {
	ProductID string
	Name      string         // X-WR-CALNAME, omitted when empty
	Location  *time.Location // zone event clocks are interpreted in
	Stamp     time.Time      // DTSTAMP for every event; zero means now
}

func (o Options) withDefaults() Options {
	if o.ProductID == "" {
		o.ProductID = DefaultProductID
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Stamp.IsZero() {
		o.Stamp = time.Now()
	}
	return o
}

// Build creates a calendar with one VEVENT per event, in input order.
// UIDs are derived from event content so regenerating the same schedule
// updates events in subscribed clients instead of duplicating them.
func Build(events []event.Event, opts Options) (*ics.Calendar, error) {
	opts = opts.withDefaults()

	cal := ics.NewCalendar()
	cal.SetProductId(opts.ProductID)
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}
	cal.SetXWRTimezone(opts.Location.String())

	seen := make(map[string]int)
	for _, e := range events {
		start, err := e.Start(opts.Location)
		if err != nil {
			return nil, fmt.Errorf("event %s: start: %w", e, err)
		}
		end, err := e.End(opts.Location)
		if err != nil {
			return nil, fmt.Errorf("event %s: end: %w", e, err)
		}

		id := event.GenerateID(e)
		seen[id]++
		uid := eventUID(id, seen[id])

		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(opts.Stamp)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(e.Description)
	}

	return cal, nil
}

// GenerateICS builds and serializes a calendar document
func GenerateICS(events []event.Event, opts Options) (string, error) {
	cal, err := Build(events, opts)
	if err != nil {
		return "", err
	}
	return cal.Serialize(ics.WithNewLineWindows), nil
}

// eventUID returns a stable UID; identical events get distinct UIDs by
// their occurrence number.
func eventUID(contentID string, occurrence int) string {
	name := contentID
	if occurrence > 1 {
		name = fmt.Sprintf("%s#%d", contentID, occurrence)
	}
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@edt2ics"
}
