package event

import (
	"fmt"
	"strings"
	"time"
)

// Times is the calendar start/end structure: either an all-day date or a
// zoned point in time.
type Times struct {
	Date     string
	DateTime string
	TimeZone string
}

// EventTimes builds the start and end structures for the calendar capability.
// Timed events are zero-duration point events (start == end) in the given
// zone; "All Day" degrades to a bare date.
func (d Details) EventTimes(loc *time.Location) (start, end Times, err error) {
	if !d.Schedulable() {
		return Times{}, Times{}, fmt.Errorf("no date in event details")
	}

	if d.Time == AllDay {
		allDay := Times{Date: d.Date}
		return allDay, allDay, nil
	}

	combined := d.Date + " " + strings.ToUpper(strings.TrimSpace(d.Time))
	parsed, err := time.ParseInLocation("2006-01-02 3:04 PM", combined, loc)
	if err != nil {
		return Times{}, Times{}, fmt.Errorf("error parsing date and time %q: %w", combined, err)
	}

	point := Times{
		DateTime: parsed.Format("2006-01-02T15:04:05-07:00"),
		TimeZone: loc.String(),
	}
	return point, point, nil
}
