package agenda

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	"embui/internal/applog"
)

const maxOccurrencesPerEvent = 5000

// ExpandOptions controls recurrence expansion.
type ExpandOptions struct {
	// Location is the display timezone every item is converted into.
	// Nil means time.Local.
	Location *time.Location

	// RangeStart / RangeEnd bound the occurrences, inclusive.
	RangeStart time.Time
	RangeEnd   time.Time
}

// ExpandResult holds the expanded items plus the UIDs that hit the
// per-event occurrence cap.
type ExpandResult struct {
	Items     []Item
	Truncated []string
}

// Expand turns parsed events into concrete items within the range.
// It handles non-recurring events, RRULE recurrence, EXDATE removal,
// RECURRENCE-ID overrides and all-day semantics, converting everything
// into the display timezone.
func Expand(events []Event, opts ExpandOptions) (ExpandResult, error) {
	var result ExpandResult

	if opts.RangeEnd.Before(opts.RangeStart) {
		return result, errors.New("agenda: expand range end before start")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	// Split base events from overrides, keyed by UID.
	baseByUID := make(map[string][]Event)
	overridesByUID := make(map[string][]Event)
	for _, ev := range events {
		if ev.RecurrenceID != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
		} else {
			baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
		}
	}

	for uid, bases := range baseByUID {
		overrides := overridesByUID[uid]
		truncated := false
		for _, ev := range bases {
			items, hitCap := expandEvent(ev, overrides, opts)
			if hitCap {
				truncated = true
			}
			result.Items = append(result.Items, items...)
		}
		if truncated {
			result.Truncated = append(result.Truncated, uid)
			applog.Warn("occurrence cap hit", "uid", uid, "cap", maxOccurrencesPerEvent)
		}
	}

	return result, nil
}

func expandEvent(ev Event, overrides []Event, opts ExpandOptions) ([]Item, bool) {
	if ev.RawRRule == "" {
		return expandSingle(ev, overrides, opts), false
	}
	return expandRecurring(ev, overrides, opts)
}

func expandSingle(ev Event, overrides []Event, opts ExpandOptions) []Item {
	if !rangesOverlap(ev.Start, ev.End, opts.RangeStart, opts.RangeEnd) {
		return nil
	}
	start, end := ev.Start, ev.End
	if o, ok := overrideFor(overrides, start); ok {
		start, end = o.Start, o.End
		ev = o
	}
	return []Item{makeItem(ev, start, end, opts.Location)}
}

func expandRecurring(ev Event, overrides []Event, opts ExpandOptions) ([]Item, bool) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		applog.Error("bad RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Between works in the event's own location.
	rangeStart := opts.RangeStart.In(ev.Start.Location())
	rangeEnd := opts.RangeEnd.In(ev.Start.Location())
	starts := set.Between(rangeStart, rangeEnd, true)

	hitCap := false
	if len(starts) > maxOccurrencesPerEvent {
		starts = starts[:maxOccurrencesPerEvent]
		hitCap = true
	}

	out := make([]Item, 0, len(starts))
	dur := ev.End.Sub(ev.Start)
	for _, start := range starts {
		var end time.Time
		if ev.AllDay {
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
			end = start.Add(24 * time.Hour)
		} else {
			end = start.Add(dur)
		}

		item := ev
		if o, ok := overrideFor(overrides, start); ok {
			item = o
			start, end = o.Start, o.End
		}
		out = append(out, makeItem(item, start, end, opts.Location))
	}
	return out, hitCap
}

// overrideFor finds the override whose RECURRENCE-ID equals the given
// instance start.
func overrideFor(overrides []Event, start time.Time) (Event, bool) {
	for _, o := range overrides {
		if o.RecurrenceID == nil {
			continue
		}
		if o.RecurrenceID.In(start.Location()).Equal(start) {
			return o, true
		}
	}
	return Event{}, false
}

func makeItem(ev Event, start, end time.Time, loc *time.Location) Item {
	s := start.In(loc)
	e := end.In(loc)
	return Item{
		SourceID: ev.Source.ID,
		UID:      ev.UID,
		Key:      s.Format(time.RFC3339Nano),
		Summary:  ev.Summary,
		Location: ev.Location,
		AllDay:   ev.AllDay,
		Start:    s,
		End:      e,
	}
}

func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
