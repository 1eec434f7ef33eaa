// Package agenda turns ICS calendar subscriptions into the flat,
// timezone-normalized item list the calendar board renders. It fetches
// feeds with HTTP caching, parses VEVENTs and expands recurrences into
// concrete occurrences within a rolling horizon.
package agenda

import (
	"context"
	"errors"
	"sort"
	"time"

	"embui/internal/applog"
)

// Source is one ICS subscription.
type Source struct {
	// ID is an internal identifier used for caching and logging.
	ID string
	// URL is the ICS endpoint.
	URL string
	// Name is the label shown next to the source's items.
	Name string
	// Color is the hex RGB string for the source's dot, e.g. "#2196F3".
	Color string
}

// Item is a single concrete occurrence of an event, normalized into
// the display timezone.
type Item struct {
	SourceID string
	UID      string

	// Key uniquely identifies one occurrence of a recurring event,
	// derived from the local start time.
	Key string

	Summary  string
	Location string
	AllDay   bool

	// Start / End are in the display timezone.
	Start time.Time
	End   time.Time
}

// Day groups the items sharing one calendar date.
type Day struct {
	Date  time.Time // midnight in the display timezone
	Items []Item
}

// Service fetches, parses and expands a fixed set of sources.
type Service struct {
	sources []Source
	fetcher *Fetcher
	loc     *time.Location
	horizon time.Duration
}

// NewService builds a Service. loc defaults to time.Local; horizonDays
// defaults to 7.
func NewService(sources []Source, cacheDir string, loc *time.Location, horizonDays int) *Service {
	if loc == nil {
		loc = time.Local
	}
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &Service{
		sources: sources,
		fetcher: NewFetcher(cacheDir),
		loc:     loc,
		horizon: time.Duration(horizonDays) * 24 * time.Hour,
	}
}

// Refresh fetches every source and returns the expanded items from the
// start of today through the horizon, sorted by start time. Failures
// of individual sources are logged and skipped; an error is returned
// only when no source produced a body.
func (s *Service) Refresh(ctx context.Context) ([]Item, error) {
	results, errs := s.fetcher.FetchAll(ctx, s.sources)
	if len(results) == 0 {
		if len(errs) > 0 {
			return nil, errs[0]
		}
		return nil, errors.New("agenda: no sources configured")
	}

	now := time.Now().In(s.loc)
	rangeStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	rangeEnd := rangeStart.Add(s.horizon)

	items := make([]Item, 0)
	for _, res := range results {
		events, err := ParseFeed(res.Source, res.Body)
		if err != nil {
			applog.Error("agenda parse failed", err, "id", res.Source.ID)
			continue
		}
		expanded, err := Expand(events, ExpandOptions{
			Location:   s.loc,
			RangeStart: rangeStart,
			RangeEnd:   rangeEnd,
		})
		if err != nil {
			applog.Error("agenda expand failed", err, "id", res.Source.ID)
			continue
		}
		items = append(items, expanded.Items...)
	}

	SortItems(items)
	applog.Info("agenda refreshed", "sources", len(results), "items", len(items))
	return items, nil
}

// SortItems orders items by start time; all-day items sort before
// timed items starting the same instant, ties break on summary.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		return a.Summary < b.Summary
	})
}

// GroupByDay splits a sorted item list into per-date buckets in loc.
// Multi-day items appear once, under their start date.
func GroupByDay(items []Item, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}
	days := make([]Day, 0)
	var cur *Day
	for _, it := range items {
		st := it.Start.In(loc)
		date := time.Date(st.Year(), st.Month(), st.Day(), 0, 0, 0, 0, loc)
		if cur == nil || !cur.Date.Equal(date) {
			days = append(days, Day{Date: date})
			cur = &days[len(days)-1]
		}
		cur.Items = append(cur.Items, it)
	}
	return days
}

// TimeLabel renders the item's start for the board: "all day" for
// all-day items, otherwise HH:MM.
func (it Item) TimeLabel() string {
	if it.AllDay {
		return "all day"
	}
	return it.Start.Format("15:04")
}
