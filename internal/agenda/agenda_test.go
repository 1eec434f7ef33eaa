package agenda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:single-1
DTSTART:20260901T090000Z
DTEND:20260901T100000Z
SUMMARY:Standup
LOCATION:Room 1
END:VEVENT
BEGIN:VEVENT
UID:allday-1
DTSTART;VALUE=DATE:20260902
DTEND;VALUE=DATE:20260903
SUMMARY:Holiday
END:VEVENT
END:VCALENDAR
`

func testSource() Source {
	return Source{ID: "test", URL: "https://example.com/cal.ics", Name: "Test"}
}

func TestParseFeed(t *testing.T) {
	events, err := ParseFeed(testSource(), []byte(sampleFeed))
	require.NoError(t, err)
	require.Len(t, events, 2)

	byUID := map[string]Event{}
	for _, ev := range events {
		byUID[ev.UID] = ev
	}

	single := byUID["single-1"]
	assert.Equal(t, "Standup", single.Summary)
	assert.Equal(t, "Room 1", single.Location)
	assert.False(t, single.AllDay)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), single.Start.UTC())

	allday := byUID["allday-1"]
	assert.True(t, allday.AllDay)
}

func TestParseFeedEmptyBody(t *testing.T) {
	_, err := ParseFeed(testSource(), nil)
	assert.Error(t, err)
}

func TestParseFeedSkipsEventWithoutUID(t *testing.T) {
	const feed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
DTSTART:20260901T090000Z
DTEND:20260901T100000Z
SUMMARY:No UID
END:VEVENT
END:VCALENDAR
`
	events, err := ParseFeed(testSource(), []byte(feed))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestExpandSingleEventInRange(t *testing.T) {
	ev := Event{
		Source:  testSource(),
		UID:     "e1",
		Summary: "Meeting",
		Start:   time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	res, err := Expand([]Event{ev}, ExpandOptions{
		Location:   time.UTC,
		RangeStart: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Meeting", res.Items[0].Summary)
	assert.NotEmpty(t, res.Items[0].Key)
}

func TestExpandSingleEventOutOfRange(t *testing.T) {
	ev := Event{
		Source: testSource(),
		UID:    "e1",
		Start:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		End:    time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	res, err := Expand([]Event{ev}, ExpandOptions{
		Location:   time.UTC,
		RangeStart: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestExpandDailyRecurrenceWithExDate(t *testing.T) {
	ev := Event{
		Source:   testSource(),
		UID:      "daily",
		Summary:  "Daily sync",
		Start:    time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
		RawRRule: "FREQ=DAILY;COUNT=5",
		ExDates:  []time.Time{time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)},
	}
	res, err := Expand([]Event{ev}, ExpandOptions{
		Location:   time.UTC,
		RangeStart: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 4)
	for _, it := range res.Items {
		assert.NotEqual(t, 3, it.Start.Day(), "EXDATE instance should be removed")
		assert.Equal(t, 30*time.Minute, it.End.Sub(it.Start))
	}
}

func TestExpandRecurrenceOverride(t *testing.T) {
	rid := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	base := Event{
		Source:   testSource(),
		UID:      "series",
		Summary:  "Series",
		Start:    time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		RawRRule: "FREQ=DAILY;COUNT=3",
	}
	override := Event{
		Source:       testSource(),
		UID:          "series",
		Summary:      "Series (moved)",
		Start:        time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
		End:          time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC),
		RecurrenceID: &rid,
	}
	res, err := Expand([]Event{base, override}, ExpandOptions{
		Location:   time.UTC,
		RangeStart: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	moved := 0
	for _, it := range res.Items {
		if it.Summary == "Series (moved)" {
			moved++
			assert.Equal(t, 14, it.Start.UTC().Hour())
		}
	}
	assert.Equal(t, 1, moved)
}

func TestExpandRejectsInvertedRange(t *testing.T) {
	_, err := Expand(nil, ExpandOptions{
		RangeStart: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}

func TestSortItems(t *testing.T) {
	t1 := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	items := []Item{
		{Summary: "b", Start: t1},
		{Summary: "a", Start: t1},
		{Summary: "holiday", Start: t1, AllDay: true},
		{Summary: "early", Start: t1.Add(-time.Hour)},
	}
	SortItems(items)
	assert.Equal(t, "early", items[0].Summary)
	assert.Equal(t, "holiday", items[1].Summary)
	assert.Equal(t, "a", items[2].Summary)
	assert.Equal(t, "b", items[3].Summary)
}

func TestGroupByDay(t *testing.T) {
	items := []Item{
		{Summary: "a", Start: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)},
		{Summary: "b", Start: time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)},
		{Summary: "c", Start: time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)},
	}
	days := GroupByDay(items, time.UTC)
	require.Len(t, days, 2)
	assert.Len(t, days[0].Items, 2)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Len(t, days[1].Items, 1)
}

func TestTimeLabel(t *testing.T) {
	timed := Item{Start: time.Date(2026, 9, 1, 9, 5, 0, 0, time.UTC)}
	assert.Equal(t, "09:05", timed.TimeLabel())
	assert.Equal(t, "all day", Item{AllDay: true}.TimeLabel())
}

func TestFetchOneCachesAndRevalidates(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "test", URL: srv.URL}

	res, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, []byte(sampleFeed), res.Body)

	res, err = f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, []byte(sampleFeed), res.Body)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchOneFallsBackToCacheOnServerError(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "test", URL: srv.URL}

	_, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)

	fail = true
	res, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, []byte(sampleFeed), res.Body)
}

func TestFetchOneEmptyURL(t *testing.T) {
	f := NewFetcher(t.TempDir())
	_, err := f.FetchOne(context.Background(), Source{ID: "x"})
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://example.com/...(redacted)",
		redactURL("https://example.com/private.ics?token=abcd"))
	assert.Equal(t, "...(redacted)", redactURL("not a url"))
}
