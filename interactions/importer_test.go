// ABOUTME: Tests for the calendar meeting importer
// ABOUTME: Uses a paged in-memory event source in place of the Calendar API
package interactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/urgency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func daysAgo(days int) time.Time {
	return now.AddDate(0, 0, -days)
}

type pagedSource struct {
	pages [][]Event
	since time.Time
	calls int
	err   error
}

func (s *pagedSource) ListEvents(_ context.Context, since time.Time, pageToken string) (EventPage, error) {
	s.since = since
	s.calls++
	if s.err != nil {
		return EventPage{}, s.err
	}
	idx := 0
	if pageToken != "" {
		idx = int(pageToken[0] - '0')
	}
	page := EventPage{Events: s.pages[idx]}
	if idx+1 < len(s.pages) {
		page.NextPageToken = string(rune('0' + idx + 1))
	}
	return page, nil
}

func me() Attendee {
	return Attendee{Email: "rep@sherpa.dev", Self: true, ResponseStatus: "accepted"}
}

func meeting(id string, start time.Time, attendees ...Attendee) Event {
	return Event{ID: id, Summary: "Sync " + id, Status: "confirmed", Start: start, Attendees: append([]Attendee{me()}, attendees...)}
}

func testAccounts() []models.Account {
	return []models.Account{
		{
			ID:   "acct-1",
			Name: "Initech",
			Contacts: []models.Contact{
				{ID: "t1", Name: "Kim Lee", Email: "kim@initech.com"},
				{ID: "t2", Name: "Bo Diaz", Email: "bo@initech.com"},
			},
		},
		{
			ID:       "acct-2",
			Name:     "Globex",
			Contacts: []models.Contact{{ID: "g1", Name: "Hank Scorpio", Email: "hank@globex.com"}},
		},
	}
}

func TestShouldSkipEvent(t *testing.T) {
	tests := []struct {
		name   string
		event  Event
		reason string
	}{
		{"all day", Event{AllDay: true, Start: daysAgo(1)}, SkipAllDay},
		{"missing start", Event{Attendees: []Attendee{me(), {Email: "a@b.c"}}}, SkipMissingStart},
		{"cancelled", Event{Status: "cancelled", Start: daysAgo(1)}, SkipCancelled},
		{"declined", Event{Start: daysAgo(1), Attendees: []Attendee{{Self: true, ResponseStatus: "declined"}, {Email: "a@b.c"}}}, SkipDeclined},
		{"solo", Event{Start: daysAgo(1), Attendees: []Attendee{me()}}, SkipSolo},
		{"upcoming", meeting("f", now.Add(time.Hour), Attendee{Email: "a@b.c"}), SkipUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, reason := ShouldSkipEvent(tt.event, now)
			assert.True(t, skip)
			assert.Equal(t, tt.reason, reason)
		})
	}

	skip, reason := ShouldSkipEvent(meeting("ok", daysAgo(2), Attendee{Email: "a@b.c"}), now)
	assert.False(t, skip)
	assert.Empty(t, reason)
}

func TestImportRecordsMeetings(t *testing.T) {
	src := &pagedSource{pages: [][]Event{
		{
			meeting("e1", daysAgo(10), Attendee{Email: "KIM@initech.com ", ResponseStatus: "accepted"}, Attendee{Email: "bo@initech.com"}),
			meeting("e2", daysAgo(3), Attendee{Email: "hank@globex.com", ResponseStatus: "needsAction"}),
		},
		{
			meeting("e3", daysAgo(1), Attendee{Email: "stranger@example.com"}),
			{ID: "e4", Start: daysAgo(1), Attendees: []Attendee{me()}},
		},
	}}
	accounts := testAccounts()

	res, err := NewImporter(src).WithClock(clock).Import(context.Background(), accounts, 30)
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
	assert.Equal(t, daysAgo(30), src.since)
	assert.Equal(t, 4, res.Fetched)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Unmatched)
	assert.Equal(t, map[string]int{SkipSolo: 1}, res.Skipped)
	assert.Equal(t, []string{"acct-1", "acct-2"}, res.Accounts)

	// Two attendees from one account produce a single activity.
	require.Len(t, accounts[0].Activities, 1)
	act := accounts[0].Activities[0]
	assert.Equal(t, "cal-e1", act.ID)
	assert.Equal(t, ActivityMeeting, act.Type)
	assert.Equal(t, daysAgo(10), act.CreatedAt)
	assert.Equal(t, "Sync e1", act.Notes)

	kim := accounts[0].Contacts[0]
	require.NotNil(t, kim.LastContactedAt)
	require.NotNil(t, kim.LastResponseAt)
	assert.Equal(t, daysAgo(10), *kim.LastResponseAt)
	assert.NotNil(t, accounts[0].Contacts[1].LastContactedAt)
	assert.Nil(t, accounts[0].Contacts[1].LastResponseAt)

	hank := accounts[1].Contacts[0]
	require.NotNil(t, hank.LastContactedAt)
	assert.Equal(t, daysAgo(3), *hank.LastContactedAt)
	assert.Nil(t, hank.LastResponseAt)
}

func TestImportIsIdempotent(t *testing.T) {
	src := &pagedSource{pages: [][]Event{{
		meeting("e1", daysAgo(5), Attendee{Email: "kim@initech.com"}),
	}}}
	accounts := testAccounts()
	im := NewImporter(src).WithClock(clock)

	_, err := im.Import(context.Background(), accounts, 0)
	require.NoError(t, err)
	assert.Equal(t, daysAgo(DefaultLookbackDays), src.since)

	res, err := im.Import(context.Background(), accounts, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 1, res.Duplicates)
	assert.Len(t, accounts[0].Activities, 1)
}

func TestImportKeepsLatestTouchpoint(t *testing.T) {
	recent := daysAgo(1)
	accounts := testAccounts()
	accounts[0].Contacts[0].LastContactedAt = &recent

	src := &pagedSource{pages: [][]Event{{
		meeting("old", daysAgo(20), Attendee{Email: "kim@initech.com"}),
	}}}
	_, err := NewImporter(src).WithClock(clock).Import(context.Background(), accounts, 30)
	require.NoError(t, err)
	assert.Equal(t, recent, *accounts[0].Contacts[0].LastContactedAt)
}

func TestImportSourceError(t *testing.T) {
	src := &pagedSource{err: errors.New("quota exceeded")}
	_, err := NewImporter(src).WithClock(clock).Import(context.Background(), testAccounts(), 30)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestImportedMeetingsRaiseEngagement(t *testing.T) {
	accounts := testAccounts()
	before, err := urgency.Score(&accounts[0], nil, now)
	require.NoError(t, err)

	src := &pagedSource{pages: [][]Event{{
		meeting("e1", daysAgo(2), Attendee{Email: "kim@initech.com", ResponseStatus: "accepted"}),
	}}}
	_, err = NewImporter(src).WithClock(clock).Import(context.Background(), accounts, 30)
	require.NoError(t, err)

	after, err := urgency.Score(&accounts[0], nil, now)
	require.NoError(t, err)
	assert.Greater(t, after.Engagement.Score, before.Engagement.Score)
}

func TestResultSummary(t *testing.T) {
	r := Result{Skipped: map[string]int{SkipSolo: 2, SkipAllDay: 1}}
	assert.Equal(t, []string{"Skipped 1 all-day event", "Skipped 2 solo events"}, r.Summary())
}

func TestConvertEvent(t *testing.T) {
	e := convertEvent(&calendar.Event{
		Id:      "g1",
		Summary: "Kickoff",
		Status:  "confirmed",
		Start:   &calendar.EventDateTime{DateTime: "2025-06-10T15:00:00Z"},
		Attendees: []*calendar.EventAttendee{
			{Email: "rep@sherpa.dev", Self: true, ResponseStatus: "accepted"},
			nil,
			{Email: "kim@initech.com", DisplayName: "Kim Lee", ResponseStatus: "tentative"},
		},
	})
	assert.Equal(t, "g1", e.ID)
	assert.Equal(t, time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC), e.Start)
	assert.False(t, e.AllDay)
	require.Len(t, e.Attendees, 2)
	assert.Equal(t, "Kim Lee", e.Attendees[1].Name)

	allDay := convertEvent(&calendar.Event{Id: "g2", Start: &calendar.EventDateTime{Date: "2025-06-11"}})
	assert.True(t, allDay.AllDay)

	noStart := convertEvent(&calendar.Event{Id: "g3"})
	assert.True(t, noStart.Start.IsZero())
}
