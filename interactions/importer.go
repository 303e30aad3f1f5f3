// ABOUTME: Imports calendar meetings as account activities and contact touchpoints
// ABOUTME: Filters noise events, dedupes by event id and reports skip reasons
package interactions

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
)

const (
	ActivityMeeting = "meeting"

	// DefaultLookbackDays is how far back an import reaches.
	DefaultLookbackDays = 180

	activityPrefix = "cal-"
)

// Skip reasons.
const (
	SkipMissingStart = "missing start time"
	SkipAllDay       = "all-day"
	SkipCancelled    = "cancelled"
	SkipDeclined     = "declined"
	SkipSolo         = "solo"
	SkipUpcoming     = "upcoming"
)

type Result struct {
	Fetched    int            `json:"fetched"`
	Imported   int            `json:"imported"`
	Duplicates int            `json:"duplicates"`
	Unmatched  int            `json:"unmatched"`
	Skipped    map[string]int `json:"skipped"`
	Accounts   []string       `json:"accounts"`
}

type Importer struct {
	source EventSource
	now    func() time.Time
}

func NewImporter(source EventSource) *Importer {
	return &Importer{source: source, now: time.Now}
}

// WithClock replaces the importer's time source.
func (im *Importer) WithClock(now func() time.Time) *Importer {
	if now != nil {
		im.now = now
	}
	return im
}

// ShouldSkipEvent reports whether an event is not a real meeting with
// other people that has already happened.
func ShouldSkipEvent(e Event, now time.Time) (bool, string) {
	if e.AllDay {
		return true, SkipAllDay
	}
	if e.Start.IsZero() {
		return true, SkipMissingStart
	}
	if e.Status == "cancelled" {
		return true, SkipCancelled
	}
	for _, a := range e.Attendees {
		if a.Self && a.ResponseStatus == "declined" {
			return true, SkipDeclined
		}
	}
	if len(e.Attendees) <= 1 {
		return true, SkipSolo
	}
	if e.Start.After(now) {
		return true, SkipUpcoming
	}
	return false, ""
}

// Import pulls events since the lookback window and records each meeting
// on every account whose contacts attended. accounts is updated in place.
func (im *Importer) Import(ctx context.Context, accounts []models.Account, lookbackDays int) (Result, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	now := im.now()
	since := now.AddDate(0, 0, -lookbackDays)

	res := Result{Skipped: map[string]int{}, Accounts: []string{}}
	matcher := NewContactMatcher(accounts)
	touched := make(map[int]bool)

	pageToken := ""
	for {
		page, err := im.source.ListEvents(ctx, since, pageToken)
		if err != nil {
			return res, err
		}
		res.Fetched += len(page.Events)

		for _, e := range page.Events {
			if skip, reason := ShouldSkipEvent(e, now); skip {
				res.Skipped[reason]++
				continue
			}
			matched := im.recordEvent(accounts, matcher, e, &res)
			if len(matched) == 0 {
				res.Unmatched++
			}
			for _, i := range matched {
				touched[i] = true
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	for i := range accounts {
		if touched[i] {
			res.Accounts = append(res.Accounts, accounts[i].ID)
		}
	}
	logger.Info("interactions: calendar import complete",
		"fetched", res.Fetched, "imported", res.Imported, "duplicates", res.Duplicates, "unmatched", res.Unmatched)
	return res, nil
}

// recordEvent returns the indexes of accounts the event was matched to.
func (im *Importer) recordEvent(accounts []models.Account, matcher *ContactMatcher, e Event, res *Result) []int {
	var matched []int
	seen := make(map[int]bool)

	for _, a := range e.Attendees {
		if a.Self {
			continue
		}
		ref, ok := matcher.find(a.Email)
		if !ok {
			continue
		}

		contact := &accounts[ref.account].Contacts[ref.contact]
		contact.LastContactedAt = latest(contact.LastContactedAt, e.Start)
		if a.ResponseStatus == "accepted" {
			contact.LastResponseAt = latest(contact.LastResponseAt, e.Start)
		}

		if seen[ref.account] {
			continue
		}
		seen[ref.account] = true
		matched = append(matched, ref.account)

		account := &accounts[ref.account]
		id := activityPrefix + e.ID
		if hasActivity(account, id) {
			res.Duplicates++
			continue
		}
		account.Activities = append(account.Activities, models.Activity{
			ID:        id,
			Type:      ActivityMeeting,
			CreatedAt: e.Start,
			Notes:     e.Summary,
		})
		res.Imported++
		logger.Debug("interactions: meeting recorded", "account", account.ID, "event", e.ID)
	}
	return matched
}

func hasActivity(account *models.Account, id string) bool {
	for _, act := range account.Activities {
		if act.ID == id {
			return true
		}
	}
	return false
}

func latest(current *time.Time, t time.Time) *time.Time {
	if current != nil && !t.After(*current) {
		return current
	}
	return &t
}

// Summary renders skip counts as "N reason" pairs.
func (r Result) Summary() []string {
	var lines []string
	for _, reason := range []string{SkipMissingStart, SkipAllDay, SkipCancelled, SkipDeclined, SkipSolo, SkipUpcoming} {
		if n := r.Skipped[reason]; n > 0 {
			lines = append(lines, fmt.Sprintf("Skipped %d %s event%s", n, reason, pluralize(n)))
		}
	}
	return lines
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
