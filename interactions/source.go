// ABOUTME: Calendar event source abstraction and its Google Calendar implementation
// ABOUTME: Pages through primary-calendar events since a point in time
package interactions

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const maxResults = 250 // Google Calendar API max per page

type Attendee struct {
	Email          string
	Name           string
	Self           bool
	ResponseStatus string
}

type Event struct {
	ID        string
	Summary   string
	Status    string
	Start     time.Time
	AllDay    bool
	Attendees []Attendee
}

type EventPage struct {
	Events        []Event
	NextPageToken string
}

// EventSource lists calendar events starting at or after since. An empty
// NextPageToken marks the last page.
type EventSource interface {
	ListEvents(ctx context.Context, since time.Time, pageToken string) (EventPage, error)
}

type GoogleCalendarSource struct {
	service *calendar.Service
}

// NewGoogleCalendarSource creates a Calendar API source from an OAuth token.
func NewGoogleCalendarSource(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*GoogleCalendarSource, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleCalendarSource{service: service}, nil
}

func (s *GoogleCalendarSource) ListEvents(ctx context.Context, since time.Time, pageToken string) (EventPage, error) {
	call := s.service.Events.List("primary").
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(since.Format(time.RFC3339)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	events, err := call.Do()
	if err != nil {
		return EventPage{}, fmt.Errorf("failed to fetch calendar events: %w", err)
	}

	page := EventPage{NextPageToken: events.NextPageToken}
	for _, item := range events.Items {
		page.Events = append(page.Events, convertEvent(item))
	}
	return page, nil
}

func convertEvent(item *calendar.Event) Event {
	e := Event{ID: item.Id, Summary: item.Summary, Status: item.Status}
	if item.Start != nil {
		if item.Start.Date != "" {
			e.AllDay = true
			e.Start, _ = time.Parse("2006-01-02", item.Start.Date)
		} else if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
			e.Start = t
		}
	}
	for _, a := range item.Attendees {
		if a == nil {
			continue
		}
		e.Attendees = append(e.Attendees, Attendee{
			Email:          a.Email,
			Name:           a.DisplayName,
			Self:           a.Self,
			ResponseStatus: a.ResponseStatus,
		})
	}
	return e
}
