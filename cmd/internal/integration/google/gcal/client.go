package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"meetboard/cmd/internal/domain"
)

// Credentials selects how the client authenticates: a service account file,
// or an OAuth client with a long-lived refresh token.
type Credentials struct {
	CredentialsFile string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
}

type Client struct {
	svc *calendar.Service
}

func NewClient(ctx context.Context, creds Credentials) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case creds.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(creds.CredentialsFile), option.WithScopes(calendar.CalendarScope))
	case creds.RefreshToken != "":
		conf := &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarScope},
		}
		opts = append(opts, option.WithTokenSource(conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})))
	default:
		return nil, errors.New("no google credentials configured")
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) InsertEvent(ctx context.Context, calendarID string, event *Event) (string, error) {
	created, err := c.svc.Events.Insert(calendarID, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		return "", translate("insert event", err)
	}
	return created.Id, nil
}

func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	var events []*Event
	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			ev, err := fromGoogleEvent(item)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, translate("list events", err)
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, calendarID, id string) (*Event, error) {
	item, err := c.svc.Events.Get(calendarID, id).Context(ctx).Do()
	if err != nil {
		return nil, translate("get event "+id, err)
	}
	// Deleted events stay readable by id with a cancelled status.
	if item.Status == "cancelled" {
		return nil, fmt.Errorf("get event %s: %w", id, domain.ErrNotFound)
	}
	return fromGoogleEvent(item)
}

// UpdateEvent patches the fields the meeting store manages and leaves the rest of the event alone.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, id string, event *Event) (*Event, error) {
	item, err := c.svc.Events.Patch(calendarID, id, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		return nil, translate("update event "+id, err)
	}
	return fromGoogleEvent(item)
}

func (c *Client) DeleteEvent(ctx context.Context, calendarID, id string) error {
	if err := c.svc.Events.Delete(calendarID, id).Context(ctx).Do(); err != nil {
		return translate("delete event "+id, err)
	}
	return nil
}

func toGoogleEvent(ev *Event) *calendar.Event {
	out := &calendar.Event{
		Summary:     ev.Summary,
		Location:    ev.Location,
		Description: ev.Description,
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.DateTime.Format(time.RFC3339),
			TimeZone: ev.Start.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: ev.End.DateTime.Format(time.RFC3339),
			TimeZone: ev.End.TimeZone,
		},
	}
	if len(ev.Private) > 0 {
		out.ExtendedProperties = &calendar.EventExtendedProperties{Private: ev.Private}
	}
	return out
}

func fromGoogleEvent(item *calendar.Event) (*Event, error) {
	ev := &Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Location:    item.Location,
		Description: item.Description,
	}

	var err error
	if ev.Start, err = fromGoogleTime(item.Start); err != nil {
		return nil, fmt.Errorf("event %s start: %w", item.Id, err)
	}
	if ev.End, err = fromGoogleTime(item.End); err != nil {
		return nil, fmt.Errorf("event %s end: %w", item.Id, err)
	}
	if item.ExtendedProperties != nil && item.ExtendedProperties.Private != nil {
		ev.Private = item.ExtendedProperties.Private
	}
	return ev, nil
}

func fromGoogleTime(dt *calendar.EventDateTime) (EventTime, error) {
	if dt == nil {
		return EventTime{}, errors.New("missing time")
	}

	loc := time.UTC
	if dt.TimeZone != "" {
		if l, err := time.LoadLocation(dt.TimeZone); err == nil {
			loc = l
		}
	}

	// All-day events only carry a date.
	if dt.DateTime == "" {
		t, err := time.ParseInLocation("2006-01-02", dt.Date, loc)
		if err != nil {
			return EventTime{}, err
		}
		return EventTime{DateTime: t, TimeZone: dt.TimeZone}, nil
	}

	t, err := time.Parse(time.RFC3339, dt.DateTime)
	if err != nil {
		return EventTime{}, err
	}
	return EventTime{DateTime: t.In(loc), TimeZone: dt.TimeZone}, nil
}

func translate(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrAuth, apiErr.Message)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrForbidden, apiErr.Message)
		}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%s: %w: %s", op, domain.ErrAuth, retrieveErr.ErrorCode)
	}
	return fmt.Errorf("%s: %w", op, err)
}
