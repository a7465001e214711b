package google

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"donna/internal/event"
	"donna/internal/logger"
)

const callTimeout = 30 * time.Second

// serviceAccount is the minimum shape a credentials document must have.
// Credentials are decoded as structured JSON, never executed.
type serviceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

func validateCredentials(credentialsJSON []byte) error {
	var account serviceAccount
	if err := json.Unmarshal(credentialsJSON, &account); err != nil {
		return fmt.Errorf("credentials are not valid JSON: %w", err)
	}
	if account.Type != "service_account" || account.ClientEmail == "" || account.PrivateKey == "" {
		return fmt.Errorf("credentials are not a service account document")
	}
	return nil
}

// Calendar schedules events and provisions Meet links on one calendar.
type Calendar struct {
	svc        *calendar.Service
	calendarID string
	location   *time.Location
}

func NewCalendar(ctx context.Context, credentialsJSON []byte, calendarID, timezone string) (*Calendar, error) {
	if err := validateCredentials(credentialsJSON); err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	svc, err := calendar.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Calendar{
		svc:        svc,
		calendarID: calendarID,
		location:   location,
	}, nil
}

// ScheduleEvent creates the event and returns its html link.
func (c *Calendar) ScheduleEvent(ctx context.Context, details event.Details) (string, error) {
	start, end, err := details.EventTimes(c.location)
	if err != nil {
		return "", err
	}

	entry := &calendar.Event{
		Summary:     details.Title,
		Location:    blankIfSentinel(details.Location),
		Description: blankIfSentinel(details.Notes),
		Start:       toEventDateTime(start),
		End:         toEventDateTime(end),
		Reminders: &calendar.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	created, err := c.svc.Events.Insert(c.calendarID, entry).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar insert failed: %w", err)
	}

	logger.Info().Str("event", created.Id).Str("link", created.HtmlLink).Msg("scheduled calendar event")
	return created.HtmlLink, nil
}

// GenerateMeetLink creates a throwaway 30-minute event with a conferencing
// request and returns the Meet entry-point URI.
func (c *Calendar) GenerateMeetLink(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	entry := &calendar.Event{
		Summary:     "Temporary Google Meet Event",
		Description: "Generated Google Meet link.",
		Start:       &calendar.EventDateTime{DateTime: now.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: now.Add(30 * time.Minute).Format(time.RFC3339)},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: fmt.Sprintf("meet-%d", now.UnixNano()),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	created, err := c.svc.Events.Insert(c.calendarID, entry).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("meet generation failed: %w", err)
	}

	if created.ConferenceData != nil {
		for _, entryPoint := range created.ConferenceData.EntryPoints {
			if entryPoint.Uri != "" {
				return entryPoint.Uri, nil
			}
		}
	}
	return "", fmt.Errorf("no meet link in created event")
}

func toEventDateTime(t event.Times) *calendar.EventDateTime {
	if t.Date != "" {
		return &calendar.EventDateTime{Date: t.Date}
	}
	return &calendar.EventDateTime{
		DateTime: t.DateTime,
		TimeZone: t.TimeZone,
	}
}

func blankIfSentinel(value string) string {
	if value == event.Sentinel {
		return ""
	}
	return value
}
