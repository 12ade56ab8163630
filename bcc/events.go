/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mikeb26/boylstonchessclub-brackets/internal"
)

// vended by <api>/events
type Event struct {
	EventID     int       `json:"eventId"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	DayOfWeek   string    `json:"dayOfWeek"`
	DateDisplay string    `json:"dateDisplay"`
}

// vended by <api>/event/<eventId>
type EventDetail struct {
	EventID         int       `json:"eventId"`
	Title           string    `json:"title"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	DateDisplay     string    `json:"dateDisplay"`
	Sections        []string  `json:"sections"`
	SectionDisplay  string    `json:"sectionDisplay"`
	EventFormat     string    `json:"eventFormat"`
	TimeControl     string    `json:"timeControl"`
	EntryFeeSummary string    `json:"entryFeeSummary"`
	NumEntries      int       `json:"numEntries"`
	Entries         []Entry   `json:"entries"`
}

// Entry is a single registration for an event.
type Entry struct {
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	UscfID           int       `json:"uscfId"`
	ChessTitle       string    `json:"chessTitle"`
	SectionName      string    `json:"sectionName"`
	RegistrationDate time.Time `json:"registrationDate"`
	PrimaryRating    string    `json:"primaryRating"`
	SecondaryRating  string    `json:"secondaryRating"`
}

func (c *Client) GetEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.getJSON(ctx, c.APIURL+"/events", &events); err != nil {
		return nil, fmt.Errorf("unable to fetch bcc events: %w", err)
	}

	return events, nil
}

func (c *Client) GetEventDetail(ctx context.Context,
	eventID int64) (EventDetail, error) {

	var detail EventDetail
	url := fmt.Sprintf("%v/event/%d", c.APIURL, eventID)
	if err := c.getJSON(ctx, url, &detail); err != nil {
		return EventDetail{}, fmt.Errorf("unable to fetch bcc event detail: %w",
			err)
	}

	return detail, nil
}

// Custom unmarshaller to handle non-RFC3339 timestamps, "null", and empty strings.
func (e *Event) UnmarshalJSON(data []byte) error {
	type Alias Event
	aux := &struct {
		Date      string `json:"date"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Event unmarshal: %w", err)
	}

	return parseDates(map[string]dateField{
		"Event.Date":      {aux.Date, &e.Date},
		"Event.StartDate": {aux.StartDate, &e.StartDate},
		"Event.EndDate":   {aux.EndDate, &e.EndDate},
	})
}

func (ed *EventDetail) UnmarshalJSON(data []byte) error {
	type Alias EventDetail
	aux := &struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		*Alias
	}{
		Alias: (*Alias)(ed),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("EventDetail unmarshal: %w", err)
	}

	return parseDates(map[string]dateField{
		"EventDetail.StartDate": {aux.StartDate, &ed.StartDate},
		"EventDetail.EndDate":   {aux.EndDate, &ed.EndDate},
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	type Alias Entry
	aux := &struct {
		RegistrationDate string `json:"registrationDate"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Entry unmarshal: %w", err)
	}

	return parseDates(map[string]dateField{
		"Entry.RegistrationDate": {aux.RegistrationDate, &e.RegistrationDate},
	})
}

type dateField struct {
	raw string
	dst *time.Time
}

func parseDates(fields map[string]dateField) error {
	for name, f := range fields {
		var err error
		*f.dst, err = internal.ParseDateOrZero(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %v: %w", name, err)
		}
	}

	return nil
}

// BuildEventOutput formats the parts of an EventDetail relevant to seeding a
// bracket.
func BuildEventOutput(detail *EventDetail) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title: %v\n", detail.Title))
	sb.WriteString(fmt.Sprintf("EventID: %d\n", detail.EventID))
	sb.WriteString(fmt.Sprintf("Date: %s\n", detail.DateDisplay))
	if detail.EventFormat != "" {
		sb.WriteString(fmt.Sprintf("Format: %s\n", detail.EventFormat))
	}
	if detail.TimeControl != "" {
		sb.WriteString(fmt.Sprintf("Time Control: %s\n", detail.TimeControl))
	}
	if detail.SectionDisplay != "" {
		sb.WriteString(fmt.Sprintf("Sections: %s\n", detail.SectionDisplay))
	}
	sb.WriteString(fmt.Sprintf("Entries: %v\n", len(detail.Entries)))

	return sb.String()
}
