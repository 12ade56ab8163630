/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"testing"
)

const eventJSON = `{
  "eventId": 1312,
  "title": "Thursday Knockout",
  "startDate": "2025-06-19T18:30:00",
  "endDate": "null",
  "dateDisplay": "Thu Jun 19",
  "sectionDisplay": "Open, U1800",
  "entries": [
    {"firstName": "ANN", "lastName": "LEE", "uscfId": 11, "sectionName": "U1800",
     "primaryRating": "1650/30", "registrationDate": "2025-06-01T10:00:00"},
    {"firstName": "Bo", "lastName": "Diaz", "uscfId": 12, "sectionName": "Open",
     "primaryRating": "2101"},
    {"firstName": "Cy", "lastName": "Ng", "uscfId": 13, "sectionName": "Open",
     "primaryRating": "2250"},
    {"firstName": "Di", "lastName": "Orr", "uscfId": 14, "sectionName": "U1800",
     "primaryRating": ""}
  ]
}`

const entriesHTML = `<html><body>
<table id="members"><tbody>
<tr><td colspan="4">Open Section</td></tr>
<tr><td>1</td><td>NG, CY</td><td>2250</td><td>13</td></tr>
<tr><td>2</td><td>DIAZ, BO</td><td>2101</td><td>12</td></tr>
<tr><td colspan="4">U1800 Section</td></tr>
<tr><td>3</td><td>LEE, ANN</td><td>1650</td><td>11</td></tr>
</tbody></table>
</body></html>`

func newTestServer(t *testing.T, apiUp bool) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"eventId": 1312, "title": "Thursday Knockout",
			"date": "2025-06-19T00:00:00", "startDate": "", "dayOfWeek": "Thu"}]`)
	})
	mux.HandleFunc("/api/event/1312", func(w http.ResponseWriter, r *http.Request) {
		if !apiUp {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, eventJSON)
	})
	mux.HandleFunc("/tournament/entries/1312", func(w http.ResponseWriter,
		r *http.Request) {
		fmt.Fprint(w, entriesHTML)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client())
	c.APIURL = srv.URL + "/api"
	c.WebURL = srv.URL

	return c
}

func TestGetEvents(t *testing.T) {
	c := newTestServer(t, true)
	events, err := c.GetEvents(context.Background())
	if err != nil {
		t.Fatalf("GetEvents returned error: %v", err)
	}
	if len(events) != 1 || events[0].EventID != 1312 {
		t.Fatalf("unexpected events %+v", events)
	}
	if events[0].Date.IsZero() || !events[0].StartDate.IsZero() {
		t.Errorf("unexpected dates %v %v", events[0].Date, events[0].StartDate)
	}
}

func TestGetEventDetail(t *testing.T) {
	c := newTestServer(t, true)
	detail, err := c.GetEventDetail(context.Background(), 1312)
	if err != nil {
		t.Fatalf("GetEventDetail returned error: %v", err)
	}
	if detail.Title != "Thursday Knockout" || len(detail.Entries) != 4 {
		t.Errorf("unexpected detail %+v", detail)
	}
	if detail.StartDate.IsZero() || !detail.EndDate.IsZero() {
		t.Errorf("unexpected dates %v %v", detail.StartDate, detail.EndDate)
	}
	if detail.Entries[0].RegistrationDate.IsZero() {
		t.Errorf("expected registration date to be parsed")
	}
	if out := BuildEventOutput(&detail); !strings.Contains(out,
		"Title: Thursday Knockout") {
		t.Errorf("unexpected event output %q", out)
	}
}

func TestGetEntries(t *testing.T) {
	cases := []struct {
		name    string
		apiUp   bool
		source  Source
		players int
	}{
		{"api", true, SourceAPI, 4},
		{"website fallback", false, SourceWebsite, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client := newTestServer(t, c.apiUp)
			players, src, err := client.GetEntries(context.Background(), 1312)
			if err != nil {
				t.Fatalf("GetEntries returned error: %v", err)
			}
			if src != c.source {
				t.Errorf("expected source %v, got %v", c.source, src)
			}
			if len(players) != c.players {
				t.Fatalf("expected %v players, got %+v", c.players, players)
			}

			entrants := EntrantsForSection(players, "Open")
			if len(entrants) != 2 || entrants[0].Name != "Cy Ng" ||
				entrants[1].Name != "Bo Diaz" {
				t.Errorf("unexpected Open entrants %+v", entrants)
			}
			u1800 := EntrantsForSection(players, "U1800")
			if len(u1800) == 0 || u1800[0].Name != "Ann Lee" ||
				u1800[0].Rating != 1650 || u1800[0].UscfID != 11 {
				t.Errorf("unexpected U1800 entrants %+v", u1800)
			}
		})
	}
}

func TestEntrantsForSectionAll(t *testing.T) {
	players := []Player{
		{Name: "A", Section: "U1800", Rating: 1500},
		{Name: "B", Section: "Open", Rating: 2000},
		{Name: "C", Section: "Open", Rating: 1500},
	}
	var got []string
	for _, e := range EntrantsForSection(players, "") {
		got = append(got, e.Name)
	}
	if want := []string{"B", "A", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("EntrantsForSection = %v; want %v", got, want)
	}
}

func TestBuildEntriesOutput(t *testing.T) {
	players := []Player{
		{Name: "Ann Lee", Section: "U1800", Rating: 1650, UscfID: 11},
		{Name: "Cy Ng", Section: "Open", Rating: 2250, UscfID: 13},
		{Name: "Di Orr", Section: "U1800", UscfID: 14},
	}
	out := BuildEntriesOutput(players)
	open := strings.Index(out, "Open Section")
	u1800 := strings.Index(out, "U1800 Section")
	if open < 0 || u1800 < 0 || open > u1800 {
		t.Errorf("expected Open before U1800, got:\n%v", out)
	}
	if !strings.Contains(out, "unrated") {
		t.Errorf("expected unrated player, got:\n%v", out)
	}
}

func TestStrRatingToInt(t *testing.T) {
	cases := map[string]int{
		"559/24": 559,
		"1500":   1500,
		"":       0,
		"abc/12": 0,
		" 1200 ": 1200,
	}
	for in, want := range cases {
		if got := strRatingToInt(in); got != want {
			t.Errorf("strRatingToInt(%q) = %d; want %d", in, got, want)
		}
	}
}

func TestSectionSorter(t *testing.T) {
	got := []string{"U1200", "Booster", "Open", "U1800", "Championship", ""}
	sort.Sort(SectionSorter(got))
	want := []string{"Open", "Championship", "U1800", "U1200", "", "Booster"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SectionSorter = %v; want %v", got, want)
	}
}
