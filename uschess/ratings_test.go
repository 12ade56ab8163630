/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package uschess

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
)

func newTestClient(t *testing.T, hits *int32) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch strings.TrimPrefix(r.URL.Path, "/members/") {
		case "12689073":
			fmt.Fprint(w, `{"id": "12689073", "firstName": "MICHAEL",
				"lastName": "BROWN", "ratings": [
				{"rating": 1620, "ratingSystem": "R"},
				{"rating": 1544, "ratingSystem": "Q"}]}`)
		case "12345678":
			fmt.Fprint(w, `{"id": "12345678", "firstName": "New",
				"lastName": "Player", "ratings": []}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClientWithHTTP(srv.Client())
	c.APIURL = srv.URL

	return c
}

func TestFetchRatings(t *testing.T) {
	var hits int32
	c := newTestClient(t, &hits)

	r, err := c.FetchRatings(context.Background(), 12689073)
	if err != nil {
		t.Fatalf("FetchRatings returned error: %v", err)
	}
	if r.Name != "Michael Brown" {
		t.Errorf("expected name 'Michael Brown' but got '%v'", r.Name)
	}
	if r.Regular != 1620 || r.Quick != 1544 || r.Blitz != 0 {
		t.Errorf("unexpected ratings %+v", r)
	}

	_, err = c.FetchRatings(context.Background(), 1)
	if !errors.Is(err, ErrUnknownMember) {
		t.Errorf("expected ErrUnknownMember, got %v", err)
	}
}

func TestRefreshRatings(t *testing.T) {
	var hits int32
	c := newTestClient(t, &hits)

	in := []tournament.Entrant{
		{Name: "Michael Brown", Rating: 1500, UscfID: 12689073},
		{Name: "No Id", Rating: 1400},
		{Name: "Unrated", Rating: 900, UscfID: 12345678},
		{Name: "Ghost", Rating: 1000, UscfID: 1},
	}
	out, err := c.RefreshRatings(context.Background(), in)
	if err != nil {
		t.Fatalf("RefreshRatings returned error: %v", err)
	}

	want := []int{1620, 1400, 900, 1000}
	for i, e := range out {
		if e.Rating != want[i] {
			t.Errorf("%v: expected rating %v, got %v", e.Name, want[i], e.Rating)
		}
	}
	if in[0].Rating != 1500 {
		t.Errorf("expected input entrants to be left untouched")
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Errorf("expected 3 lookups, got %v", hits)
	}
}

func TestRefreshRatingsCancelled(t *testing.T) {
	var hits int32
	c := newTestClient(t, &hits)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.RefreshRatings(ctx, []tournament.Entrant{{UscfID: 12689073}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
