/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
	"github.com/mikeb26/boylstonchessclub-brackets/store"
	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
)

func newLiveServer(t *testing.T) (*tournament.Manager, *Hub, string) {
	t.Helper()
	mgr := tournament.NewManager(store.NewMemory("test"))
	hub := NewHub(mgr)
	mgr.Subscribe(hub.Publish)

	mux := http.NewServeMux()
	mux.Handle("GET /live/{id}", hub)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return mgr, hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/live/"
}

func readSnapshot(t *testing.T, conn *websocket.Conn) tournament.Snapshot {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap tournament.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("ReadJSON returned error: %v", err)
	}
	return snap
}

func TestHubStreamsSnapshots(t *testing.T) {
	ctx := context.Background()
	mgr, hub, url := newLiveServer(t)

	rec, err := tournament.NewRecord("Blitz Knockout", bracket.SingleElimination,
		[]tournament.Entrant{{Name: "Ann"}, {Name: "Bo"}, {Name: "Cy"},
			{Name: "Di"}}, nil)
	if err != nil {
		t.Fatalf("NewRecord returned error: %v", err)
	}
	created, err := mgr.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(url+created.ID, nil)
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	defer conn.Close()

	initial := readSnapshot(t, conn)
	if initial.ID != created.ID || initial.Matches[0].Concluded {
		t.Fatalf("unexpected initial snapshot %+v", initial)
	}
	if n := hub.Subscribers(created.ID); n != 1 {
		t.Errorf("expected 1 subscriber, got %v", n)
	}

	_, err = mgr.Report(ctx, created.ID, 0,
		[2]tournament.Score{{Score: 1, Winner: true}, {}})
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	update := readSnapshot(t, conn)
	if !update.Matches[0].Concluded {
		t.Errorf("expected the update to carry the result")
	}
	if update.Matches[2].Slots[0].Name != "Ann" {
		t.Errorf("expected Ann to advance, got %+v", update.Matches[2].Slots[0])
	}
}

func TestHubUnknownTournament(t *testing.T) {
	_, _, url := newLiveServer(t)

	for _, id := range []string{"nope", "5a1b3e52-2f4e-4a53-9d0b-0b9c2b3f7a11"} {
		_, resp, err := websocket.DefaultDialer.Dial(url+id, nil)
		if err == nil {
			t.Fatalf("expected Dial of %v to fail", id)
		}
		if resp == nil || resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 for %v, got %v", id, resp)
		}
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub(nil)
	id := "5a1b3e52-2f4e-4a53-9d0b-0b9c2b3f7a11"
	sub := hub.add(id)

	for i := 0; i <= sendBuffer; i++ {
		hub.Publish(tournament.Snapshot{ID: id})
	}
	if n := hub.Subscribers(id); n != 0 {
		t.Errorf("expected slow client to be dropped, %v remain", n)
	}
	drained := 0
	for range sub.send {
		drained++
	}
	if drained != sendBuffer {
		t.Errorf("expected %v queued snapshots, got %v", sendBuffer, drained)
	}
	// removing again is harmless
	hub.remove(id, sub)
}
