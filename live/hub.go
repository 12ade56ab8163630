/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package live

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
)

const (
	sendBuffer   = 8
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// snapshots are public
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Snapshotter interface {
	Snapshot(ctx context.Context, id string) (tournament.Snapshot, error)
}

type subscriber struct {
	send chan tournament.Snapshot
}

// Hub fans tournament snapshots out to websocket clients. Clients that fall
// more than a few snapshots behind are disconnected.
type Hub struct {
	source Snapshotter

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

func NewHub(source Snapshotter) *Hub {
	return &Hub{
		source: source,
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Publish queues snap for every client watching its tournament.
func (h *Hub) Publish(snap tournament.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[snap.ID] {
		h.offerLocked(snap.ID, sub, snap)
	}
}

func (h *Hub) offerLocked(id string, sub *subscriber, snap tournament.Snapshot) {
	if _, ok := h.subs[id][sub]; !ok {
		return
	}
	select {
	case sub.send <- snap:
	default:
		log.Printf("live.publish: dropping slow client of %v", id)
		h.removeLocked(id, sub)
	}
}

func (h *Hub) add(id string) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{send: make(chan tournament.Snapshot, sendBuffer)}
	if h.subs[id] == nil {
		h.subs[id] = make(map[*subscriber]struct{})
	}
	h.subs[id][sub] = struct{}{}

	return sub
}

func (h *Hub) remove(id string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(id, sub)
}

func (h *Hub) removeLocked(id string, sub *subscriber) {
	if _, ok := h.subs[id][sub]; !ok {
		return
	}
	delete(h.subs[id], sub)
	if len(h.subs[id]) == 0 {
		delete(h.subs, id)
	}
	close(sub.send)
}

// Subscribers returns the number of clients watching id.
func (h *Hub) Subscribers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs[id])
}

// ServeHTTP upgrades GET /live/{id} to a websocket that receives the current
// snapshot followed by every later one.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid, err := tournament.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	id := uid.String()

	// subscribe before taking the initial snapshot so no update is missed
	sub := h.add(id)
	defer h.remove(id, sub)

	snap, err := h.source.Snapshot(r.Context(), id)
	if err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("live.serve: snapshot of %v failed: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live.serve: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.offerLocked(id, sub, snap)
	h.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		writeLoop(conn, sub)
	}()

	// clients never send anything meaningful; reading surfaces the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(id, sub)
	wg.Wait()
}

func writeLoop(conn *websocket.Conn, sub *subscriber) {
	defer conn.Close()

	var last time.Time
	for snap := range sub.send {
		// the initial snapshot may be queued behind a newer one
		if snap.Updated.Before(last) {
			continue
		}
		last = snap.Updated
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(snap); err != nil {
			log.Printf("live.write: %v", err)
			return
		}
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(writeTimeout))
}
