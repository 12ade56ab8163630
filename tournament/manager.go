/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
	"github.com/mikeb26/boylstonchessclub-brackets/store"
)

var ErrNotFound = errors.New("tournament not found")

// Manager owns the loaded tournaments. Writes to a tournament are serialized
// by its own lock while reads of it proceed concurrently; distinct
// tournaments never contend.
type Manager struct {
	store *store.Store
	loads singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	// deleted holds ids removed by Delete so that loads racing with it
	// cannot cache them again.
	deleted map[string]struct{}

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

type entry struct {
	mu      sync.RWMutex
	rec     *Record
	b       *bracket.Bracket[Entrant]
	deleted bool
}

// Summary is a short listing of a stored tournament.
type Summary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Format   string    `json:"format"`
	Entrants int       `json:"entrants"`
	State    string    `json:"state"`
	Champion string    `json:"champion,omitempty"`
	Updated  time.Time `json:"updated"`
}

func NewManager(s *store.Store) *Manager {
	return &Manager{
		store:   s,
		entries: make(map[string]*entry),
		deleted: make(map[string]struct{}),
		subs:    make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify(snap Snapshot) {
	m.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Create persists a new tournament and returns its snapshot.
func (m *Manager) Create(ctx context.Context, rec *Record) (Snapshot, error) {
	b, err := Build(rec)
	if err != nil {
		return Snapshot{}, err
	}
	if err := m.store.Put(rec.ID.String(), rec); err != nil {
		return Snapshot{}, fmt.Errorf("tournament.create: %w", err)
	}

	e := &entry{rec: rec.clone(), b: b}
	m.mu.Lock()
	m.entries[rec.ID.String()] = e
	m.mu.Unlock()

	log.Printf("tournament.create: created %v (%v, %v entrants)", rec.ID,
		rec.Format, len(rec.Entrants))
	snap := NewSnapshot(e.rec, e.b)
	m.notify(snap)

	return snap, nil
}

func (m *Manager) load(ctx context.Context, id string) (*entry, error) {
	uid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	id = uid.String()

	m.mu.Lock()
	e, ok := m.entries[id]
	_, gone := m.deleted[id]
	m.mu.Unlock()
	if ok {
		return e, nil
	}
	if gone {
		return nil, notFound("tournament.load", id)
	}

	ch := m.loads.DoChan(id, func() (any, error) {
		var rec Record
		if err := m.store.Get(id, &rec); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, notFound("tournament.load", id)
			}
			return nil, fmt.Errorf("tournament.load: %w", err)
		}
		b, err := Build(&rec)
		if err != nil {
			return nil, fmt.Errorf("tournament.load: %w", err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if _, gone := m.deleted[id]; gone {
			return nil, notFound("tournament.load", id)
		}
		if existing, ok := m.entries[id]; ok {
			return existing, nil
		}
		e := &entry{rec: &rec, b: b}
		m.entries[id] = e

		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entry), nil
	}
}

// View calls fn with the tournament held for reading. fn must not retain or
// modify either argument.
func (m *Manager) View(ctx context.Context, id string,
	fn func(rec *Record, b *bracket.Bracket[Entrant]) error) error {

	e, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.deleted {
		return notFound("tournament.view", e.rec.ID.String())
	}

	return fn(e.rec, e.b)
}

func (m *Manager) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	err := m.View(ctx, id, func(rec *Record, b *bracket.Bracket[Entrant]) error {
		snap = NewSnapshot(rec, b)
		return nil
	})

	return snap, err
}

// Record returns a copy of the persisted record.
func (m *Manager) Record(ctx context.Context, id string) (*Record, error) {
	var ret *Record
	err := m.View(ctx, id, func(rec *Record, b *bracket.Bracket[Entrant]) error {
		ret = rec.clone()
		return nil
	})

	return ret, err
}

// Report records a match result.
func (m *Manager) Report(ctx context.Context, id string, match int,
	scores [2]Score) (Snapshot, error) {

	return m.update(ctx, id, LogEntry{Match: match, Scores: scores})
}

// Reset clears a match result and everything that depended on it.
func (m *Manager) Reset(ctx context.Context, id string,
	match int) (Snapshot, error) {

	return m.update(ctx, id, LogEntry{Match: match, Reset: true})
}

func (m *Manager) update(ctx context.Context, id string,
	le LogEntry) (Snapshot, error) {

	e, err := m.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return Snapshot{}, notFound("tournament.update", e.rec.ID.String())
	}
	if err := apply(e.b, le); err != nil {
		e.mu.Unlock()
		return Snapshot{}, err
	}
	prev := e.rec
	next := prev.clone()
	le.Time = time.Now().UTC()
	next.Log = append(next.Log, le)
	next.Updated = le.Time

	if err := m.store.Put(next.ID.String(), next); err != nil {
		// the engine already applied le; rebuild it from the last persisted
		// record
		b, rerr := Build(prev)
		if rerr != nil {
			panic(fmt.Sprintf("BUG: invariant: persisted record %v no longer builds: %v",
				prev.ID, rerr))
		}
		e.b = b
		e.mu.Unlock()
		return Snapshot{}, fmt.Errorf("tournament.update: %w", err)
	}
	e.rec = next
	snap := NewSnapshot(e.rec, e.b)
	e.mu.Unlock()

	m.notify(snap)

	return snap, nil
}

func (m *Manager) List(ctx context.Context) ([]Summary, error) {
	ids, err := m.store.List()
	if err != nil {
		return nil, fmt.Errorf("tournament.list: %w", err)
	}

	ret := make([]Summary, 0, len(ids))
	for _, id := range ids {
		err := m.View(ctx, id, func(rec *Record, b *bracket.Bracket[Entrant]) error {
			s := Summary{
				ID:       id,
				Name:     rec.Name,
				Format:   rec.Format,
				Entrants: len(rec.Entrants),
				State:    b.State().String(),
				Updated:  rec.Updated,
			}
			if champ, ok := b.Champion(); ok {
				s.Champion = rec.EntrantName(champ)
			}
			ret = append(ret, s)
			return nil
		})
		if err != nil {
			log.Printf("tournament.list: skipping %v: %v", id, err)
			continue
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Updated.After(ret[j].Updated)
	})

	return ret, nil
}

// Delete removes a tournament. Reports waiting on it fail with ErrNotFound
// rather than writing it back.
func (m *Manager) Delete(ctx context.Context, id string) error {
	uid, err := ParseID(id)
	if err != nil {
		return err
	}
	id = uid.String()

	m.mu.Lock()
	m.deleted[id] = struct{}{}
	e, cached := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()

	if cached {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.deleted {
			return notFound("tournament.delete", id)
		}
	}

	if err := m.store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("tournament.delete", id)
		}
		// still stored; make it loadable again
		m.mu.Lock()
		delete(m.deleted, id)
		if _, ok := m.entries[id]; cached && !ok {
			m.entries[id] = e
		}
		m.mu.Unlock()
		return fmt.Errorf("tournament.delete: %w", err)
	}
	if cached {
		e.deleted = true
	}
	log.Printf("tournament.delete: deleted %v", id)

	return nil
}

func notFound(op string, id string) error {
	return fmt.Errorf("%v: %v: %w", op, id, ErrNotFound)
}
