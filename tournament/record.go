/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
)

var ErrInvalidID = errors.New("invalid tournament id")

type Entrant struct {
	Name   string `json:"name"`
	Rating int    `json:"rating,omitempty"`
	UscfID int64  `json:"uscfId,omitempty"`
}

type Score struct {
	Score  uint64 `json:"score"`
	Winner bool   `json:"winner"`
}

// LogEntry is one result report or reset. Replaying a record's log in order
// against a freshly generated bracket reproduces its current state.
type LogEntry struct {
	Time   time.Time `json:"time"`
	Match  int       `json:"match"`
	Scores [2]Score  `json:"scores"`
	Reset  bool      `json:"reset,omitempty"`
}

// Record is the persisted form of a tournament.
type Record struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Format   string            `json:"format"`
	Options  map[string]string `json:"options,omitempty"`
	Entrants []Entrant         `json:"entrants"`
	Log      []LogEntry        `json:"log,omitempty"`
	// EventID is the club event the entrants were imported from, if any.
	EventID int64     `json:"eventId,omitempty"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// NewRecord validates the format, options and entrants by generating the
// bracket once.
func NewRecord(name string, format bracket.Format, entrants []Entrant,
	options map[string]string) (*Record, error) {

	now := time.Now().UTC()
	rec := &Record{
		ID:       uuid.New(),
		Name:     name,
		Format:   format.String(),
		Options:  options,
		Entrants: append([]Entrant(nil), entrants...),
		Created:  now,
		Updated:  now,
	}
	if _, err := Build(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// Build generates the bracket for rec and replays its log.
func Build(rec *Record) (*bracket.Bracket[Entrant], error) {
	format, err := bracket.ParseFormat(rec.Format)
	if err != nil {
		return nil, err
	}
	schema, err := bracket.SchemaFor(format)
	if err != nil {
		return nil, err
	}
	values, err := schema.Parse(rec.Options)
	if err != nil {
		return nil, err
	}
	b, err := bracket.New(format, bracket.NewRegistry(rec.Entrants), values)
	if err != nil {
		return nil, err
	}

	for i, e := range rec.Log {
		if err := apply(b, e); err != nil {
			return nil, fmt.Errorf("tournament: %v log entry %d: %w", rec.ID, i,
				err)
		}
	}

	return b, nil
}

func apply(b *bracket.Bracket[Entrant], e LogEntry) error {
	if e.Reset {
		return b.ResetMatch(e.Match)
	}
	var scores [2]bracket.EntrantScore
	for slot, s := range e.Scores {
		scores[slot] = bracket.EntrantScore{Score: s.Score, Winner: s.Winner}
	}

	return b.ReportResult(e.Match, scores)
}

// EntrantName returns the display name of entrant i.
func (rec *Record) EntrantName(i int) string {
	if i < 0 || i >= len(rec.Entrants) {
		return fmt.Sprintf("#%d", i)
	}
	return rec.Entrants[i].Name
}

func (rec *Record) clone() *Record {
	ret := *rec
	ret.Entrants = append([]Entrant(nil), rec.Entrants...)
	ret.Log = append([]LogEntry(nil), rec.Log...)
	if rec.Options != nil {
		ret.Options = make(map[string]string, len(rec.Options))
		for k, v := range rec.Options {
			ret.Options[k] = v
		}
	}

	return &ret
}

// ParseID accepts a full tournament id.
func ParseID(id string) (uuid.UUID, error) {
	ret, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("tournament: %q: %w", id, ErrInvalidID)
	}
	return ret, nil
}

// ParseScores builds per slot scores from the winning slot and an optional
// "A-B" score. An empty score credits the winner with a single point.
func ParseScores(winner int, score string) ([2]Score, error) {
	var ret [2]Score
	if winner != 0 && winner != 1 {
		return ret, fmt.Errorf("winner must be 0 or 1, got %v", winner)
	}
	ret[winner].Winner = true
	if strings.TrimSpace(score) == "" {
		ret[winner].Score = 1
		return ret, nil
	}

	a, b, ok := strings.Cut(score, "-")
	if !ok {
		return ret, fmt.Errorf("score must look like 2-1, got %q", score)
	}
	for slot, s := range []string{a, b} {
		v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return ret, fmt.Errorf("score must look like 2-1, got %q", score)
		}
		ret[slot].Score = v
	}

	return ret, nil
}
