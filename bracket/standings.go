/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"sort"
)

const (
	StandingsWins   = "Wins"
	StandingsLosses = "Losses"
	StandingsPoints = "Points"
)

// Standings is a ranked table. Each row holds one value per key.
type Standings struct {
	Keys []string
	Rows []StandingsRow
}

type StandingsRow struct {
	Index  int
	Values []Value
}

// Standings ranks every entrant that has played at least one concluded match
// by wins descending, then losses ascending, then registry order. Byes are
// not counted.
func (b *Bracket[T]) Standings() Standings {
	type tally struct {
		index                int
		wins, losses, points uint64
		played               bool
	}
	tallies := make([]tally, b.entrants.Len())
	for i := range tallies {
		tallies[i].index = i
	}

	for _, m := range b.matches {
		winSlot, ok := m.WinnerSlot()
		if !ok {
			continue
		}
		for slot, spot := range m.Entrants {
			t := &tallies[spot.Node.Index]
			t.played = true
			t.points += spot.Node.Data.Score
			if slot == winSlot {
				t.wins++
			} else {
				t.losses++
			}
		}
	}

	var played []tally
	for _, t := range tallies {
		if t.played {
			played = append(played, t)
		}
	}
	sort.Slice(played, func(i, j int) bool {
		if played[i].wins != played[j].wins {
			return played[i].wins > played[j].wins
		}
		if played[i].losses != played[j].losses {
			return played[i].losses < played[j].losses
		}
		return played[i].index < played[j].index
	})

	ret := Standings{
		Keys: []string{StandingsWins, StandingsLosses, StandingsPoints},
		Rows: make([]StandingsRow, 0, len(played)),
	}
	for _, t := range played {
		values := []Value{U64Value(t.wins), U64Value(t.losses), U64Value(t.points)}
		ret.Rows = append(ret.Rows, StandingsRow{Index: t.index, Values: values})
	}

	return ret
}

// Get returns the value of key in a row of s.
func (s Standings) Get(row int, key string) (Value, bool) {
	if row < 0 || row >= len(s.Rows) {
		return Value{}, false
	}
	for i, k := range s.Keys {
		if k == key && i < len(s.Rows[row].Values) {
			return s.Rows[row].Values[i], true
		}
	}
	return Value{}, false
}
