/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestStandings(t *testing.T) {
	b := mustNew(t, SingleElimination, 4, nil)
	if rows := b.Standings().Rows; len(rows) != 0 {
		t.Fatalf("expected no rows before any result, got %v", rows)
	}

	if err := b.ReportResult(0, [2]EntrantScore{{Score: 3, Winner: true},
		{Score: 1}}); err != nil {
		t.Fatalf("ReportResult returned error: %v", err)
	}
	win(t, b, 1, 1)
	win(t, b, 2, 0)

	s := b.Standings()
	if !reflect.DeepEqual(s.Keys, []string{StandingsWins, StandingsLosses,
		StandingsPoints}) {
		t.Errorf("unexpected keys %v", s.Keys)
	}

	cases := []struct {
		index        int
		wins, losses uint64
		points       uint64
	}{
		{0, 2, 0, 4},
		{3, 1, 1, 1},
		{1, 0, 1, 1},
		{2, 0, 1, 0},
	}
	if len(s.Rows) != len(cases) {
		t.Fatalf("expected %d rows, got %d", len(cases), len(s.Rows))
	}
	for i, c := range cases {
		row := s.Rows[i]
		if row.Index != c.index {
			t.Errorf("row %d: expected entrant %d, got %d", i, c.index, row.Index)
		}
		wins, _ := s.Get(i, StandingsWins)
		losses, _ := s.Get(i, StandingsLosses)
		points, _ := s.Get(i, StandingsPoints)
		if w, _ := wins.U64(); w != c.wins {
			t.Errorf("row %d: expected %d wins, got %d", i, c.wins, w)
		}
		if l, _ := losses.U64(); l != c.losses {
			t.Errorf("row %d: expected %d losses, got %d", i, c.losses, l)
		}
		if p, _ := points.U64(); p != c.points {
			t.Errorf("row %d: expected %d points, got %d", i, c.points, p)
		}
	}

	if !reflect.DeepEqual(s, b.Standings()) {
		t.Errorf("standings are not deterministic")
	}
}

func TestStandingsIgnoreByes(t *testing.T) {
	b := mustNew(t, SingleElimination, 3, nil)
	win(t, b, 0, 0)

	for _, row := range b.Standings().Rows {
		if row.Index == 2 {
			t.Errorf("entrant 2 only has a bye and should not be ranked")
		}
	}
	if len(b.Standings().Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(b.Standings().Rows))
	}
}

func TestStandingsMatchResults(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	b := mustNew(t, DoubleElimination, 11, nil)
	play(t, b, func(m Match) int { return rng.Intn(2) })

	wins := make(map[int]uint64)
	lost := make(map[int]uint64)
	for _, m := range b.Matches() {
		slot, ok := m.WinnerSlot()
		if !ok {
			continue
		}
		wins[m.Entrants[slot].Node.Index]++
		lost[m.Entrants[1-slot].Node.Index]++
	}

	s := b.Standings()
	if len(s.Rows) != 11 {
		t.Fatalf("expected every entrant to be ranked, got %d rows", len(s.Rows))
	}
	for i, row := range s.Rows {
		w, _ := s.Rows[i].Values[0].U64()
		l, _ := s.Rows[i].Values[1].U64()
		if w != wins[row.Index] || l != lost[row.Index] {
			t.Errorf("entrant %d: expected %d-%d, got %d-%d", row.Index,
				wins[row.Index], lost[row.Index], w, l)
		}
		if i > 0 {
			pw, _ := s.Rows[i-1].Values[0].U64()
			pl, _ := s.Rows[i-1].Values[1].U64()
			if pw < w || (pw == w && pl > l) {
				t.Errorf("row %d is ranked above a better record", i-1)
			}
		}
	}
}
