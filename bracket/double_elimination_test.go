/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"math/rand"
	"testing"
)

func TestDoubleEliminationShape(t *testing.T) {
	for n := 2; n <= 33; n++ {
		for _, reset := range []bool{true, false} {
			b := mustNew(t, DoubleElimination, n,
				Values{OptionBracketReset: BoolValue(reset)})
			width := 1 << ceilLog2(n)
			wantLen, wantContested := 2*width-2, 2*n-2
			if reset {
				wantLen++
				wantContested++
			}
			if b.Matches().Len() != wantLen {
				t.Errorf("n=%d reset=%v: expected %d matches, got %d", n, reset,
					wantLen, b.Matches().Len())
			}
			if b.ContestedMatches() != wantContested {
				t.Errorf("n=%d reset=%v: expected %d contested matches, got %d",
					n, reset, wantContested, b.ContestedMatches())
			}
		}
	}
}

func TestDoubleEliminationDropRouting(t *testing.T) {
	l := doubleLayout(8, true)
	// winners: 0-3, 4-5, 6; losers rounds of 2, 2, 1, 1 at 7-8, 9-10, 11, 12
	cases := []struct {
		from int
		want slotRef
	}{
		{0, slotRef{7, 0}},
		{1, slotRef{7, 1}},
		{2, slotRef{8, 0}},
		{3, slotRef{8, 1}},
		// reversed so match 4's loser avoids the survivor of matches 0 and 1
		{4, slotRef{10, 1}},
		{5, slotRef{9, 1}},
		{6, slotRef{12, 1}},
	}
	for _, c := range cases {
		got := l.routes[c.from].loser
		if got == nil || *got != c.want {
			t.Errorf("loser of %d: expected %+v, got %+v", c.from, c.want, got)
		}
	}

	if w := l.routes[12].winner; w == nil || *w != (slotRef{13, 1}) {
		t.Errorf("losers final should feed grand final slot 1, got %+v", w)
	}
	if w := l.routes[6].winner; w == nil || *w != (slotRef{13, 0}) {
		t.Errorf("winners final should feed grand final slot 0, got %+v", w)
	}
	if !l.routes[13].resetOnly || l.grandFinalReset.index != 14 {
		t.Errorf("expected grand final 13 to feed reset match 14")
	}

	l = doubleLayout(16, false)
	// second drop-in round of 2 matches is half rotated
	lb := l.losers[3]
	if lb.size != 2 {
		t.Fatalf("expected losers round 4 to have 2 matches, got %d", lb.size)
	}
	wr := l.winners[2]
	for p := 0; p < wr.size; p++ {
		want := slotRef{lb.start + (p+1)%2, 1}
		if got := l.routes[wr.start+p].loser; *got != want {
			t.Errorf("loser of winners round 3 match %d: expected %+v, got %+v",
				p, want, *got)
		}
	}
}

func TestDoubleEliminationTwoEntrants(t *testing.T) {
	b := mustNew(t, DoubleElimination, 2, nil)
	win(t, b, 0, 1)
	expectSpot(t, b, 1, 0, Entrant(1))
	expectSpot(t, b, 1, 1, Entrant(0))

	win(t, b, 1, 1)
	if b.State() != StateResetPending {
		t.Fatalf("expected reset pending, got %v", b.State())
	}
	expectSpot(t, b, 2, 0, Entrant(1))
	expectSpot(t, b, 2, 1, Entrant(0))
}

func TestDoubleEliminationBracketReset(t *testing.T) {
	b := mustNew(t, DoubleElimination, 4, nil)
	// winners 0,1,2; losers 3,4; grand final 5; reset 6
	win(t, b, 0, 0) // 0 beats 1
	win(t, b, 1, 0) // 2 beats 3
	expectSpot(t, b, 3, 0, Entrant(1))
	expectSpot(t, b, 3, 1, Entrant(3))

	win(t, b, 3, 1) // 3 beats 1
	win(t, b, 2, 0) // 0 beats 2
	expectSpot(t, b, 4, 0, Entrant(3))
	expectSpot(t, b, 4, 1, Entrant(2))

	win(t, b, 4, 0) // 3 beats 2
	expectSpot(t, b, 5, 0, Entrant(0))
	expectSpot(t, b, 5, 1, Entrant(3))
	expectSpot(t, b, 6, 0, TBD())
	expectSpot(t, b, 6, 1, TBD())

	win(t, b, 5, 1) // 3 wins the first grand final
	if b.Done() {
		t.Fatalf("expected a reset match to be pending")
	}
	if b.State() != StateResetPending {
		t.Errorf("expected reset pending, got %v", b.State())
	}
	if _, ok := b.Champion(); ok {
		t.Errorf("expected no champion before the reset match")
	}
	expectSpot(t, b, 6, 0, Entrant(0))
	expectSpot(t, b, 6, 1, Entrant(3))

	win(t, b, 6, 1)
	if !b.Done() {
		t.Fatalf("expected done")
	}
	if champ, ok := b.Champion(); !ok || champ != 3 {
		t.Errorf("expected champion 3, got %d (%v)", champ, ok)
	}

	// flipping the first grand final retracts the reset match
	win(t, b, 5, 0)
	expectSpot(t, b, 6, 0, TBD())
	expectSpot(t, b, 6, 1, TBD())
	if champ, ok := b.Champion(); !ok || champ != 0 {
		t.Errorf("expected champion 0, got %d (%v)", champ, ok)
	}
}

func TestDoubleEliminationWithoutReset(t *testing.T) {
	b := mustNew(t, DoubleElimination, 2,
		Values{OptionBracketReset: BoolValue(false)})
	win(t, b, 0, 0)
	win(t, b, 1, 1)
	if !b.Done() {
		t.Fatalf("expected done without a reset match")
	}
	if champ, _ := b.Champion(); champ != 1 {
		t.Errorf("expected champion 1, got %d", champ)
	}
}

func TestDoubleEliminationByes(t *testing.T) {
	b := mustNew(t, DoubleElimination, 5, nil)
	// losers round 1 match 8 only ever sees byes
	if m, _ := b.Match(8); !m.IsVacant() {
		t.Errorf("expected match 8 to be vacant, got %+v", m)
	}
	// the bye in winners match 5 drops an Empty into losers match 9
	expectSpot(t, b, 9, 1, Empty())
	expectSpot(t, b, 10, 0, Empty())
}

// play reports every ready match in index order, letting pick choose the
// winning slot, until no match can be played.
func play(t *testing.T, b *Bracket[string], pick func(m Match) int) int {
	t.Helper()
	played := 0
	for {
		progressed := false
		for i, m := range b.Matches() {
			if !m.IsReady() || m.IsConcluded() {
				continue
			}
			if m.Entrants[0].Node.Index == m.Entrants[1].Node.Index {
				t.Fatalf("match %d pairs entrant %d with itself", i,
					m.Entrants[0].Node.Index)
			}
			win(t, b, i, pick(m))
			played++
			progressed = true
			break
		}
		if !progressed {
			return played
		}
	}
}

func losses(b *Bracket[string]) []int {
	ret := make([]int, b.Entrants().Len())
	for _, m := range b.Matches() {
		slot, ok := m.WinnerSlot()
		if !ok {
			continue
		}
		ret[m.Entrants[1-slot].Node.Index]++
	}
	return ret
}

func TestDoubleEliminationPlaythrough(t *testing.T) {
	rng := rand.New(rand.NewSource(26))
	for n := 2; n <= 24; n++ {
		for _, seeding := range seedingChoices {
			b := mustNew(t, DoubleElimination, n,
				Values{OptionSeeding: StringValue(seeding)})
			play(t, b, func(m Match) int { return rng.Intn(2) })

			if !b.Done() {
				t.Fatalf("n=%d %v: expected done, got %v", n, seeding, b.State())
			}
			champ, ok := b.Champion()
			if !ok {
				t.Fatalf("n=%d %v: expected a champion", n, seeding)
			}
			for e, l := range losses(b) {
				if e == champ {
					if l > 1 {
						t.Errorf("n=%d %v: champion %d lost %d times", n,
							seeding, e, l)
					}
				} else if l != 2 {
					t.Errorf("n=%d %v: entrant %d lost %d times", n, seeding,
						e, l)
				}
			}
		}
	}
}

func TestDoubleEliminationTopSeedWins(t *testing.T) {
	b := mustNew(t, DoubleElimination, 9, nil)
	played := play(t, b, func(m Match) int {
		if m.Entrants[0].Node.Index < m.Entrants[1].Node.Index {
			return 0
		}
		return 1
	})
	if played != 2*9-2 {
		t.Errorf("expected %d matches played, got %d", 2*9-2, played)
	}
	if champ, ok := b.Champion(); !ok || champ != 0 {
		t.Errorf("expected champion 0, got %d (%v)", champ, ok)
	}
	if b.State() != StateDone {
		t.Errorf("expected done, got %v", b.State())
	}
}
