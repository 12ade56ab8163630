/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
)

// Part identifies which section of a bracket a match belongs to.
type Part int

const (
	PartWinners Part = iota
	PartLosers
	PartGrandFinal
	PartGrandFinalReset
	PartThirdPlace
)

func (p Part) String() string {
	switch p {
	case PartWinners:
		return "Winners"
	case PartLosers:
		return "Losers"
	case PartGrandFinal:
		return "Grand Final"
	case PartGrandFinalReset:
		return "Grand Final Reset"
	case PartThirdPlace:
		return "Third Place"
	default:
		return "?"
	}
}

// MatchInfo locates a match in the topology. Round and Position are zero
// based within the part.
type MatchInfo struct {
	Part     Part
	Round    int
	Position int
}

type slotRef struct {
	match int
	slot  int
}

// route says where the outcome of a match flows. A nil ref means the
// entrant leaves the bracket (or is champion).
type route struct {
	winner *slotRef
	loser  *slotRef
	// resetOnly routes only when the slot 1 entrant wins; used by the grand
	// final to feed the reset match.
	resetOnly bool
}

type span struct {
	start int
	size  int
}

// optIndex is an optional match index.
type optIndex struct {
	index int
	valid bool
}

func someIndex(i int) optIndex {
	return optIndex{index: i, valid: true}
}

// layout is the fixed topology of a bracket, computed once at generation.
type layout struct {
	rounds int
	width  int

	infos  []MatchInfo
	routes []route

	winners []span
	losers  []span

	thirdPlace      optIndex
	grandFinal      optIndex
	grandFinalReset optIndex
}

func ceilLog2(n int) int {
	r := 0
	for (1 << r) < n {
		r++
	}
	return r
}

func (l *layout) add(info MatchInfo) int {
	l.infos = append(l.infos, info)
	l.routes = append(l.routes, route{})

	return len(l.infos) - 1
}

func (l *layout) final() int {
	return l.winners[len(l.winners)-1].start
}

// addWinners allocates rounds of width/2, width/4, ... 1 matches. The winner
// of match i lands in match width/2 + i/2, slot i%2.
func (l *layout) addWinners(n int) {
	l.rounds = ceilLog2(n)
	l.width = 1 << l.rounds

	size := l.width / 2
	for r := 0; r < l.rounds; r++ {
		start := len(l.infos)
		for p := 0; p < size; p++ {
			l.add(MatchInfo{Part: PartWinners, Round: r, Position: p})
		}
		l.winners = append(l.winners, span{start: start, size: size})
		size /= 2
	}

	for r := 0; r+1 < len(l.winners); r++ {
		cur, next := l.winners[r], l.winners[r+1]
		for p := 0; p < cur.size; p++ {
			l.routes[cur.start+p].winner = &slotRef{match: next.start + p/2,
				slot: p % 2}
		}
	}
}

func singleLayout(n int, thirdPlace bool) layout {
	var l layout
	if n <= 1 {
		return l
	}
	l.addWinners(n)

	if thirdPlace && l.rounds >= 2 {
		idx := l.add(MatchInfo{Part: PartThirdPlace})
		semis := l.winners[l.rounds-2]
		for p := 0; p < semis.size; p++ {
			l.routes[semis.start+p].loser = &slotRef{match: idx, slot: p}
		}
		l.thirdPlace = someIndex(idx)
	}

	return l
}

// doubleLayout appends the losers bracket and grand final(s) to a winners
// bracket. The losers bracket has 2(R-1) rounds. Odd (1 based) rounds pair
// up survivors; even rounds take the survivors in slot 0 and drop-ins from
// the winners bracket in slot 1.
func doubleLayout(n int, reset bool) layout {
	var l layout
	if n <= 1 {
		return l
	}
	l.addWinners(n)

	for j := 1; j <= 2*(l.rounds-1); j++ {
		size := l.width >> ((j+1)/2 + 1)
		start := len(l.infos)
		for p := 0; p < size; p++ {
			l.add(MatchInfo{Part: PartLosers, Round: j - 1, Position: p})
		}
		l.losers = append(l.losers, span{start: start, size: size})
	}

	gf := l.add(MatchInfo{Part: PartGrandFinal})
	l.grandFinal = someIndex(gf)
	l.routes[l.final()].winner = &slotRef{match: gf, slot: 0}

	for r, cur := range l.winners {
		for p := 0; p < cur.size; p++ {
			l.routes[cur.start+p].loser = l.dropSlot(r, p)
		}
	}

	for j, cur := range l.losers {
		for p := 0; p < cur.size; p++ {
			var dst *slotRef
			switch {
			case j == len(l.losers)-1:
				dst = &slotRef{match: gf, slot: 1}
			case j%2 == 0:
				dst = &slotRef{match: l.losers[j+1].start + p, slot: 0}
			default:
				dst = &slotRef{match: l.losers[j+1].start + p/2, slot: p % 2}
			}
			l.routes[cur.start+p].winner = dst
		}
	}

	if reset {
		gf2 := l.add(MatchInfo{Part: PartGrandFinalReset})
		l.grandFinalReset = someIndex(gf2)
		l.routes[gf] = route{
			winner:    &slotRef{match: gf2, slot: 1},
			loser:     &slotRef{match: gf2, slot: 0},
			resetOnly: true,
		}
	}

	return l
}

// dropSlot maps the loser of winners round r, position p to its losers
// bracket slot. Drop-ins after the first round are reversed or half rotated
// so a dropped entrant does not immediately meet someone from their own
// part of the winners bracket again.
func (l *layout) dropSlot(r, p int) *slotRef {
	if len(l.losers) == 0 {
		return &slotRef{match: l.grandFinal.index, slot: 1}
	}
	if r == 0 {
		return &slotRef{match: l.losers[0].start + p/2, slot: p % 2}
	}

	lb := l.losers[2*r-1]
	if lb.size != l.winners[r].size {
		panic(fmt.Sprintf("BUG: invariant: winners round %d has %d matches but losers round %d has %d",
			r, l.winners[r].size, 2*r, lb.size))
	}
	q := p
	if lb.size > 1 {
		if r%2 == 1 {
			q = lb.size - 1 - p
		} else {
			q = (p + lb.size/2) % lb.size
		}
	}

	return &slotRef{match: lb.start + q, slot: 1}
}
