/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
)

// State of a bracket as a whole.
type State int

const (
	StatePending State = iota
	// StateResetPending means the losers bracket champion won the first
	// grand final and the reset match remains to be played.
	StateResetPending
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResetPending:
		return "reset pending"
	case StateDone:
		return "done"
	default:
		return "?"
	}
}

// Bracket is an elimination bracket over entrants of type T. It is not safe
// for concurrent use; callers serialize writes and must not read during a
// write.
type Bracket[T any] struct {
	format   Format
	entrants *Registry[T]
	options  Values
	matches  Matches
	layout   layout
}

// New generates the match tree for entrants. Round 0 is seeded per the
// seeding option and byes are resolved before New returns.
func New[T any](format Format, entrants *Registry[T],
	options Values) (*Bracket[T], error) {

	schema, err := SchemaFor(format)
	if err != nil {
		return nil, err
	}
	if entrants == nil || entrants.Len() == 0 {
		return nil, fmt.Errorf("bracket: %v needs at least one entrant: %w",
			format, ErrInvalidEntrantCount)
	}
	resolved, err := options.Merge(schema)
	if err != nil {
		return nil, err
	}

	b := &Bracket[T]{
		format:   format,
		entrants: entrants.clone(),
		options:  resolved,
	}
	n := b.entrants.Len()

	switch format {
	case SingleElimination:
		b.layout = singleLayout(n, resolved.getBool(OptionThirdPlaceMatch))
	case DoubleElimination:
		b.layout = doubleLayout(n, resolved.getBool(OptionBracketReset))
	}

	b.matches = make(Matches, len(b.layout.infos))
	for i := range b.matches {
		b.matches[i] = NewMatch(TBD(), TBD())
	}
	if len(b.layout.winners) == 0 {
		return b, nil
	}

	seats := seedSlots(resolved.getString(OptionSeeding), n, b.layout.width)
	first := b.layout.winners[0]
	seeded := make([]int, 0, first.size)
	for p := 0; p < first.size; p++ {
		m := b.matches.at(first.start + p)
		m.Entrants[0] = seats[2*p].spot()
		m.Entrants[1] = seats[2*p+1].spot()
		seeded = append(seeded, first.start+p)
	}
	b.propagate(seeded...)

	return b, nil
}

// Resume rebuilds a bracket from a previously materialized match tree. The
// matches must have the shape New generates for the same entrants and
// options.
func Resume[T any](format Format, entrants *Registry[T], options Values,
	matches Matches) (*Bracket[T], error) {

	b, err := New(format, entrants, options)
	if err != nil {
		return nil, err
	}
	if len(matches) != len(b.matches) {
		return nil, &MatchCountError{Expected: len(b.matches),
			Found: len(matches)}
	}
	n := b.entrants.Len()
	for i, m := range matches {
		for _, spot := range m.Entrants {
			if spot.IsEntrant() && (spot.Node.Index < 0 || spot.Node.Index >= n) {
				return nil, &EntrantIndexError{Match: i, Index: spot.Node.Index,
					Length: n}
			}
		}
	}
	b.matches = matches.clone()

	return b, nil
}

func (b *Bracket[T]) Format() Format {
	return b.format
}

// Entrants returns a copy of the registry the bracket was built from.
func (b *Bracket[T]) Entrants() *Registry[T] {
	return b.entrants.clone()
}

// Matches returns a copy of the current match tree.
func (b *Bracket[T]) Matches() Matches {
	return b.matches.clone()
}

func (b *Bracket[T]) Match(index int) (Match, error) {
	return b.matches.Get(index)
}

func (b *Bracket[T]) Info(index int) (MatchInfo, error) {
	if _, err := b.matches.Get(index); err != nil {
		return MatchInfo{}, err
	}
	return b.layout.infos[index], nil
}

// Options returns the effective option values, defaults included.
func (b *Bracket[T]) Options() Values {
	ret := make(Values, len(b.options))
	for k, v := range b.options {
		ret[k] = v
	}

	return ret
}

// Schema returns the options declared by the bracket's format.
func (b *Bracket[T]) Schema() Schema {
	s, err := SchemaFor(b.format)
	if err != nil {
		panic(fmt.Sprintf("BUG: invariant: bracket built with %v", err))
	}
	return s
}

// Rounds is the number of winners bracket rounds.
func (b *Bracket[T]) Rounds() int {
	return b.layout.rounds
}

// ContestedMatches counts matches that are or will be played, i.e. those
// without a permanent bye in either slot.
func (b *Bracket[T]) ContestedMatches() int {
	count := 0
	for _, m := range b.matches {
		if !m.Entrants[0].IsEmpty() && !m.Entrants[1].IsEmpty() {
			count++
		}
	}

	return count
}

// ReportResult records the per slot scores of a ready match and propagates
// the outcome. Exactly one slot must be flagged as the winner. On error the
// tree is left unchanged.
func (b *Bracket[T]) ReportResult(index int, scores [2]EntrantScore) error {
	m, err := b.matches.Get(index)
	if err != nil {
		return err
	}
	if !m.IsReady() {
		return fmt.Errorf("bracket: match %d (%v vs %v): %w", index,
			m.Entrants[0], m.Entrants[1], ErrUnreadyMatch)
	}
	if scores[0].Winner == scores[1].Winner {
		return fmt.Errorf("bracket: match %d must have exactly one winner: %w",
			index, ErrInconsistentScores)
	}

	mp := b.matches.at(index)
	for slot := range mp.Entrants {
		mp.Entrants[slot].Node.Data = scores[slot]
	}
	b.propagate(index)

	return nil
}

// ResetMatch clears the result of a match and invalidates everything
// downstream that depended on it.
func (b *Bracket[T]) ResetMatch(index int) error {
	m, err := b.matches.Get(index)
	if err != nil {
		return err
	}
	if !m.hasResult() {
		return nil
	}

	b.matches.at(index).clearResult()
	b.propagate(index)

	return nil
}

// outcome derives what a match sends downstream. Byes advance their sole
// entrant and send an Empty loser; anything undecided sends TBD.
func outcome(m Match) (winner, loser EntrantSpot, winSlot int) {
	s0, s1 := m.Entrants[0], m.Entrants[1]
	switch {
	case s0.IsEntrant() && s1.IsEntrant():
		slot, ok := m.WinnerSlot()
		if !ok {
			return TBD(), TBD(), 0
		}
		return Entrant(m.Entrants[slot].Node.Index),
			Entrant(m.Entrants[1-slot].Node.Index), slot
	case s0.IsEntrant() && s1.IsEmpty():
		return Entrant(s0.Node.Index), Empty(), 0
	case s0.IsEmpty() && s1.IsEntrant():
		return Entrant(s1.Node.Index), Empty(), 1
	case s0.IsEmpty() && s1.IsEmpty():
		return Empty(), Empty(), 0
	default:
		return TBD(), TBD(), 0
	}
}

// propagate re-derives downstream slots from the given matches until no slot
// changes. A destination slot whose occupant changes loses the result of its
// match, which is then processed in turn.
func (b *Bracket[T]) propagate(seeds ...int) {
	queued := make([]bool, len(b.matches))
	queue := make([]int, 0, len(seeds))
	push := func(i int) {
		if !queued[i] {
			queued[i] = true
			queue = append(queue, i)
		}
	}
	for _, i := range seeds {
		push(i)
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		queued[i] = false

		r := b.layout.routes[i]
		winner, loser, winSlot := outcome(*b.matches.at(i))
		if r.resetOnly && winSlot != 1 {
			winner, loser = TBD(), TBD()
		}

		for _, out := range [2]struct {
			dst  *slotRef
			spot EntrantSpot
		}{{r.winner, winner}, {r.loser, loser}} {
			if out.dst == nil {
				continue
			}
			dst := b.matches.at(out.dst.match)
			if dst.Entrants[out.dst.slot].sameOccupant(out.spot) {
				continue
			}
			dst.Entrants[out.dst.slot] = out.spot
			dst.clearResult()
			push(out.dst.match)
		}
	}
}

// decided returns the entrant a finished match produces: the reported winner,
// or the sole entrant of a bye.
func decided(m Match) (int, bool) {
	if m.IsBye() {
		winner, _, _ := outcome(m)
		return winner.Node.Index, true
	}
	slot, ok := m.WinnerSlot()
	if !ok {
		return 0, false
	}
	return m.Entrants[slot].Node.Index, true
}

func (b *Bracket[T]) State() State {
	if len(b.matches) == 0 {
		return StateDone
	}

	switch b.format {
	case SingleElimination:
		if _, ok := decided(*b.matches.at(b.layout.final())); !ok {
			return StatePending
		}
		if tp := b.layout.thirdPlace; tp.valid {
			m := *b.matches.at(tp.index)
			if _, ok := decided(m); !ok && !m.IsVacant() {
				return StatePending
			}
		}
		return StateDone
	case DoubleElimination:
		gf := *b.matches.at(b.layout.grandFinal.index)
		slot, ok := gf.WinnerSlot()
		if !ok {
			return StatePending
		}
		if slot == 0 || !b.layout.grandFinalReset.valid {
			return StateDone
		}
		if !b.matches.at(b.layout.grandFinalReset.index).IsConcluded() {
			return StateResetPending
		}
		return StateDone
	}

	panic(fmt.Sprintf("BUG: invariant: unhandled format %v", b.format))
}

func (b *Bracket[T]) Done() bool {
	return b.State() == StateDone
}

// Champion returns the overall winner once the bracket is done.
func (b *Bracket[T]) Champion() (int, bool) {
	if len(b.matches) == 0 {
		return 0, true
	}

	switch b.format {
	case SingleElimination:
		return decided(*b.matches.at(b.layout.final()))
	case DoubleElimination:
		switch b.State() {
		case StateDone:
			gf := *b.matches.at(b.layout.grandFinal.index)
			if slot, _ := gf.WinnerSlot(); slot == 0 ||
				!b.layout.grandFinalReset.valid {
				return decided(gf)
			}
			return decided(*b.matches.at(b.layout.grandFinalReset.index))
		default:
			return 0, false
		}
	}

	panic(fmt.Sprintf("BUG: invariant: unhandled format %v", b.format))
}
