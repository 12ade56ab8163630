/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
)

type SpotKind int

const (
	// SpotTBD is waiting on the result of an upstream match.
	SpotTBD SpotKind = iota
	// SpotEmpty is a permanent bye and never receives an entrant.
	SpotEmpty
	// SpotEntrant holds a resolved entrant.
	SpotEntrant
)

func (k SpotKind) String() string {
	switch k {
	case SpotTBD:
		return "TBD"
	case SpotEmpty:
		return "Empty"
	case SpotEntrant:
		return "Entrant"
	default:
		return "?"
	}
}

// EntrantScore is the per slot result data of a match.
type EntrantScore struct {
	Score  uint64
	Winner bool
}

// Node is a resolved entrant reference plus its result data.
type Node struct {
	Index int
	Data  EntrantScore
}

// EntrantSpot is one of the two slots of a match. Node is only meaningful
// when Kind is SpotEntrant.
type EntrantSpot struct {
	Kind SpotKind
	Node Node
}

func TBD() EntrantSpot {
	return EntrantSpot{Kind: SpotTBD}
}

func Empty() EntrantSpot {
	return EntrantSpot{Kind: SpotEmpty}
}

func Entrant(index int) EntrantSpot {
	return EntrantSpot{Kind: SpotEntrant, Node: Node{Index: index}}
}

func (s EntrantSpot) IsEntrant() bool { return s.Kind == SpotEntrant }
func (s EntrantSpot) IsEmpty() bool   { return s.Kind == SpotEmpty }
func (s EntrantSpot) IsTBD() bool     { return s.Kind == SpotTBD }

// sameOccupant ignores result data.
func (s EntrantSpot) sameOccupant(o EntrantSpot) bool {
	if s.Kind != o.Kind {
		return false
	}
	return s.Kind != SpotEntrant || s.Node.Index == o.Node.Index
}

func (s EntrantSpot) String() string {
	if s.Kind == SpotEntrant {
		return fmt.Sprintf("#%d", s.Node.Index)
	}
	return s.Kind.String()
}

// Match always has exactly two slots.
type Match struct {
	Entrants [2]EntrantSpot
}

func NewMatch(a, b EntrantSpot) Match {
	return Match{Entrants: [2]EntrantSpot{a, b}}
}

// IsReady reports whether both slots hold entrants, i.e. a result may be
// reported.
func (m Match) IsReady() bool {
	return m.Entrants[0].IsEntrant() && m.Entrants[1].IsEntrant()
}

// IsBye reports whether exactly one slot holds an entrant and the other is a
// permanent bye.
func (m Match) IsBye() bool {
	a, b := m.Entrants[0], m.Entrants[1]
	return (a.IsEntrant() && b.IsEmpty()) || (a.IsEmpty() && b.IsEntrant())
}

// IsVacant reports whether both slots are permanent byes.
func (m Match) IsVacant() bool {
	return m.Entrants[0].IsEmpty() && m.Entrants[1].IsEmpty()
}

// WinnerSlot returns the slot flagged as the winner of a ready match.
func (m Match) WinnerSlot() (int, bool) {
	if !m.IsReady() {
		return 0, false
	}
	for slot, spot := range m.Entrants {
		if spot.Node.Data.Winner {
			return slot, true
		}
	}
	return 0, false
}

// IsConcluded reports whether a contested match has a reported winner.
func (m Match) IsConcluded() bool {
	_, ok := m.WinnerSlot()
	return ok
}

func (m Match) hasResult() bool {
	for _, spot := range m.Entrants {
		if spot.IsEntrant() && spot.Node.Data != (EntrantScore{}) {
			return true
		}
	}
	return false
}

func (m *Match) clearResult() {
	for slot := range m.Entrants {
		m.Entrants[slot].Node.Data = EntrantScore{}
	}
}

// Matches is the index addressed match tree. Its length is fixed at
// generation time.
type Matches []Match

func (ms Matches) Len() int {
	return len(ms)
}

func (ms Matches) Get(index int) (Match, error) {
	if index < 0 || index >= len(ms) {
		return Match{}, fmt.Errorf("bracket: match %d of %d: %w", index,
			len(ms), ErrIndexOutOfRange)
	}

	return ms[index], nil
}

// at is used on paths where the index comes from the generated topology.
func (ms Matches) at(index int) *Match {
	if index < 0 || index >= len(ms) {
		panic(fmt.Sprintf("BUG: invariant: match index %d outside of [0,%d)",
			index, len(ms)))
	}

	return &ms[index]
}

func (ms Matches) clone() Matches {
	ret := make(Matches, len(ms))
	copy(ret, ms)

	return ret
}
