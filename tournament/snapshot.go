/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"fmt"
	"time"

	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
)

// Snapshot is the JSON view of a tournament served to the web and to live
// subscribers.
type Snapshot struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Format    string            `json:"format"`
	Options   map[string]string `json:"options"`
	Entrants  []Entrant         `json:"entrants"`
	State     string            `json:"state"`
	Champion  *int              `json:"champion,omitempty"`
	Matches   []MatchView       `json:"matches"`
	Standings []StandingView    `json:"standings"`
	Render    RenderNode        `json:"render"`
	Updated   time.Time         `json:"updated"`
}

type SlotView struct {
	Kind    string `json:"kind"`
	Entrant *int   `json:"entrant,omitempty"`
	Name    string `json:"name,omitempty"`
	Score   uint64 `json:"score"`
	Winner  bool   `json:"winner"`
}

type MatchView struct {
	Index     int         `json:"index"`
	Part      string      `json:"part"`
	Round     int         `json:"round"`
	Position  int         `json:"position"`
	Slots     [2]SlotView `json:"slots"`
	Ready     bool        `json:"ready"`
	Concluded bool        `json:"concluded"`
}

type StandingView struct {
	Entrant int    `json:"entrant"`
	Name    string `json:"name"`
	Wins    uint64 `json:"wins"`
	Losses  uint64 `json:"losses"`
	Points  uint64 `json:"points"`
}

type RenderNode struct {
	Kind     string       `json:"kind"`
	Label    string       `json:"label,omitempty"`
	Position string       `json:"position,omitempty"`
	Match    *int         `json:"match,omitempty"`
	Children []RenderNode `json:"children,omitempty"`
}

func NewSnapshot(rec *Record, b *bracket.Bracket[Entrant]) Snapshot {
	snap := Snapshot{
		ID:       rec.ID.String(),
		Name:     rec.Name,
		Format:   b.Format().String(),
		Options:  b.Options().Raw(),
		Entrants: b.Entrants().Items(),
		State:    b.State().String(),
		Render:   renderNode(b.Render()),
		Updated:  rec.Updated,
	}
	if champ, ok := b.Champion(); ok {
		snap.Champion = &champ
	}

	matches := b.Matches()
	snap.Matches = make([]MatchView, 0, matches.Len())
	for i, m := range matches {
		info, err := b.Info(i)
		if err != nil {
			panic(fmt.Sprintf("BUG: invariant: no info for match %d: %v", i, err))
		}
		mv := MatchView{
			Index:     i,
			Part:      info.Part.String(),
			Round:     info.Round,
			Position:  info.Position,
			Ready:     m.IsReady(),
			Concluded: m.IsConcluded(),
		}
		for slot, spot := range m.Entrants {
			mv.Slots[slot] = slotView(rec, spot)
		}
		snap.Matches = append(snap.Matches, mv)
	}

	standings := b.Standings()
	snap.Standings = make([]StandingView, 0, len(standings.Rows))
	for i, r := range standings.Rows {
		sv := StandingView{Entrant: r.Index, Name: rec.EntrantName(r.Index)}
		sv.Wins = standingValue(standings, i, bracket.StandingsWins)
		sv.Losses = standingValue(standings, i, bracket.StandingsLosses)
		sv.Points = standingValue(standings, i, bracket.StandingsPoints)
		snap.Standings = append(snap.Standings, sv)
	}

	return snap
}

func standingValue(s bracket.Standings, row int, key string) uint64 {
	v, _ := s.Get(row, key)
	u, _ := v.U64()
	return u
}

func slotView(rec *Record, spot bracket.EntrantSpot) SlotView {
	sv := SlotView{Kind: spot.Kind.String()}
	if !spot.IsEntrant() {
		return sv
	}
	idx := spot.Node.Index
	sv.Entrant = &idx
	sv.Name = rec.EntrantName(idx)
	sv.Score = spot.Node.Data.Score
	sv.Winner = spot.Node.Data.Winner

	return sv
}

func renderNode(e bracket.Element) RenderNode {
	ret := RenderNode{
		Kind:     e.Kind.String(),
		Label:    e.Label,
		Position: positionString(e.Position),
	}
	if e.Kind == bracket.ElementMatch {
		idx := e.Match
		ret.Match = &idx
	}
	for _, c := range e.Children {
		ret.Children = append(ret.Children, renderNode(c))
	}

	return ret
}

func positionString(p *bracket.Position) string {
	if p == nil {
		return ""
	}
	switch p.Kind {
	case bracket.PositionSpaceAround:
		return "space-around"
	case bracket.PositionStart:
		return "start"
	case bracket.PositionEnd:
		return "end"
	case bracket.PositionPinned:
		return fmt.Sprintf("pinned:%d", p.Percent)
	}
	return ""
}
