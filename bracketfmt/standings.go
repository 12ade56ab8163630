/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracketfmt

import (
	"fmt"
	"strings"

	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
)

// NameFunc returns the display name of an entrant index.
type NameFunc func(index int) string

// BuildStandingsOutput formats standings into an aligned table. Entrants with
// the same record share a place.
func BuildStandingsOutput[T any](b *bracket.Bracket[T], name NameFunc) string {
	standings := b.Standings()
	if len(standings.Rows) == 0 {
		return "No matches have been played yet\n"
	}

	type row struct{ rank, player, wins, losses, points string }
	var rows []row
	var priorW, priorL uint64
	for idx, r := range standings.Rows {
		w := u64(standings, idx, bracket.StandingsWins)
		l := u64(standings, idx, bracket.StandingsLosses)
		rank := ""
		if idx == 0 || w != priorW || l != priorL {
			rank = fmt.Sprintf("%v.", idx+1)
			priorW, priorL = w, l
		}
		rows = append(rows, row{
			rank:   rank,
			player: name(r.Index),
			wins:   fmt.Sprintf("%v", w),
			losses: fmt.Sprintf("%v", l),
			points: fmt.Sprintf("%v", u64(standings, idx, bracket.StandingsPoints)),
		})
	}

	// Compute column widths
	maxP, maxN := len("Place"), len("Name")
	maxW, maxL, maxS := len("W"), len("L"), len("Points")
	for _, r := range rows {
		maxP = max(maxP, len(r.rank))
		maxN = max(maxN, len([]rune(r.player)))
		maxW = max(maxW, len(r.wins))
		maxL = max(maxL, len(r.losses))
		maxS = max(maxS, len(r.points))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP, "Place",
		maxN, "Name", maxW, "W", maxL, "L", maxS, "Points"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
			r.rank, maxN, r.player, maxW, r.wins, maxL, r.losses, maxS,
			r.points))
	}

	return sb.String()
}

func u64(s bracket.Standings, row int, key string) uint64 {
	v, _ := s.Get(row, key)
	ret, _ := v.U64()
	return ret
}
