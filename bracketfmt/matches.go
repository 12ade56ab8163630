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

// spotText returns the display text and score column of a slot.
func spotText(spot bracket.EntrantSpot, name NameFunc, concluded bool) (string, string) {
	switch spot.Kind {
	case bracket.SpotEntrant:
		if !concluded {
			return name(spot.Node.Index), ""
		}
		score := fmt.Sprintf("%v", spot.Node.Data.Score)
		if spot.Node.Data.Winner {
			score += "*"
		}
		return name(spot.Node.Index), score
	case bracket.SpotEmpty:
		return "-", ""
	default:
		return "TBD", ""
	}
}

func matchStatus(m bracket.Match) string {
	switch {
	case m.IsConcluded():
		return "done"
	case m.IsReady():
		return "ready"
	case m.IsBye():
		return "bye"
	case m.IsVacant():
		return "-"
	default:
		return "waiting"
	}
}

func roundText(info bracket.MatchInfo) string {
	switch info.Part {
	case bracket.PartWinners, bracket.PartLosers:
		return fmt.Sprintf("%v R%v", info.Part, info.Round+1)
	default:
		return info.Part.String()
	}
}

// BuildMatchesOutput formats the match list. readyOnly restricts the output
// to matches awaiting a result.
func BuildMatchesOutput[T any](b *bracket.Bracket[T], name NameFunc,
	readyOnly bool) string {

	type row struct{ index, round, a, b, score, status string }
	var rows []row
	for i, m := range b.Matches() {
		concluded := m.IsConcluded()
		if readyOnly && (!m.IsReady() || concluded) {
			continue
		}
		info, err := b.Info(i)
		if err != nil {
			panic(fmt.Sprintf("BUG: invariant: no info for match %d: %v", i, err))
		}
		a, sa := spotText(m.Entrants[0], name, concluded)
		c, sc := spotText(m.Entrants[1], name, concluded)
		score := ""
		if concluded {
			score = sa + "-" + sc
		}
		rows = append(rows, row{
			index:  fmt.Sprintf("%v", i),
			round:  roundText(info),
			a:      a,
			b:      c,
			score:  score,
			status: matchStatus(m),
		})
	}
	if len(rows) == 0 {
		if readyOnly {
			return "No matches are ready to be played\n"
		}
		return "This bracket has no matches\n"
	}

	maxI, maxR, maxA := len("Match"), len("Round"), len("Entrant")
	maxB, maxS := len("Opponent"), len("Score")
	for _, r := range rows {
		maxI = max(maxI, len(r.index))
		maxR = max(maxR, len(r.round))
		maxA = max(maxA, len([]rune(r.a)))
		maxB = max(maxB, len([]rune(r.b)))
		maxS = max(maxS, len(r.score))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %s\n", maxI,
		"Match", maxR, "Round", maxA, "Entrant", maxB, "Opponent", maxS, "Score",
		"Status"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %s\n", maxI,
			r.index, maxR, r.round, maxA, r.a, maxB, r.b, maxS, r.score,
			r.status))
	}

	return sb.String()
}
