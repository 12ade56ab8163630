/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracketfmt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
)

var players = []string{"Alice", "Bob", "Carol", "Dave", "Erin"}

func playerName(i int) string {
	return players[i]
}

func newBracket(t *testing.T, format bracket.Format, n int) *bracket.Bracket[string] {
	t.Helper()
	b, err := bracket.New(format, bracket.NewRegistry(players[:n]), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return b
}

func report(t *testing.T, b *bracket.Bracket[string], index, slot int) {
	t.Helper()
	var scores [2]bracket.EntrantScore
	scores[slot] = bracket.EntrantScore{Score: 2, Winner: true}
	scores[1-slot] = bracket.EntrantScore{Score: 1}
	if err := b.ReportResult(index, scores); err != nil {
		t.Fatalf("ReportResult(%d) returned error: %v", index, err)
	}
}

func TestBuildStandingsOutput(t *testing.T) {
	b := newBracket(t, bracket.SingleElimination, 4)
	if out := BuildStandingsOutput(b, playerName); !strings.Contains(out,
		"No matches") {
		t.Errorf("expected empty standings message, got %q", out)
	}

	report(t, b, 0, 0)
	report(t, b, 1, 1)
	out := BuildStandingsOutput(b, playerName)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header and 4 rows, got:\n%v", out)
	}
	if !strings.HasPrefix(lines[1], "1.") || !strings.Contains(lines[1], "Alice") {
		t.Errorf("expected Alice first, got %q", lines[1])
	}
	// Alice and Dave share a record and therefore a place
	if !strings.Contains(lines[2], "Dave") || strings.HasPrefix(lines[2], "2.") {
		t.Errorf("expected Dave tied for first, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "3.") {
		t.Errorf("expected a third place, got %q", lines[3])
	}
}

func TestBuildMatchesOutput(t *testing.T) {
	b := newBracket(t, bracket.SingleElimination, 3)
	report(t, b, 0, 1)

	out := BuildMatchesOutput(b, playerName, false)
	for _, want := range []string{"Bob", "1-2*", "done", "bye", "ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%v", want, out)
		}
	}

	ready := BuildMatchesOutput(b, playerName, true)
	lines := strings.Split(strings.TrimSpace(ready), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "Carol") {
		t.Errorf("expected only the final to be ready, got:\n%v", ready)
	}

	report(t, b, 2, 0)
	if out := BuildMatchesOutput(b, playerName, true); !strings.Contains(out,
		"No matches are ready") {
		t.Errorf("expected no ready matches, got:\n%v", out)
	}
}

func TestBuildBracketOutputSingle(t *testing.T) {
	b := newBracket(t, bracket.SingleElimination, 4)
	report(t, b, 0, 0)
	report(t, b, 1, 0)
	report(t, b, 2, 1)

	out := BuildBracketOutput(b, playerName)
	for _, want := range []string{"Semifinals", "Final", "Champion: Carol"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%v", want, out)
		}
	}

	// the final sits between the two semifinals
	lines := strings.Split(out, "\n")
	row := func(s string) int {
		for i, l := range lines {
			if strings.Contains(l, s) {
				return i
			}
		}
		return -1
	}
	semi0, semi1 := row("0 Alice"), row("1 Carol")
	final := row("2 Alice")
	if semi0 < 0 || semi1 < 0 || final < 0 {
		t.Fatalf("unable to locate matches in:\n%v", out)
	}
	if final <= semi0 || final >= semi1 {
		t.Errorf("expected the final (line %v) between the semifinals (%v, %v):\n%v",
			final, semi0, semi1, out)
	}
}

func TestBuildBracketOutputDouble(t *testing.T) {
	for n := 1; n <= len(players); n++ {
		t.Run(fmt.Sprintf("%v entrants", n), func(t *testing.T) {
			b := newBracket(t, bracket.DoubleElimination, n)
			out := BuildBracketOutput(b, playerName)
			if n == 1 {
				if out != "Champion: Alice\n" {
					t.Errorf("unexpected output %q", out)
				}
				return
			}
			for _, want := range []string{"Winners Bracket", "Grand Final"} {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in:\n%v", want, out)
				}
			}
			if n > 2 && !strings.Contains(out, "Losers Round 1") {
				t.Errorf("expected losers rounds in:\n%v", out)
			}
		})
	}
}
