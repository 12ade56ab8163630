/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracketfmt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
)

const (
	// two entrant lines plus a spacer
	matchHeight = 3
	columnGap   = "   "
)

type treeRenderer struct {
	matches   bracket.Matches
	name      NameFunc
	nameWidth int
	idxWidth  int
}

// BuildBracketOutput draws the render tree of b as text columns, one per
// round, with later rounds vertically centered on the matches feeding them.
func BuildBracketOutput[T any](b *bracket.Bracket[T], name NameFunc) string {
	matches := b.Matches()
	if matches.Len() == 0 {
		if champ, ok := b.Champion(); ok {
			return fmt.Sprintf("Champion: %v\n", name(champ))
		}
		return ""
	}

	r := &treeRenderer{
		matches:   matches,
		name:      name,
		nameWidth: len("TBD"),
		idxWidth:  len(fmt.Sprintf("%v", matches.Len()-1)),
	}
	for i := 0; i < b.Entrants().Len(); i++ {
		r.nameWidth = max(r.nameWidth, utf8.RuneCountInString(name(i)))
	}

	root := b.Render()
	lines := r.render(root, r.natural(root))

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(strings.TrimRight(l, " "))
		sb.WriteString("\n")
	}
	if champ, ok := b.Champion(); ok {
		sb.WriteString(fmt.Sprintf("\nChampion: %v\n", name(champ)))
	}

	return sb.String()
}

func labelLines(e bracket.Element) int {
	if e.Label == "" {
		return 0
	}
	return 1
}

// natural is the minimum number of lines e needs.
func (r *treeRenderer) natural(e bracket.Element) int {
	switch e.Kind {
	case bracket.ElementMatch:
		return labelLines(e) + matchHeight
	case bracket.ElementColumn:
		total := 0
		for _, c := range e.Children {
			total += r.natural(c)
		}
		return labelLines(e) + total
	default:
		tallest := 0
		for _, c := range e.Children {
			tallest = max(tallest, r.natural(c))
		}
		return labelLines(e) + tallest
	}
}

// render draws e in exactly height lines of equal width.
func (r *treeRenderer) render(e bracket.Element, height int) []string {
	var lines []string
	if e.Label != "" {
		lines = append(lines, e.Label)
	}
	avail := height - len(lines)

	switch e.Kind {
	case bracket.ElementMatch:
		lines = append(lines, r.matchLines(e.Match)...)
	case bracket.ElementColumn:
		if len(e.Children) == 0 {
			break
		}
		// every child gets its natural height plus an equal share of the rest
		extra := avail
		for _, c := range e.Children {
			extra -= r.natural(c)
		}
		for i, c := range e.Children {
			h := r.natural(c) + extra/len(e.Children)
			if i == len(e.Children)-1 {
				h += extra % len(e.Children)
			}
			lines = append(lines, r.place(c, h)...)
		}
	default:
		var blocks [][]string
		for _, c := range e.Children {
			blocks = append(blocks, r.place(c, avail))
		}
		lines = append(lines, joinColumns(blocks, avail)...)
	}

	return padBlock(lines, height)
}

// place draws e within height lines according to its position hint.
func (r *treeRenderer) place(e bracket.Element, height int) []string {
	nat := r.natural(e)
	if e.Kind != bracket.ElementMatch &&
		(e.Position == nil || e.Position.Kind == bracket.PositionSpaceAround) {
		return r.render(e, height)
	}

	offset := (height - nat) / 2
	if e.Position != nil {
		switch e.Position.Kind {
		case bracket.PositionStart:
			offset = 0
		case bracket.PositionEnd:
			offset = height - nat
		case bracket.PositionPinned:
			offset = (height - nat) * int(e.Position.Percent) / 100
		}
	}
	lines := make([]string, offset, height)
	lines = append(lines, r.render(e, nat)...)

	return padBlock(lines, height)
}

func (r *treeRenderer) matchLines(index int) []string {
	m, err := r.matches.Get(index)
	if err != nil {
		panic(fmt.Sprintf("BUG: invariant: render tree names match %d: %v",
			index, err))
	}
	concluded := m.IsConcluded()
	ret := make([]string, 0, 2)
	for slot, spot := range m.Entrants {
		text, score := spotText(spot, r.name, concluded)
		idx := ""
		if slot == 0 {
			idx = fmt.Sprintf("%v", index)
		}
		ret = append(ret, fmt.Sprintf("%*s %-*s %-3s", r.idxWidth, idx,
			r.nameWidth, text, score))
	}

	return ret
}

func joinColumns(blocks [][]string, height int) []string {
	ret := make([]string, height)
	for i, b := range blocks {
		width := blockWidth(b)
		for l := 0; l < height; l++ {
			if i > 0 {
				ret[l] += columnGap
			}
			line := ""
			if l < len(b) {
				line = b[l]
			}
			ret[l] += fmt.Sprintf("%-*s", width, line)
		}
	}

	return ret
}

func blockWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, utf8.RuneCountInString(l))
	}
	return w
}

// padBlock extends lines to height and pads every line to a common width.
func padBlock(lines []string, height int) []string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	width := blockWidth(lines)
	for i, l := range lines {
		lines[i] = fmt.Sprintf("%-*s", width, l)
	}

	return lines
}
