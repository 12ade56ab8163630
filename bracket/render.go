/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
)

type ElementKind int

const (
	ElementRow ElementKind = iota
	ElementColumn
	ElementMatch
)

func (k ElementKind) String() string {
	switch k {
	case ElementRow:
		return "row"
	case ElementColumn:
		return "column"
	case ElementMatch:
		return "match"
	default:
		return "?"
	}
}

type PositionKind int

const (
	// PositionSpaceAround distributes children evenly.
	PositionSpaceAround PositionKind = iota
	PositionStart
	PositionEnd
	// PositionPinned places the element Percent of the way down its parent.
	PositionPinned
)

// Position is a layout hint for renderers. It carries no meaning for the
// engine.
type Position struct {
	Kind    PositionKind
	Percent uint8
}

func SpaceAround() *Position { return &Position{Kind: PositionSpaceAround} }
func Start() *Position       { return &Position{Kind: PositionStart} }
func End() *Position         { return &Position{Kind: PositionEnd} }

func Pinned(percent uint8) *Position {
	if percent > 100 {
		percent = 100
	}
	return &Position{Kind: PositionPinned, Percent: percent}
}

// Element is a node of the render tree. Match is only meaningful for
// ElementMatch; renderers fetch the live match by that index.
type Element struct {
	Kind     ElementKind
	Label    string
	Position *Position
	Children []Element
	Match    int
}

func row(label string, pos *Position, children ...Element) Element {
	return Element{Kind: ElementRow, Label: label, Position: pos,
		Children: children}
}

func column(label string, pos *Position, children ...Element) Element {
	return Element{Kind: ElementColumn, Label: label, Position: pos,
		Children: children}
}

// walk visits e and its descendants depth first.
func (e Element) walk(visit func(e Element, depth int), depth int) {
	visit(e, depth)
	for _, c := range e.Children {
		c.walk(visit, depth+1)
	}
}

// matchIndexes returns the match indexes of e in depth first order.
func (e Element) matchIndexes() []int {
	var ret []int
	e.walk(func(el Element, _ int) {
		if el.Kind == ElementMatch {
			ret = append(ret, el.Match)
		}
	}, 0)

	return ret
}

// Render describes the bracket's fixed topology. It never looks at results,
// so repeated calls return identical trees.
func (b *Bracket[T]) Render() Element {
	switch b.format {
	case SingleElimination:
		return b.renderSingle()
	case DoubleElimination:
		return b.renderDouble()
	}

	panic(fmt.Sprintf("BUG: invariant: unhandled format %v", b.format))
}

func (b *Bracket[T]) matchElement(index int, label string,
	pos *Position) Element {

	b.matches.at(index)

	return Element{Kind: ElementMatch, Label: label, Position: pos,
		Match: index}
}

func (b *Bracket[T]) roundColumn(label string, s span) Element {
	col := column(label, SpaceAround())
	for i := s.start; i < s.start+s.size; i++ {
		col.Children = append(col.Children, b.matchElement(i, "", nil))
	}

	return col
}

func winnersRoundLabel(r, rounds int) string {
	switch rounds - r {
	case 1:
		return "Final"
	case 2:
		return "Semifinals"
	case 3:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round %d", r+1)
	}
}

func (b *Bracket[T]) renderSingle() Element {
	root := row("", nil)
	for r, s := range b.layout.winners {
		root.Children = append(root.Children,
			b.roundColumn(winnersRoundLabel(r, b.layout.rounds), s))
	}
	if tp := b.layout.thirdPlace; tp.valid {
		last := &root.Children[len(root.Children)-1]
		last.Children = append(last.Children,
			b.matchElement(tp.index, PartThirdPlace.String(), End()))
	}

	return root
}

func (b *Bracket[T]) renderDouble() Element {
	root := row("", nil)
	if len(b.layout.winners) == 0 {
		return root
	}

	upper := row("Winners Bracket", SpaceAround())
	for r, s := range b.layout.winners {
		upper.Children = append(upper.Children,
			b.roundColumn(winnersRoundLabel(r, b.layout.rounds), s))
	}
	lower := row("Losers Bracket", SpaceAround())
	for j, s := range b.layout.losers {
		lower.Children = append(lower.Children,
			b.roundColumn(fmt.Sprintf("Losers Round %d", j+1), s))
	}
	root.Children = append(root.Children,
		column("", SpaceAround(), upper, lower))

	// the winners bracket occupies the top half; pin the final to its middle
	finals := column(PartGrandFinal.String(), Pinned(25),
		b.matchElement(b.layout.grandFinal.index, "", nil))
	if gf2 := b.layout.grandFinalReset; gf2.valid {
		finals.Children = append(finals.Children,
			b.matchElement(gf2.index, PartGrandFinalReset.String(), nil))
	}
	root.Children = append(root.Children, finals)

	return root
}
