/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"reflect"
	"sort"
	"testing"
)

func TestRenderSingleElimination(t *testing.T) {
	b := mustNew(t, SingleElimination, 8,
		Values{OptionThirdPlaceMatch: BoolValue(true)})
	root := b.Render()

	if root.Kind != ElementRow || len(root.Children) != 3 {
		t.Fatalf("expected a row of 3 columns, got %v with %d children",
			root.Kind, len(root.Children))
	}
	labels := []string{}
	for _, col := range root.Children {
		if col.Kind != ElementColumn {
			t.Errorf("expected column, got %v", col.Kind)
		}
		labels = append(labels, col.Label)
	}
	if !reflect.DeepEqual(labels, []string{"Quarterfinals", "Semifinals",
		"Final"}) {
		t.Errorf("unexpected round labels %v", labels)
	}

	final := root.Children[2]
	if len(final.Children) != 2 {
		t.Fatalf("expected final and third place in the last column, got %d",
			len(final.Children))
	}
	tp := final.Children[1]
	if tp.Match != 7 || tp.Position == nil || tp.Position.Kind != PositionEnd {
		t.Errorf("expected third place match 7 pinned to the end, got %+v", tp)
	}

	want := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if got := root.matchIndexes(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected match order %v, got %v", want, got)
	}
}

func TestRenderDoubleElimination(t *testing.T) {
	for _, n := range []int{2, 3, 8, 13} {
		b := mustNew(t, DoubleElimination, n, nil)
		root := b.Render()

		got := root.matchIndexes()
		sort.Ints(got)
		if len(got) != b.Matches().Len() {
			t.Fatalf("n=%d: expected %d matches rendered, got %d", n,
				b.Matches().Len(), len(got))
		}
		for i, idx := range got {
			if idx != i {
				t.Fatalf("n=%d: match %d rendered out of place: %v", n, i, got)
			}
		}

		if len(root.Children) != 2 {
			t.Fatalf("n=%d: expected brackets and finals columns, got %d", n,
				len(root.Children))
		}
		finals := root.Children[1]
		if finals.Position == nil || finals.Position.Kind != PositionPinned {
			t.Errorf("n=%d: expected pinned finals column", n)
		}
		if len(finals.Children) != 2 {
			t.Errorf("n=%d: expected grand final and reset, got %d", n,
				len(finals.Children))
		}
	}
}

func TestRenderIsStable(t *testing.T) {
	for _, f := range Formats() {
		b := mustNew(t, f, 6, nil)
		before := b.Render()
		win(t, b, 0, 1)
		win(t, b, 1, 0)
		if !reflect.DeepEqual(before, b.Render()) {
			t.Errorf("%v: render tree changed with results", f)
		}
		if !reflect.DeepEqual(b.Render(), b.Render()) {
			t.Errorf("%v: render tree is not stable", f)
		}
	}
}

func TestRenderSingleEntrant(t *testing.T) {
	for _, f := range Formats() {
		b := mustNew(t, f, 1, nil)
		if idx := b.Render().matchIndexes(); len(idx) != 0 {
			t.Errorf("%v: expected no matches, got %v", f, idx)
		}
	}
}

func TestWalkDepth(t *testing.T) {
	b := mustNew(t, DoubleElimination, 4, nil)
	maxDepth := 0
	b.Render().walk(func(e Element, depth int) {
		if depth > maxDepth {
			maxDepth = depth
		}
	}, 0)
	// row > column > bracket row > round column > match
	if maxDepth != 4 {
		t.Errorf("expected depth 4, got %d", maxDepth)
	}
}
