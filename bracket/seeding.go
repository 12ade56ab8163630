/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
)

// seedSlots returns the entrant placed in each of the width round 0 slots,
// with ok false for a bye. Slot s belongs to match s/2.
func seedSlots(mode string, n, width int) []seat {
	order := make([]int, width)
	switch mode {
	case SeedingSequential:
		for i := range order {
			order[i] = i
		}
	case SeedingSplit:
		half := width / 2
		for m := 0; m < half; m++ {
			order[2*m] = m
			order[2*m+1] = m + half
		}
	case SeedingStandard:
		copy(order, standardOrder(width))
	default:
		panic(fmt.Sprintf("BUG: invariant: unvalidated seeding mode %q", mode))
	}

	seats := make([]seat, width)
	for slot, entrant := range order {
		if entrant < n {
			seats[slot] = seat{entrant: entrant, ok: true}
		}
	}

	return seats
}

type seat struct {
	entrant int
	ok      bool
}

func (s seat) spot() EntrantSpot {
	if !s.ok {
		return Empty()
	}
	return Entrant(s.entrant)
}

// standardOrder returns zero based seeds in bracket order, e.g. for width 8:
// 0 7 3 4 1 6 2 5.
func standardOrder(width int) []int {
	order := []int{0}
	for size := 1; size < width; size *= 2 {
		next := make([]int, 0, size*2)
		for _, s := range order {
			next = append(next, s, 2*size-1-s)
		}
		order = next
	}

	return order
}
