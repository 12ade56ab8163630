/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEntrantCount    = errors.New("invalid number of entrants")
	ErrInvalidOption          = errors.New("invalid option")
	ErrIndexOutOfRange        = errors.New("match index out of range")
	ErrUnreadyMatch           = errors.New("match is not ready")
	ErrInconsistentScores     = errors.New("inconsistent scores")
	ErrEntrantNotFound        = errors.New("entrant not found")
	ErrInvalidNumberOfMatches = errors.New("invalid number of matches")
	ErrInvalidEntrant         = errors.New("invalid entrant")
)

// MatchCountError is returned by Resume when the supplied matches do not fit
// the topology generated for the entrants and options.
type MatchCountError struct {
	Expected int
	Found    int
}

func (e *MatchCountError) Error() string {
	return fmt.Sprintf("%v: expected %d, found %d", ErrInvalidNumberOfMatches,
		e.Expected, e.Found)
}

func (e *MatchCountError) Unwrap() error { return ErrInvalidNumberOfMatches }

// EntrantIndexError is returned by Resume when a match references an entrant
// outside of the registry.
type EntrantIndexError struct {
	Match  int
	Index  int
	Length int
}

func (e *EntrantIndexError) Error() string {
	return fmt.Sprintf("%v: match %d references entrant %d but only %d exist",
		ErrInvalidEntrant, e.Match, e.Index, e.Length)
}

func (e *EntrantIndexError) Unwrap() error { return ErrInvalidEntrant }
