/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown bracket format")

type Format int

const (
	SingleElimination Format = iota
	DoubleElimination
)

const (
	OptionSeeding         = "seeding"
	OptionThirdPlaceMatch = "third_place_match"
	OptionBracketReset    = "bracket_reset"
)

const (
	// SeedingSequential fills round 0 slots in registry order.
	SeedingSequential = "sequential"
	// SeedingStandard pairs 1 vs N, 2 vs N-1, ... in classic bracket order so
	// that the top seeds receive the byes and meet as late as possible.
	SeedingStandard = "standard"
	// SeedingSplit pairs entrant i with entrant i+W/2.
	SeedingSplit = "split"
)

var seedingChoices = []string{SeedingSequential, SeedingStandard, SeedingSplit}

func (f Format) String() string {
	switch f {
	case SingleElimination:
		return "single_elimination"
	case DoubleElimination:
		return "double_elimination"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func (f Format) valid() bool {
	return f == SingleElimination || f == DoubleElimination
}

// ParseFormat accepts the String() form as well as the short forms "single",
// "double", "se" and "de".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single_elimination", "single", "se":
		return SingleElimination, nil
	case "double_elimination", "double", "de":
		return DoubleElimination, nil
	}

	return 0, fmt.Errorf("bracket: %q: %w", s, ErrUnknownFormat)
}

// Formats lists every supported format.
func Formats() []Format {
	return []Format{SingleElimination, DoubleElimination}
}

// SchemaFor returns the options declared by a format.
func SchemaFor(f Format) (Schema, error) {
	seeding := Option{
		Key:     OptionSeeding,
		Name:    "Seeding",
		Value:   StringValue(SeedingSequential),
		Choices: seedingChoices,
	}

	switch f {
	case SingleElimination:
		return NewSchema(seeding, Option{
			Key:   OptionThirdPlaceMatch,
			Name:  "Third Place Match",
			Value: BoolValue(false),
		}), nil
	case DoubleElimination:
		return NewSchema(seeding, Option{
			Key:   OptionBracketReset,
			Name:  "Bracket Reset",
			Value: BoolValue(true),
		}), nil
	}

	return Schema{}, fmt.Errorf("bracket: %v: %w", f, ErrUnknownFormat)
}
