/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"testing"
	"time"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"BROWN, MICHAEL J", "Michael J Brown"},
		{"michael   brown", "Michael Brown"},
		{"Andrew Hoy", "Andrew Hoy"},
		{"JEAN-LUC O'NEIL", "Jean-Luc O'Neil"},
		{"McDonald, Ann", "Ann McDonald"},
		{"  ", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := NormalizeName(c.in); got != c.want {
				t.Errorf("NormalizeName(%q) = %q; want %q", c.in, got, c.want)
			}
		})
	}
}

func TestParseDateOrZero(t *testing.T) {
	for _, in := range []string{"", "null"} {
		d, err := ParseDateOrZero(in)
		if err != nil || !d.IsZero() {
			t.Errorf("ParseDateOrZero(%q) = %v, %v; want zero", in, d, err)
		}
	}

	d, err := ParseDateOrZero("2025-06-14T10:00:00")
	if err != nil {
		t.Fatalf("ParseDateOrZero returned error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.June || d.Day() != 14 {
		t.Errorf("unexpected date %v", d)
	}
}
