/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// NormalizeName turns "BROWN, MICHAEL J" or "michael  brown" into
// "Michael J Brown". Names already in mixed case keep their capitalization.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if last, first, ok := strings.Cut(name, ","); ok {
		name = strings.TrimSpace(first) + " " + strings.TrimSpace(last)
	}
	words := strings.Fields(name)

	for i, w := range words {
		if strings.ToUpper(w) != w && strings.ToLower(w) != w {
			continue
		}
		runes := []rune(strings.ToLower(w))
		capNext := true
		for j, r := range runes {
			if capNext && unicode.IsLetter(r) {
				runes[j] = unicode.ToUpper(r)
				capNext = false
			} else if r == '-' || r == '\'' {
				capNext = true
			}
		}
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}
