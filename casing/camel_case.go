/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Package casing converts row JSON keys from snake_case to camelCase, and
// walks an already-decoded JSON-shaped value to produce a copy with its keys
// rewritten.
package casing

import (
	"strings"
)

func toCamelUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// ToCamelCase rewrites a snake_case identifier into camelCase. The rules are
// total (no error case):
//
//   - the empty string maps to itself;
//   - leading underscores are preserved verbatim, then the remainder is
//     converted;
//   - runs of one or more underscores act as segment separators and are
//     consumed entirely;
//   - the first produced segment keeps its first character's original case;
//     every later segment's first character is upper-cased;
//   - trailing underscores produce no trailing character;
//   - digits are ordinary characters — there is no word break at a digit
//     boundary;
//   - an input with no underscores is returned unchanged.
func ToCamelCase(s string) string {
	if s == "" {
		return s
	}

	i := 0
	for i < len(s) && s[i] == '_' {
		i++
	}
	if i == len(s) {
		// All underscores; nothing to convert.
		return s
	}
	if i == 0 && strings.IndexByte(s, '_') < 0 {
		// No underscores anywhere: already camelCase (or a single word).
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	// Leading underscores, preserved verbatim.
	b.WriteString(s[:i])

	// First produced segment: keep the original case of its first character.
	b.WriteByte(s[i])
	i++

	atSegmentStart := false
	for ; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			atSegmentStart = true
			continue
		}
		if atSegmentStart {
			b.WriteByte(toCamelUpper(c))
			atSegmentStart = false
		} else {
			b.WriteByte(c)
		}
	}

	return b.String()
}
