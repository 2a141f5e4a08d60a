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

package rowscan

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rowgql/pipeline/rerr"
)

// decodeEscapedString decodes the content between the quotes of a JSON
// string literal known to contain at least one backslash. This only runs
// for object keys with an escape in them, which in practice is rare:
// ordinary identifier-like keys never need it.
func decodeEscapedString(raw []byte) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			r, size := utf8.DecodeRune(raw[i:])
			b.WriteRune(r)
			i += size
			continue
		}

		i++
		if i >= len(raw) {
			return "", rerr.E(rerr.Op("rowscan.decodeEscapedString"), rerr.KindInvalidInput, "unterminated escape sequence")
		}

		switch raw[i] {
		case '"':
			b.WriteByte('"')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		case '/':
			b.WriteByte('/')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'u':
			r, next, err := decodeUnicodeEscape(raw, i+1)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i = next
		default:
			return "", rerr.E(rerr.Op("rowscan.decodeEscapedString"), rerr.KindInvalidInput, "invalid escape sequence")
		}
	}

	return b.String(), nil
}

// decodeUnicodeEscape decodes a \uXXXX escape (and its surrogate pair
// partner, if any) starting at raw[pos:pos+4].
func decodeUnicodeEscape(raw []byte, pos int) (rune, int, error) {
	r, err := hex4(raw, pos)
	if err != nil {
		return 0, 0, err
	}
	pos += 4

	if utf16.IsSurrogate(rune(r)) && pos+6 <= len(raw) && raw[pos] == '\\' && raw[pos+1] == 'u' {
		r2, err := hex4(raw, pos+2)
		if err == nil {
			if combined := utf16.DecodeRune(rune(r), rune(r2)); combined != utf8.RuneError {
				return combined, pos + 6, nil
			}
		}
	}

	return rune(r), pos, nil
}

func hex4(raw []byte, pos int) (uint32, error) {
	if pos+4 > len(raw) {
		return 0, rerr.E(rerr.Op("rowscan.decodeEscapedString"), rerr.KindInvalidInput, "truncated \\u escape")
	}
	v, err := strconv.ParseUint(string(raw[pos:pos+4]), 16, 32)
	if err != nil {
		return 0, rerr.E(rerr.Op("rowscan.decodeEscapedString"), rerr.KindInvalidInput, "invalid \\u escape")
	}
	return uint32(v), nil
}
