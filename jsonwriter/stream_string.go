/**
 * Copyright (c) 2019, The Artemis Authors.
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

package jsonwriter

import "github.com/rowgql/pipeline/internal/unsafe"

const hexDigits = "0123456789abcdef"

// safeASCII reports whether b can be copied into a JSON string literal
// byte-for-byte with no escaping: every byte from 0x20 up (printable ASCII,
// DEL, and any byte >= 0x80) other than '"' and '\'.
var safeASCII = [256]bool{}

func init() {
	for b := 0x20; b <= 0xff; b++ {
		safeASCII[b] = true
	}
	safeASCII['"'] = false
	safeASCII['\\'] = false
}

// WriteString encodes s as a JSON string literal, including the surrounding
// quotes. Runs of bytes that need no escaping are copied through with a
// single write; only ", \ and ASCII control characters break the run. Bytes
// >= 0x80, including invalid UTF-8, are copied through unchanged.
func (stream *Stream) WriteString(s string) {
	stream.writeOneByte('"')

	start := 0
	for i := 0; i < len(s); i++ {
		b := s[i]
		if safeASCII[b] {
			continue
		}

		if start < i {
			stream.write(unsafe.Bytes(s[start:i]))
		}

		switch b {
		case '"':
			stream.writeTwoBytes('\\', '"')
		case '\\':
			stream.writeTwoBytes('\\', '\\')
		case '\n':
			stream.writeTwoBytes('\\', 'n')
		case '\r':
			stream.writeTwoBytes('\\', 'r')
		case '\t':
			stream.writeTwoBytes('\\', 't')
		default:
			// The remaining control characters get a \u00XX escape. Every
			// byte >= 0x20 other than '"' and '\' is marked safe above and
			// never reaches this switch.
			if b < 0x20 {
				stream.write([]byte{'\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xf]})
			} else {
				stream.writeOneByte(b)
			}
		}

		start = i + 1
	}

	if start < len(s) {
		stream.write(unsafe.Bytes(s[start:]))
	}

	stream.writeOneByte('"')
}
