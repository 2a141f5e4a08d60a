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

// Package rowscan is a minimal JSON lexer purpose-built for the response
// builder's single pass over a source row. It allocates only to decode an
// object key that contains an escape sequence (and for errors); it never builds an
// intermediate tree, and it hands back scalar values as byte spans into the
// original buffer rather than decoding them, so the builder can copy them
// verbatim instead of re-serializing.
//
// Structure (object/array boundaries, and object keys, which always need
// decoding so they can be case-converted and matched against a projection)
// is consumed explicitly by the caller via EnterObject/EnterArray and the
// Next-in-X calls; the Scanner itself keeps no nesting stack. Package
// response tracks nesting through plain recursion over these calls.
package rowscan

import (
	"github.com/rowgql/pipeline/internal/unsafe"
	"github.com/rowgql/pipeline/rerr"
)

// Kind classifies the JSON value at the Scanner's current position.
type Kind uint8

// Enumeration of Kind.
const (
	Invalid Kind = iota
	Object
	Array
	String
	Number
	Bool
	Null
)

// Scanner is a cursor over a single row's raw JSON bytes. The zero value is
// not usable; construct one with New. A Scanner is not safe for concurrent
// use, matching this module's single-threaded-per-invocation model.
type Scanner struct {
	src []byte
	pos int
}

// New returns a Scanner positioned at the start of src.
func New(src []byte) *Scanner {
	return &Scanner{src: src}
}

// Pos returns the Scanner's current byte offset into src, for inclusion in
// an InvalidInput error.
func (s *Scanner) Pos() int {
	return s.pos
}

func (s *Scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

func (s *Scanner) errorf(message string) error {
	return rerr.E(rerr.Op("rowscan.Scanner"), rerr.KindInvalidInput, message, s.pos)
}

// PeekKind skips leading whitespace and reports the kind of the next value,
// without consuming anything past that whitespace.
func (s *Scanner) PeekKind() (Kind, error) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return Invalid, s.errorf("unexpected end of input")
	}

	switch b := s.src[s.pos]; {
	case b == '{':
		return Object, nil
	case b == '[':
		return Array, nil
	case b == '"':
		return String, nil
	case b == 't' || b == 'f':
		return Bool, nil
	case b == 'n':
		return Null, nil
	case b == '-' || (b >= '0' && b <= '9'):
		return Number, nil
	default:
		return Invalid, s.errorf("unexpected character")
	}
}

// expect consumes a single expected byte (after skipping whitespace) or
// returns an InvalidInput error naming what was expected.
func (s *Scanner) expect(b byte, what string) error {
	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != b {
		return s.errorf("expected " + what)
	}
	s.pos++
	return nil
}

// EnterObject consumes the '{' that starts an object. Call AtObjectEnd in a
// loop afterward to drive iteration.
func (s *Scanner) EnterObject() error {
	return s.expect('{', "'{'")
}

// AtObjectEnd reports whether the scanner is positioned at (and, if so,
// consumes) the '}' closing the current object. When it returns false, a key
// follows: call ReadKey next.
func (s *Scanner) AtObjectEnd() (bool, error) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return false, s.errorf("unexpected end of input inside object")
	}
	if s.src[s.pos] == '}' {
		s.pos++
		return true, nil
	}
	return false, nil
}

// NextInObject consumes the separator between two members: a ',' if more
// members follow, or nothing (leaving the closing '}' for the next
// AtObjectEnd call) otherwise. Call this after a value, before the next
// AtObjectEnd/ReadKey.
func (s *Scanner) NextInObject() error {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return s.errorf("unexpected end of input inside object")
	}
	switch s.src[s.pos] {
	case ',':
		s.pos++
		return nil
	case '}':
		return nil
	default:
		return s.errorf("expected ',' or '}'")
	}
}

// EnterArray consumes the '[' that starts an array. Call AtArrayEnd in a
// loop afterward to drive iteration.
func (s *Scanner) EnterArray() error {
	return s.expect('[', "'['")
}

// AtArrayEnd reports whether the scanner is positioned at (and, if so,
// consumes) the ']' closing the current array.
func (s *Scanner) AtArrayEnd() (bool, error) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return false, s.errorf("unexpected end of input inside array")
	}
	if s.src[s.pos] == ']' {
		s.pos++
		return true, nil
	}
	return false, nil
}

// NextInArray consumes the ',' separator between two elements, if present.
func (s *Scanner) NextInArray() error {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return s.errorf("unexpected end of input inside array")
	}
	switch s.src[s.pos] {
	case ',':
		s.pos++
		return nil
	case ']':
		return nil
	default:
		return s.errorf("expected ',' or ']'")
	}
}

// scanStringSpan scans a JSON string literal (the Scanner must be positioned
// at the opening '"') and returns its span [start, end), including both
// quotes. hasEscape reports whether the literal contains a backslash, so the
// caller can choose the zero-copy path when it doesn't.
func (s *Scanner) scanStringSpan() (start, end int, hasEscape bool, err error) {
	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		return 0, 0, false, s.errorf("expected string")
	}
	start = s.pos
	s.pos++

	for {
		if s.pos >= len(s.src) {
			return 0, 0, false, s.errorf("unterminated string")
		}
		b := s.src[s.pos]
		switch b {
		case '"':
			s.pos++
			return start, s.pos, hasEscape, nil
		case '\\':
			hasEscape = true
			s.pos++
			if s.pos >= len(s.src) {
				return 0, 0, false, s.errorf("unterminated escape sequence")
			}
			// Skip the escaped character; \uXXXX additionally skips 4 hex
			// digits. Correctness of the digits themselves is validated at
			// decode time (ReadKey/decodeString), not here.
			if s.src[s.pos] == 'u' {
				s.pos += 5
			} else {
				s.pos++
			}
		default:
			s.pos++
		}
	}
}

// ReadKey reads an object member's key (the Scanner must be positioned at
// its opening quote) and the ':' that follows it, and returns the key
// decoded as a Go string. When the raw key bytes contain no backslash, the
// string is a zero-copy view over src (see internal/unsafe.String); src must
// not be mutated while any such string is in use, which holds here since a
// response build owns its input buffer for the duration of one invocation.
func (s *Scanner) ReadKey() (string, error) {
	start, end, hasEscape, err := s.scanStringSpan()
	if err != nil {
		return "", err
	}
	if err := s.expect(':', "':' after object key"); err != nil {
		return "", err
	}

	raw := s.src[start+1 : end-1]
	if !hasEscape {
		return unsafe.String(raw), nil
	}
	return decodeEscapedString(raw)
}

// ReadScalarSpan scans the scalar value (string, number, true, false, or
// null) at the Scanner's current position and returns its exact byte span,
// suitable for copying into the output verbatim: nothing in §4 rewrites a
// scalar's value, only object keys.
func (s *Scanner) ReadScalarSpan() (start, end int, err error) {
	kind, err := s.PeekKind()
	if err != nil {
		return 0, 0, err
	}

	switch kind {
	case String:
		start, end, _, err = s.scanStringSpan()
		return start, end, err

	case Number:
		start = s.pos
		s.pos++ // the leading '-' or digit already classified by PeekKind
		for s.pos < len(s.src) {
			switch s.src[s.pos] {
			case '+', '-', '.', 'e', 'E', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
				s.pos++
			default:
				return start, s.pos, nil
			}
		}
		return start, s.pos, nil

	case Bool:
		return s.scanLiteral("true", "false")

	case Null:
		return s.scanLiteral("null")

	default:
		return 0, 0, s.errorf("expected a scalar value")
	}
}

// scanLiteral matches one of the given bareword literals ("true", "false",
// "null") at the current position.
func (s *Scanner) scanLiteral(literals ...string) (start, end int, err error) {
	start = s.pos
	for _, lit := range literals {
		if s.pos+len(lit) <= len(s.src) && string(s.src[s.pos:s.pos+len(lit)]) == lit {
			s.pos += len(lit)
			return start, s.pos, nil
		}
	}
	return 0, 0, s.errorf("invalid literal")
}

// SkipValue advances past the value at the current position, regardless of
// its kind, without returning anything — used when a projection decides a
// field should not be emitted at all.
func (s *Scanner) SkipValue() error {
	kind, err := s.PeekKind()
	if err != nil {
		return err
	}

	switch kind {
	case Object:
		if err := s.EnterObject(); err != nil {
			return err
		}
		for {
			done, err := s.AtObjectEnd()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if _, err := s.ReadKey(); err != nil {
				return err
			}
			if err := s.SkipValue(); err != nil {
				return err
			}
			if err := s.NextInObject(); err != nil {
				return err
			}
		}

	case Array:
		if err := s.EnterArray(); err != nil {
			return err
		}
		for {
			done, err := s.AtArrayEnd()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if err := s.SkipValue(); err != nil {
				return err
			}
			if err := s.NextInArray(); err != nil {
				return err
			}
		}

	default:
		_, _, err := s.ReadScalarSpan()
		return err
	}
}

// Bytes returns the raw source bytes backing the Scanner, for slicing a span
// returned by ReadScalarSpan.
func (s *Scanner) Bytes() []byte {
	return s.src
}
