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

// Package rerr defines the error taxonomy returned by the response-building
// core: InvalidInput for malformed source JSON or bad input shapes, and
// Internal for conditions that should not occur. The core never returns any
// other kind of error to its caller.
package rerr

import (
	"fmt"
	"strings"

	"github.com/json-iterator/go"
)

// Op describes an operation, usually the package and method, such as
// "response.BuildListResponse".
type Op string

// Kind classifies an Error.
type Kind uint8

// Enumeration of Kind. Only InvalidInput and Internal are ever returned by the
// core; Other exists so a zero-value Error prints sensibly.
const (
	KindOther Kind = iota
	KindInvalidInput
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindInternal:
		return "internal error"
	}
	return "error"
}

// Error is the error value returned by the exported functions of packages
// response, schema and rowscan. It is designed to be built by wrapping an underlying error, the way
// upspin.io/errors does: https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html.
type Error struct {
	// Op is the operation that failed.
	Op Op

	// Kind classifies the failure.
	Kind Kind

	// Message is a human-readable description of the failure.
	Message string

	// ByteOffset is the position within the source JSON where the failure was
	// detected, if applicable (§7: "a human-readable message and, where
	// possible, a byte offset").
	ByteOffset *int

	// Err is the underlying error, if any.
	Err error
}

var _ error = (*Error)(nil)

// E builds an *Error from its arguments. Recognized argument types are Op,
// Kind, int (interpreted as a ByteOffset), string (the Message) and error
// (the wrapped Err). Unrecognized argument types panic, matching the
// programmer-error nature of a bad call site.
func E(args ...interface{}) *Error {
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Kind:
			e.Kind = arg
		case string:
			e.Message = arg
		case int:
			offset := arg
			e.ByteOffset = &offset
		case error:
			e.Err = arg
		default:
			panic(fmt.Sprintf("rerr.E: bad call with argument of type %T", arg))
		}
	}

	if prev, ok := e.Err.(*Error); ok {
		if e.Kind == KindOther {
			e.Kind = prev.Kind
		}
		if e.ByteOffset == nil {
			e.ByteOffset = prev.ByteOffset
		}
	}

	return e
}

// Errorf is a convenience wrapper that formats Message with fmt.Sprintf.
func Errorf(op Op, kind Kind, format string, args ...interface{}) *Error {
	return E(op, kind, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	e.printTo(&b, nil)
	return b.String()
}

func (e *Error) printTo(b *strings.Builder, next *Error) {
	start := b.Len()
	pad := func(sep string) {
		if b.Len() != start {
			b.WriteString(sep)
		}
	}

	if len(e.Op) > 0 {
		b.WriteString(string(e.Op))
	}

	if e.Kind != KindOther && (next == nil || next.Kind != e.Kind) {
		pad(": ")
		b.WriteString(e.Kind.String())
	}

	if len(e.Message) > 0 {
		pad(": ")
		b.WriteString(e.Message)
	}

	if e.ByteOffset != nil && (next == nil || next.ByteOffset == nil || *next.ByteOffset != *e.ByteOffset) {
		pad(" ")
		fmt.Fprintf(b, "(at byte offset %d)", *e.ByteOffset)
	}

	if e.Err != nil {
		if prev, ok := e.Err.(*Error); ok {
			pad(":\n\t")
			prev.printTo(b, e)
			return
		}
		pad(": ")
		b.WriteString(e.Err.Error())
	}
}

// Unwrap allows errors.Is/errors.As to see through to the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf walks err's Unwrap chain and returns the Kind of the first *Error it
// finds, or KindOther if none is found. Useful for a caller translating a
// core failure to an HTTP status per §7 ("a caller receiving an input error
// should surface HTTP 400 or 500").
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return KindOther
}

// MarshalJSON implements json.Marshaler so a caller that wants to log or
// forward a core failure can render it with the same encoder the rest of
// this module's auxiliary (non-hot-path) values use.
func (e *Error) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(struct {
		Op         Op     `json:"op,omitempty"`
		Kind       string `json:"kind"`
		Message    string `json:"message"`
		ByteOffset *int   `json:"byteOffset,omitempty"`
	}{
		Op:         e.Op,
		Kind:       e.Kind.String(),
		Message:    e.Message,
		ByteOffset: e.ByteOffset,
	})
}
