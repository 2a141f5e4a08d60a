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

// Package diagnostics is the optional observability side-channel §4.3.4 and
// §7 call for: schema misses and mutation-shape errors are never fatal, but
// a caller that wants to notice a misconfigured registry or a malformed
// mutation row in production can supply a Sink to hear about them.
//
// A nil Sink is never dialed directly by package response; callers that pass
// no Sink get Noop, which does nothing and costs nothing.
package diagnostics

// Sink receives notifications for the two non-fatal conditions the response
// builder can hit: a schema position declaring a type the Registry doesn't
// know about, and a mutation row whose shape doesn't match what
// BuildMutationResponse expects.
type Sink interface {
	// SchemaMiss is called when the root position of a list or single
	// response is declared as typeName but the Registry has no fields
	// registered for it (fieldName is then ""). Nested positions never
	// trigger it. The root is still rewritten and still gets its __typename
	// injected (the caller asserted the type directly); the notification
	// exists purely so a misconfigured registry can be noticed.
	SchemaMiss(typeName, fieldName string)

	// MutationShapeError is called when a mutation row fails the required
	// "status"/"entity_type" check (§4.3.3), with a human-readable reason.
	// The caller still gets back a valid GraphQL-shaped error response; this
	// is only a side-channel heads up.
	MutationShapeError(reason string)
}

type noopSink struct{}

func (noopSink) SchemaMiss(typeName, fieldName string) {}
func (noopSink) MutationShapeError(reason string)       {}

// Noop discards every notification. It is the default used by package
// response when Options.DiagnosticSink is nil.
var Noop Sink = noopSink{}
