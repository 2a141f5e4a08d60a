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

// Package response is the Response Builder: it turns row JSON fragments plus
// a field name, an optional GraphQL type name, an optional Projection Plan,
// and a Schema Registry into a single GraphQL-shaped response buffer, in one
// streaming pass over the source bytes (§4.3).
package response

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/rowgql/pipeline/diagnostics"
	"github.com/rowgql/pipeline/schema"
)

// Options configures a single Response Builder call. The zero value is
// usable: key renaming defaults on (the common GraphQL case), diagnostics
// are discarded, and tracing falls back to a no-op tracer — a caller that
// just wants bytes out can pass Options{} and a Registry.
type Options struct {
	// Registry resolves nested field positions to FieldTypeDescriptors for
	// typename injection and projection-adjacent recursion (§4.2). A nil
	// Registry means no schema is consulted anywhere below the root: every
	// object is still renamed/projected, but nothing gets __typename beyond
	// what the root type parameter (if any) injects at the very top.
	Registry *schema.Registry

	// DisableKeyRename turns off the snake_case -> camelCase rewrite (§4.1).
	// The zero value (false) performs renaming, matching every worked
	// example in §8.
	DisableKeyRename bool

	// DiagnosticSink receives schema-miss and mutation-shape-error
	// notifications (§4.3.4, §7). A nil sink is treated as
	// diagnostics.Noop.
	DiagnosticSink diagnostics.Sink

	// Tracer starts the span wrapping each Build* call. A nil Tracer falls
	// back to the global OpenTelemetry tracer (a no-op absent an SDK).
	Tracer trace.Tracer
}

func (o Options) diagSink() diagnostics.Sink {
	if o.DiagnosticSink == nil {
		return diagnostics.Noop
	}
	return o.DiagnosticSink
}

func (o Options) renameKeys() bool {
	return !o.DisableKeyRename
}
