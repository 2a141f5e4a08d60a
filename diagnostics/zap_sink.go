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

package diagnostics

import "go.uber.org/zap"

// zapSink logs each notification once, at Warn level, with structured
// fields instead of a formatted string — this package's only consumer of
// its own notifications is an operator's log aggregator, not a human
// reading raw text.
type zapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps logger into a Sink. A nil logger is rejected by panicking
// at construction time rather than on the first notification, since this is
// always a startup-time wiring mistake.
func NewZapSink(logger *zap.Logger) Sink {
	if logger == nil {
		panic("diagnostics.NewZapSink: nil logger")
	}
	return zapSink{logger: logger}
}

// SchemaMiss implements Sink.
func (s zapSink) SchemaMiss(typeName, fieldName string) {
	s.logger.Warn("schema_miss",
		zap.String("type", typeName),
		zap.String("field", fieldName),
	)
}

// MutationShapeError implements Sink.
func (s zapSink) MutationShapeError(reason string) {
	s.logger.Warn("mutation_shape_error",
		zap.String("reason", reason),
	)
}
