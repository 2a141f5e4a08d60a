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

package response

import (
	"bytes"
	"context"

	"github.com/rowgql/pipeline/jsonwriter"
	"github.com/rowgql/pipeline/obs"
	"github.com/rowgql/pipeline/projection"
	"github.com/rowgql/pipeline/rerr"
	"github.com/rowgql/pipeline/rowscan"
	"github.com/rowgql/pipeline/schema"
)

// ContentType is the literal content type every buffer returned from this
// package carries, out of band, to the HTTP transport (§6).
const ContentType = "application/json"

// envelope opens `{"data":{"<field>":`, lets fn write the field's value, and
// closes `}}`. Every Build* function in this file is this shape plus a
// different fn.
func envelope(field string, fn func(*jsonwriter.Stream) error) ([]byte, error) {
	var buf bytes.Buffer
	stream := jsonwriter.NewStream(&buf)

	stream.WriteObjectStart()
	stream.WriteObjectField("data")
	stream.WriteObjectStart()
	stream.WriteObjectField(field)

	if err := fn(stream); err != nil {
		return nil, err
	}

	stream.WriteObjectEnd()
	stream.WriteObjectEnd()

	if err := stream.Flush(); err != nil {
		return nil, rerr.E(rerr.Op("response.envelope"), rerr.KindInternal, "flushing response buffer", err)
	}
	if err := stream.Error(); err != nil {
		return nil, rerr.E(rerr.Op("response.envelope"), rerr.KindInternal, "writing response buffer", err)
	}
	return buf.Bytes(), nil
}

// BuildEmptyArrayResponse returns `{"data":{"<field>":[]}}`. Used directly
// by callers and as the delegate target when a list response has no rows
// (§4.3.4: "missing or empty rows for a list response: delegate to
// build_empty_array_response").
func BuildEmptyArrayResponse(field string) []byte {
	b, _ := envelope(field, func(stream *jsonwriter.Stream) error {
		stream.WriteEmptyArray()
		return nil
	})
	return b
}

// BuildNullResponse returns `{"data":{"<field>":null}}`.
func BuildNullResponse(field string) []byte {
	b, _ := envelope(field, func(stream *jsonwriter.Stream) error {
		stream.WriteNil()
		return nil
	})
	return b
}

// BuildListResponse wraps rows into `{"data":{"<field>":[...]}}`, rewriting
// each row per typeName and opts, with no projection (every key is
// emitted). An empty rows list delegates to BuildEmptyArrayResponse.
func BuildListResponse(ctx context.Context, rows []string, field string, typeName schema.Type, opts Options) ([]byte, error) {
	return BuildListResponseWithProjection(ctx, rows, field, typeName, nil, opts)
}

// BuildListResponseWithProjection is BuildListResponse with a Projection
// Plan applied at every row (§4.3.2: the same trie node governs every
// element of the list).
func BuildListResponseWithProjection(ctx context.Context, rows []string, field string, typeName schema.Type, plan *projection.Trie, opts Options) ([]byte, error) {
	_, span := obs.StartSpan(ctx, opts.Tracer, "rowgql.response.build_list")
	defer span.End()

	if len(rows) == 0 {
		return BuildEmptyArrayResponse(field), nil
	}

	return envelope(field, func(stream *jsonwriter.Stream) error {
		stream.WriteArrayStart()
		for i, row := range rows {
			if i > 0 {
				stream.WriteMore()
			}
			sc := rowscan.New([]byte(row))
			if err := rewriteRoot(stream, sc, typeName, plan, opts); err != nil {
				return rerr.E(rerr.Op("response.BuildListResponse"), rerr.KindInvalidInput,
					"malformed row JSON", sc.Pos(), err)
			}
		}
		stream.WriteArrayEnd()
		return nil
	})
}

// BuildSingleResponse wraps row into `{"data":{"<field>":<row>}}`, rewriting
// it per typeName and opts, with no projection.
func BuildSingleResponse(ctx context.Context, row string, field string, typeName schema.Type, opts Options) ([]byte, error) {
	return BuildSingleResponseWithProjection(ctx, row, field, typeName, nil, opts)
}

// BuildSingleResponseWithProjection is BuildSingleResponse with a Projection
// Plan applied at the row's root.
func BuildSingleResponseWithProjection(ctx context.Context, row string, field string, typeName schema.Type, plan *projection.Trie, opts Options) ([]byte, error) {
	_, span := obs.StartSpan(ctx, opts.Tracer, "rowgql.response.build_single")
	defer span.End()

	return envelope(field, func(stream *jsonwriter.Stream) error {
		sc := rowscan.New([]byte(row))
		if err := rewriteRoot(stream, sc, typeName, plan, opts); err != nil {
			return rerr.E(rerr.Op("response.BuildSingleResponse"), rerr.KindInvalidInput,
				"malformed row JSON", sc.Pos(), err)
		}
		return nil
	})
}
