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

package casing

// TransformKeys walks an already-decoded JSON-shaped value (the output of
// encoding/json.Unmarshal into interface{}: map[string]interface{},
// []interface{}, or a scalar) and rewrites every object key via ToCamelCase.
// Values themselves are never altered.
//
// When recursive is false, only the top-level map's keys are rewritten (its
// values are copied through as-is, including nested maps/slices). When
// recursive is true, every nested object's keys are rewritten too.
//
// This is a convenience for callers operating on a value that has already
// been fully decoded into Go types (for example, admin/config endpoints that
// don't go through the streaming row pipeline in package response). The
// streaming pipeline itself never materializes a value like this — it
// rewrites keys directly on the source bytes.
func TransformKeys(v interface{}, recursive bool) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}

	out := make(map[string]interface{}, len(m))
	for k, val := range m {
		if recursive {
			val = transformValue(val)
		}
		out[ToCamelCase(k)] = val
	}
	return out
}

func transformValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return TransformKeys(val, true)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = transformValue(elem)
		}
		return out
	default:
		return v
	}
}
