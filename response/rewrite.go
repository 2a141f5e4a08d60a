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
	"github.com/rowgql/pipeline/casing"
	"github.com/rowgql/pipeline/internal/unsafe"
	"github.com/rowgql/pipeline/jsonwriter"
	"github.com/rowgql/pipeline/projection"
	"github.com/rowgql/pipeline/rowscan"
	"github.com/rowgql/pipeline/schema"
)

// typenameKey is the meta-field injected at every schema-declared object
// position (§4.2).
const typenameKey = "__typename"

// rewriteRoot streams one complete source JSON value at sc's current
// position into stream, treating the root position as typeName (if
// non-empty). node is the projection trie rooted at this value, or nil for
// "no projection, emit everything."
//
// typeName is asserted by the caller, not looked up: §4.2's "the root
// position is declared as T" injects __typename unconditionally, even when
// the registry never registered T's own fields — that only affects whether
// recursion into T's fields finds further descriptors, not whether the root
// itself gets a __typename.
func rewriteRoot(stream *jsonwriter.Stream, sc *rowscan.Scanner, typeName schema.Type, node *projection.Trie, opts Options) error {
	var desc schema.FieldTypeDescriptor
	if typeName != "" {
		desc = schema.ObjectDescriptor{TypeName: typeName}
		if opts.Registry == nil || !opts.Registry.IsKnownType(typeName) {
			opts.diagSink().SchemaMiss(string(typeName), "")
		}
	}
	return rewriteValue(stream, sc, desc, node, opts)
}

// rewriteValue streams the single JSON value at sc's current position.
// desc carries the schema's opinion of what's here (nil if none); node is
// the projection trie at this position (nil meaning unrestricted).
func rewriteValue(stream *jsonwriter.Stream, sc *rowscan.Scanner, desc schema.FieldTypeDescriptor, node *projection.Trie, opts Options) error {
	kind, err := sc.PeekKind()
	if err != nil {
		return err
	}

	// A JSON null short-circuits regardless of what the schema declared —
	// including a Nullable wrapper, which exists precisely to describe this
	// case (§4.2's Nullable rule).
	if kind == rowscan.Null {
		if _, _, err := sc.ReadScalarSpan(); err != nil {
			return err
		}
		stream.WriteNil()
		return nil
	}

	// Nullable is a transparent wrapper once the value is known non-null:
	// unwrap to whatever it wraps and proceed as if that were the declared
	// descriptor.
	for {
		nullable, ok := desc.(schema.NullableDescriptor)
		if !ok {
			break
		}
		desc = nullable.Of
	}

	switch kind {
	case rowscan.Object:
		return rewriteObject(stream, sc, desc, node, opts)
	case rowscan.Array:
		return rewriteArray(stream, sc, desc, node, opts)
	default:
		return copyScalar(stream, sc)
	}
}

// copyScalar copies the scalar value at sc's current position into stream
// byte for byte — §4.3's guarantee that numbers, booleans, and strings are
// never reformatted or reparsed.
func copyScalar(stream *jsonwriter.Stream, sc *rowscan.Scanner) error {
	start, end, err := sc.ReadScalarSpan()
	if err != nil {
		return err
	}
	stream.WriteRawString(unsafe.String(sc.Bytes()[start:end]))
	return nil
}

// rewriteObject streams a JSON object: __typename first (if desc names an
// Object type), then each source member in order, each subject to node's
// projection decision (§4.3.1, §4.3's key-order guarantee).
func rewriteObject(stream *jsonwriter.Stream, sc *rowscan.Scanner, desc schema.FieldTypeDescriptor, node *projection.Trie, opts Options) error {
	objType, injectTypename := desc.(schema.ObjectDescriptor)

	if err := sc.EnterObject(); err != nil {
		return err
	}
	stream.WriteObjectStart()

	wroteAny := false
	if injectTypename {
		stream.WriteObjectField(typenameKey)
		stream.WriteString(string(objType.TypeName))
		wroteAny = true
	}

	for {
		done, err := sc.AtObjectEnd()
		if err != nil {
			return err
		}
		if done {
			break
		}

		key, err := sc.ReadKey()
		if err != nil {
			return err
		}

		// A source __typename is never re-emitted once the schema injects its
		// own: the injected value above already took that key, and §4.2 says
		// the schema-derived value replaces it, not duplicates it.
		if injectTypename && key == typenameKey {
			if err := sc.SkipValue(); err != nil {
				return err
			}
			if err := sc.NextInObject(); err != nil {
				return err
			}
			continue
		}

		emit, nextNode := projectionDecision(node, key)
		if !emit {
			if err := sc.SkipValue(); err != nil {
				return err
			}
		} else {
			outKey := key
			if opts.renameKeys() {
				outKey = casing.ToCamelCase(key)
			}

			if wroteAny {
				stream.WriteMore()
			}
			stream.WriteObjectField(outKey)

			childDesc := childDescriptor(objType, injectTypename, key, opts.Registry)
			if err := rewriteValue(stream, sc, childDesc, nextNode, opts); err != nil {
				return err
			}
			wroteAny = true
		}

		if err := sc.NextInObject(); err != nil {
			return err
		}
	}

	stream.WriteObjectEnd()
	return nil
}

// rewriteArray streams a JSON array, applying the list-element descriptor
// (if desc is a List) and the *same* projection node (§4.3.2: a Projection
// Plan describes structure, not cardinality) to every element.
func rewriteArray(stream *jsonwriter.Stream, sc *rowscan.Scanner, desc schema.FieldTypeDescriptor, node *projection.Trie, opts Options) error {
	var elemDesc schema.FieldTypeDescriptor
	if list, ok := desc.(schema.ListDescriptor); ok {
		elemDesc = list.Of
	}

	if err := sc.EnterArray(); err != nil {
		return err
	}
	stream.WriteArrayStart()

	first := true
	for {
		done, err := sc.AtArrayEnd()
		if err != nil {
			return err
		}
		if done {
			break
		}
		if !first {
			stream.WriteMore()
		}
		first = false

		if err := rewriteValue(stream, sc, elemDesc, node, opts); err != nil {
			return err
		}

		if err := sc.NextInArray(); err != nil {
			return err
		}
	}

	stream.WriteArrayEnd()
	return nil
}

// projectionDecision applies §4.4's matching rule at one object member.
// A nil node means no projection was ever given — emit. A node with no
// children is a satisfied leaf request ("emit the whole subtree here") —
// emit, with nothing further restricting what's below. A node with children
// only emits a key that's listed, and continues to restrict below it with
// that key's own child node.
func projectionDecision(node *projection.Trie, key string) (emit bool, nextNode *projection.Trie) {
	if node == nil || !node.HasChildren() {
		return true, nil
	}
	child, ok := node.Child(key)
	if !ok {
		return false, nil
	}
	return true, child
}

// childDescriptor resolves the schema's opinion of the value at key,
// given that the enclosing object is objType (only meaningful when
// haveType is true: an object with no declared type has no field map to
// consult, so every child is unconstrained). A field absent from the
// registry (or no registry at all) degrades to nil — tolerated, not an
// error (§4.2: "unknown fields encountered at runtime are tolerated").
func childDescriptor(objType schema.ObjectDescriptor, haveType bool, key string, reg *schema.Registry) schema.FieldTypeDescriptor {
	if !haveType || reg == nil {
		return nil
	}
	d, ok := reg.Lookup(objType.TypeName, key)
	if !ok {
		return nil
	}
	return d
}
