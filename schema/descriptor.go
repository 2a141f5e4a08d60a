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

// Package schema holds the process-wide, read-only map from GraphQL type
// names to their field descriptors, and answers the typename-injection
// question the Response Builder asks at every object position: "at this
// position, which type (if any) does the schema say is here, and is it a
// list?"
package schema

// Type is a GraphQL type name, such as "User" or "Post".
type Type string

// FieldTypeDescriptor is a tagged variant describing what the schema says
// about a field's position: Scalar (opaque leaf), Object (recurse into a
// single nested object of the named type), List (apply to every element), or
// Nullable (transparent wrapper; null short-circuits at runtime, otherwise
// unwrap and apply).
//
// This mirrors the closed-sum-type idiom of graphql.Type in the teacher's own
// type system (Object/List/NonNull/Scalar, each tagged with an unexported
// marker method) without carrying over that system's field-resolution and
// schema-construction machinery, which belongs to the schema-building layer
// this package's caller owns, not to this registry.
type FieldTypeDescriptor interface {
	isFieldTypeDescriptor()

	// String renders the descriptor back into its compact notation, mostly
	// useful for diagnostics.
	String() string
}

// ScalarDescriptor is an opaque leaf value: no typename injection, no
// recursion.
type ScalarDescriptor struct{}

func (ScalarDescriptor) isFieldTypeDescriptor() {}

// String implements FieldTypeDescriptor.
func (ScalarDescriptor) String() string { return "Scalar" }

// Scalar is the single shared ScalarDescriptor value.
var Scalar FieldTypeDescriptor = ScalarDescriptor{}

// ObjectDescriptor says a position holds a single nested object of the named
// type; the Response Builder injects that type's name as __typename there.
type ObjectDescriptor struct {
	TypeName Type
}

func (ObjectDescriptor) isFieldTypeDescriptor() {}

// String implements FieldTypeDescriptor.
func (d ObjectDescriptor) String() string { return string(d.TypeName) }

// ListDescriptor says a position holds a list; Of applies to every element.
type ListDescriptor struct {
	Of FieldTypeDescriptor
}

func (ListDescriptor) isFieldTypeDescriptor() {}

// String implements FieldTypeDescriptor.
func (d ListDescriptor) String() string { return "[" + d.Of.String() + "]" }

// NullableDescriptor is a transparent wrapper: at runtime, a JSON null passes
// through untransformed; any non-null value is transformed as if typed Of.
type NullableDescriptor struct {
	Of FieldTypeDescriptor
}

func (NullableDescriptor) isFieldTypeDescriptor() {}

// String implements FieldTypeDescriptor.
func (d NullableDescriptor) String() string { return d.Of.String() + "?" }

var (
	_ FieldTypeDescriptor = ScalarDescriptor{}
	_ FieldTypeDescriptor = ObjectDescriptor{}
	_ FieldTypeDescriptor = ListDescriptor{}
	_ FieldTypeDescriptor = NullableDescriptor{}
)

// wellKnownScalars is the set of built-in scalar names that are always
// Scalar, regardless of whether a type of that name happens to be
// registered.
var wellKnownScalars = map[Type]bool{
	"Int":     true,
	"String":  true,
	"Boolean": true,
	"Float":   true,
	"ID":      true,
}

// IsWellKnownScalar reports whether name is one of the built-in scalar names.
func IsWellKnownScalar(name Type) bool {
	return wellKnownScalars[name]
}
