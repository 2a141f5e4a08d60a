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

package schema

import (
	"strings"
	"sync"

	"github.com/rowgql/pipeline/rerr"
)

// Registry is a read-only (after construction), concurrency-safe map from a
// type's name to its fields' descriptors, expressed in a compact string
// notation rather than pre-built FieldTypeDescriptor values:
//
//	"String"    -> ScalarDescriptor{}, even if "String" were registered as a
//	               type: well-known scalar names are checked first (see
//	               IsWellKnownScalar)
//	"User"      -> ObjectDescriptor{TypeName: "User"}, if "User" is a
//	               registered type, else ScalarDescriptor{} (an enum or a
//	               custom scalar the registry was never told about)
//	"[Post]"    -> ListDescriptor{Of: ObjectDescriptor{TypeName: "Post"}}
//	"User?"     -> NullableDescriptor{Of: ObjectDescriptor{TypeName: "User"}}
//	"[Post]?"   -> NullableDescriptor{Of: ListDescriptor{Of: ...}}
//
// Descriptors are stored as their source notation and resolved the first
// time Lookup asks for them, then cached. This is deliberate: RegisterType
// calls may arrive in any order during startup (a field of "User" may
// reference "Post" before "Post" itself is registered), and resolving
// eagerly would make registration order significant. Lookup is only ever
// called once the schema is fully built, so the forward reference has
// always resolved by then.
type Registry struct {
	mu     sync.RWMutex
	fields map[Type]map[string]string
	cache  map[Type]map[string]FieldTypeDescriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		fields: make(map[Type]map[string]string),
		cache:  make(map[Type]map[string]FieldTypeDescriptor),
	}
}

// RegisterType adds a type and its fields' compact-notation descriptors to
// the registry. fields must be non-empty: a type with no fields can never be
// the source of a __typename injection or a projection, so registering one
// is always a caller mistake.
//
// Calling RegisterType twice for the same name replaces the previous
// registration and invalidates any cached descriptors derived from it.
func (r *Registry) RegisterType(name Type, fields map[string]string) error {
	const op = rerr.Op("schema.RegisterType")

	if len(fields) == 0 {
		return rerr.E(op, rerr.KindInvalidInput, "type \""+string(name)+"\" must declare at least one field")
	}

	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[name] = cp
	delete(r.cache, name)
	return nil
}

// IsKnownType reports whether name was registered via RegisterType.
func (r *Registry) IsKnownType(name Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.fields[name]
	return ok
}

// Lookup returns the resolved descriptor for fieldName on typeName, and
// false if typeName is unknown or has no such field. An unknown field is not
// an error: the response row may legitimately carry a column the schema
// doesn't describe (§4.2's "absent descriptor" case), in which case the
// Response Builder still renames and projects the value but injects no
// __typename into it.
func (r *Registry) Lookup(typeName Type, fieldName string) (FieldTypeDescriptor, bool) {
	r.mu.RLock()
	if cached, ok := r.cache[typeName]; ok {
		if d, ok := cached[fieldName]; ok {
			r.mu.RUnlock()
			return d, true
		}
	}
	fields, ok := r.fields[typeName]
	if !ok {
		r.mu.RUnlock()
		return nil, false
	}
	raw, ok := fields[fieldName]
	if !ok {
		r.mu.RUnlock()
		return nil, false
	}
	d := r.resolveLocked(raw)
	r.mu.RUnlock()

	r.mu.Lock()
	byField := r.cache[typeName]
	if byField == nil {
		byField = make(map[string]FieldTypeDescriptor, len(fields))
		r.cache[typeName] = byField
	}
	byField[fieldName] = d
	r.mu.Unlock()

	return d, true
}

// resolveLocked parses a single compact-notation descriptor. The grammar,
// outside to in: an optional trailing "?" (Nullable), then an optional
// "[...]" wrapper (List), then a bare type name (Scalar or Object). Callers
// must hold r.mu (read or write) for the duration of the call.
func (r *Registry) resolveLocked(notation string) FieldTypeDescriptor {
	if strings.HasSuffix(notation, "?") {
		return NullableDescriptor{Of: r.resolveLocked(strings.TrimSuffix(notation, "?"))}
	}
	if strings.HasPrefix(notation, "[") && strings.HasSuffix(notation, "]") {
		return ListDescriptor{Of: r.resolveLocked(notation[1 : len(notation)-1])}
	}

	name := Type(notation)
	if IsWellKnownScalar(name) {
		return Scalar
	}
	if _, ok := r.fields[name]; ok {
		return ObjectDescriptor{TypeName: name}
	}
	return Scalar
}
