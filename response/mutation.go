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
	"encoding/json"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rowgql/pipeline/casing"
	"github.com/rowgql/pipeline/internal/unsafe"
	"github.com/rowgql/pipeline/jsonwriter"
	"github.com/rowgql/pipeline/obs"
	"github.com/rowgql/pipeline/projection"
	"github.com/rowgql/pipeline/rerr"
	"github.com/rowgql/pipeline/rowscan"
	"github.com/rowgql/pipeline/schema"
)

// mutationEnvelope is the one place in this module that decodes a full JSON
// value with encoding/json instead of scanning bytes directly: §4.3.3's
// control fields (status, entity_type) must be inspected, not just passed
// through, to decide which branch of the mutation result to build. Entity,
// Cascade and Metadata.Errors stay as json.RawMessage so the byte-exact
// passthrough guarantee (§4.3) holds for everything this envelope doesn't
// itself interpret.
type mutationEnvelope struct {
	Status     string            `json:"status" validate:"required"`
	Message    string            `json:"message"`
	Entity     json.RawMessage   `json:"entity"`
	EntityType string            `json:"entity_type" validate:"required"`
	Metadata   *mutationMetadata `json:"metadata"`
	Cascade    json.RawMessage   `json:"cascade"`
}

type mutationMetadata struct {
	Errors json.RawMessage `json:"errors"`
}

var (
	mutationValidatorOnce sync.Once
	mutationValidatorInst *validator.Validate
)

// mutationValidate returns the shared *validator.Validate instance,
// constructed lazily and once — the same singleton-via-sync.Once shape used
// for schema validation elsewhere in the example pack.
func mutationValidate() *validator.Validate {
	mutationValidatorOnce.Do(func() {
		mutationValidatorInst = validator.New()
	})
	return mutationValidatorInst
}

// mutationErrorCodes maps a status identifier to its HTTP-flavored error
// code (§4.3.3, extended per the SUPPLEMENT with two entries the worked
// examples in spec.md don't show but original_source/ implements).
var mutationErrorCodes = map[string]int{
	"not_found":     404,
	"authorization": 403,
	"validation":    400,
	"conflict":      409,
	"rate_limited":  429,
}

// deriveMutationError splits a status string into its identifier and the
// error code the table above assigns it. A bare "failed", or a status with
// neither a "failed:" nor a "noop:" prefix, gets the identifier
// "general_error"; an identifier absent from the table keeps its name and
// gets code 500.
func deriveMutationError(status string) (identifier string, code int) {
	switch {
	case status == "failed":
		identifier = "general_error"
	case strings.HasPrefix(status, "failed:"):
		identifier = strings.TrimPrefix(status, "failed:")
	case strings.HasPrefix(status, "noop:"):
		identifier = strings.TrimPrefix(status, "noop:")
	default:
		identifier = "general_error"
	}
	if c, ok := mutationErrorCodes[identifier]; ok {
		code = c
	} else {
		code = 500
	}
	return identifier, code
}

// isMutationFailure reports whether status names the failure/no-op branch
// of §4.3.3 rather than the success branch.
func isMutationFailure(status string) bool {
	return status == "failed" || strings.HasPrefix(status, "failed:") || strings.HasPrefix(status, "noop:")
}

// isJSONNullRaw reports whether raw, once surrounding whitespace is
// trimmed, is the literal JSON null (or simply absent).
func isJSONNullRaw(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// BuildMutationResponse builds a GraphQL mutation payload from row — a JSON
// object carrying status/message/entity/entity_type/metadata?/cascade? —
// per §4.3.3. A status of "failed", "failed:<reason>", or "noop:<reason>"
// produces an errorType-typed error object; anything else produces a
// successType-typed object with entity (under entityField) and any cascade
// fields, both subject to plan (nil meaning no projection).
//
// Malformed JSON in row is an InvalidInput error (§4.3.4); a row that
// parses but is missing status or entity_type is not — it degrades to a
// synthesized errorType response and notifies opts.DiagnosticSink. That
// response's code and identifier come from whatever status the row carries,
// so a missing status yields general_error/500, while a "failed:<reason>"
// status with no entity_type keeps <reason> and its code.
func BuildMutationResponse(ctx context.Context, row string, field string, successType, errorType schema.Type, entityField string, plan *projection.Trie, opts Options) ([]byte, error) {
	_, span := obs.StartSpan(ctx, opts.Tracer, "rowgql.response.build_mutation")
	defer span.End()

	const op = rerr.Op("response.BuildMutationResponse")

	var env mutationEnvelope
	if err := json.Unmarshal([]byte(row), &env); err != nil {
		return nil, rerr.E(op, rerr.KindInvalidInput, "malformed mutation payload", err)
	}

	if err := mutationValidate().Struct(&env); err != nil {
		opts.diagSink().MutationShapeError(err.Error())
		message := env.Message
		if message == "" {
			message = "invalid mutation result"
		}
		return envelope(field, func(stream *jsonwriter.Stream) error {
			return writeMutationErrorObject(stream, errorType, env.Status, message, nil)
		})
	}

	if isMutationFailure(env.Status) {
		return envelope(field, func(stream *jsonwriter.Stream) error {
			return writeMutationErrorObject(stream, errorType, env.Status, env.Message, env.Metadata)
		})
	}

	return envelope(field, func(stream *jsonwriter.Stream) error {
		return writeMutationSuccessObject(stream, &env, successType, entityField, plan, opts)
	})
}

// writeMutationErrorObject streams §4.3.3's error-shaped mutation result:
// __typename, code, status, message, errors.
func writeMutationErrorObject(stream *jsonwriter.Stream, errorType schema.Type, status, message string, metadata *mutationMetadata) error {
	identifier, code := deriveMutationError(status)

	stream.WriteObjectStart()

	stream.WriteObjectField(typenameKey)
	stream.WriteString(string(errorType))

	stream.WriteMore()
	stream.WriteObjectField("code")
	stream.WriteInt(code)

	stream.WriteMore()
	stream.WriteObjectField("status")
	stream.WriteString(status)

	stream.WriteMore()
	stream.WriteObjectField("message")
	stream.WriteString(message)

	stream.WriteMore()
	stream.WriteObjectField("errors")
	if metadata != nil && !isJSONNullRaw(metadata.Errors) {
		// Explicit metadata.errors overrides synthesis entirely (§9's Open
		// Question decision) and is emitted verbatim, preserving its exact
		// byte representation.
		stream.WriteRawString(unsafe.String(metadata.Errors))
	} else {
		stream.WriteArrayStart()
		stream.WriteObjectStart()
		stream.WriteObjectField("code")
		stream.WriteInt(code)
		stream.WriteMore()
		stream.WriteObjectField("identifier")
		stream.WriteString(identifier)
		stream.WriteMore()
		stream.WriteObjectField("message")
		stream.WriteString(message)
		stream.WriteMore()
		stream.WriteObjectField("details")
		stream.WriteNil()
		stream.WriteObjectEnd()
		stream.WriteArrayEnd()
	}

	stream.WriteObjectEnd()
	return nil
}

// writeMutationSuccessObject streams §4.3.3's success-shaped mutation
// result: __typename, the entity under entityField, and any cascade
// fields, each subject to plan.
func writeMutationSuccessObject(stream *jsonwriter.Stream, env *mutationEnvelope, successType schema.Type, entityField string, plan *projection.Trie, opts Options) error {
	stream.WriteObjectStart()

	stream.WriteObjectField(typenameKey)
	stream.WriteString(string(successType))

	if emit, entityNode := projectionDecision(plan, entityField); emit {
		outKey := entityField
		if opts.renameKeys() {
			outKey = casing.ToCamelCase(entityField)
		}
		stream.WriteMore()
		stream.WriteObjectField(outKey)

		if isJSONNullRaw(env.Entity) {
			stream.WriteNil()
		} else {
			desc := mutationEntityDescriptor(opts.Registry, successType, entityField, env.EntityType)
			sc := rowscan.New(env.Entity)
			if err := rewriteValue(stream, sc, desc, entityNode, opts); err != nil {
				return err
			}
		}
	}

	if !isJSONNullRaw(env.Cascade) {
		sc := rowscan.New(env.Cascade)
		if err := writeMutationCascadeFields(stream, sc, successType, plan, opts); err != nil {
			return err
		}
	}

	stream.WriteObjectEnd()
	return nil
}

// mutationEntityDescriptor resolves what the entity value under entityField
// should be treated as: the registry's own declaration of successType's
// entityField field if there is one, falling back to entityType when the
// registry knows it as a type in its own right. Neither being available is
// not an error (§4.2: unknown positions get no __typename, not a failure).
func mutationEntityDescriptor(reg *schema.Registry, successType schema.Type, entityField, entityType string) schema.FieldTypeDescriptor {
	if reg == nil {
		return nil
	}
	if d, ok := reg.Lookup(successType, entityField); ok {
		return d
	}
	if entityType != "" && reg.IsKnownType(schema.Type(entityType)) {
		return schema.ObjectDescriptor{TypeName: schema.Type(entityType)}
	}
	return nil
}

// writeMutationCascadeFields streams cascade's own top-level members
// directly into the enclosing mutation result object (they are additional
// sibling fields of successType, not nested under a "cascade" key),
// preserving their source order and applying the same projection/rename/
// typename machinery as any other field of successType.
func writeMutationCascadeFields(stream *jsonwriter.Stream, sc *rowscan.Scanner, successType schema.Type, plan *projection.Trie, opts Options) error {
	if err := sc.EnterObject(); err != nil {
		return err
	}

	objType := schema.ObjectDescriptor{TypeName: successType}

	for {
		done, err := sc.AtObjectEnd()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		key, err := sc.ReadKey()
		if err != nil {
			return err
		}

		emit, nextNode := projectionDecision(plan, key)
		if !emit {
			if err := sc.SkipValue(); err != nil {
				return err
			}
		} else {
			outKey := key
			if opts.renameKeys() {
				outKey = casing.ToCamelCase(key)
			}
			stream.WriteMore()
			stream.WriteObjectField(outKey)

			childDesc := childDescriptor(objType, true, key, opts.Registry)
			if err := rewriteValue(stream, sc, childDesc, nextNode, opts); err != nil {
				return err
			}
		}

		if err := sc.NextInObject(); err != nil {
			return err
		}
	}
}
