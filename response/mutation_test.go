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

package response_test

import (
	"context"
	"encoding/json"

	"github.com/rowgql/pipeline/diagnostics"
	"github.com/rowgql/pipeline/internal/testutil"
	"github.com/rowgql/pipeline/projection"
	"github.com/rowgql/pipeline/rerr"
	"github.com/rowgql/pipeline/response"
	"github.com/rowgql/pipeline/schema"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("mutation responses", func() {
	It("builds a success payload with the entity under the configured field name (scenario 5)", func() {
		row := `{"status":"new","message":"ok","entity":{"id":"u1","name":"John"},"entity_type":"User"}`
		got, err := response.BuildMutationResponse(context.Background(), row, "createUser", "CreateUserSuccess", "CreateUserError", "user", nil, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"createUser":{"__typename":"CreateUserSuccess","user":{"id":"u1","name":"John"}}}}`,
		)))
	})

	It("builds a failure payload with a synthesized error array (scenario 6)", func() {
		row := `{"status":"failed:validation","message":"Validation failed","entity":null,"entity_type":"User"}`
		got, err := response.BuildMutationResponse(context.Background(), row, "createUser", "CreateUserSuccess", "CreateUserError", "user", nil, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"createUser":{"__typename":"CreateUserError","code":400,"status":"failed:validation","message":"Validation failed","errors":[{"code":400,"identifier":"validation","message":"Validation failed","details":null}]}}}`,
		)))
	})

	It("treats a bare 'failed' status as general_error/500", func() {
		row := `{"status":"failed","message":"boom","entity":null,"entity_type":"User"}`
		got, err := response.BuildMutationResponse(context.Background(), row, "createUser", "CreateUserSuccess", "CreateUserError", "user", nil, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"createUser":{"__typename":"CreateUserError","code":500,"status":"failed","message":"boom","errors":[{"code":500,"identifier":"general_error","message":"boom","details":null}]}}}`,
		)))
	})

	It("treats a noop: status as a failure-shaped response", func() {
		row := `{"status":"noop:not_found","message":"already gone","entity":null,"entity_type":"User"}`
		got, err := response.BuildMutationResponse(context.Background(), row, "deleteUser", "DeleteUserSuccess", "DeleteUserError", "user", nil, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"deleteUser":{"__typename":"DeleteUserError","code":404,"status":"noop:not_found","message":"already gone","errors":[{"code":404,"identifier":"not_found","message":"already gone","details":null}]}}}`,
		)))
	})

	It("emits metadata.errors verbatim instead of synthesizing", func() {
		row := `{"status":"failed:conflict","message":"nope","entity":null,"entity_type":"User","metadata":{"errors":[{"code":409,"identifier":"conflict","message":"already exists","details":{"field":"email"}}]}}`
		got, err := response.BuildMutationResponse(context.Background(), row, "createUser", "CreateUserSuccess", "CreateUserError", "user", nil, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"createUser":{"__typename":"CreateUserError","code":409,"status":"failed:conflict","message":"nope","errors":[{"code":409,"identifier":"conflict","message":"already exists","details":{"field":"email"}}]}}}`,
		)))
	})

	It("resolves the entity's nested __typename from the registry via the success type's field", func() {
		reg := schema.NewRegistry()
		Expect(reg.RegisterType("CreateUserSuccess", map[string]string{
			"user": "User",
		})).To(Succeed())
		Expect(reg.RegisterType("User", map[string]string{
			"id":   "ID",
			"name": "String",
		})).To(Succeed())

		row := `{"status":"new","entity":{"id":"u1","name":"John"},"entity_type":"User"}`
		got, err := response.BuildMutationResponse(context.Background(), row, "createUser", "CreateUserSuccess", "CreateUserError", "user", nil, response.Options{Registry: reg})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"createUser":{"__typename":"CreateUserSuccess","user":{"__typename":"User","id":"u1","name":"John"}}}}`,
		)))
	})

	It("merges cascade fields as siblings of the entity field", func() {
		row := `{"status":"new","entity":{"id":"u1"},"entity_type":"User","cascade":{"session_token":"abc"}}`
		got, err := response.BuildMutationResponse(context.Background(), row, "createUser", "CreateUserSuccess", "CreateUserError", "user", nil, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"createUser":{"__typename":"CreateUserSuccess","user":{"id":"u1"},"sessionToken":"abc"}}}`,
		)))
	})

	It("applies the projection plan to both the entity and cascade fields", func() {
		row := `{"status":"new","entity":{"id":"u1","name":"John","email":"x"},"entity_type":"User","cascade":{"session_token":"abc","expires_at":"later"}}`
		plan := projection.Build([][]string{
			{"user", "id"},
			{"session_token"},
		})
		got, err := response.BuildMutationResponse(context.Background(), row, "createUser", "CreateUserSuccess", "CreateUserError", "user", plan, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"createUser":{"__typename":"CreateUserSuccess","user":{"id":"u1"},"sessionToken":"abc"}}}`,
		)))
	})

	It("degrades a shape-invalid payload (missing status) to a synthesized general_error response", func() {
		recorder := &recordingSink{}
		row := `{"entity":null,"entity_type":"User"}`
		got, err := response.BuildMutationResponse(context.Background(), row, "createUser", "CreateUserSuccess", "CreateUserError", "user", nil, response.Options{DiagnosticSink: recorder})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"createUser":{"__typename":"CreateUserError","code":500,"status":"","message":"invalid mutation result","errors":[{"code":500,"identifier":"general_error","message":"invalid mutation result","details":null}]}}}`,
		)))
		Expect(recorder.mutationShapeErrors).To(HaveLen(1))
	})

	It("fails with InvalidInput on malformed mutation JSON", func() {
		_, err := response.BuildMutationResponse(context.Background(), `{"status":`, "createUser", "CreateUserSuccess", "CreateUserError", "user", nil, response.Options{})
		Expect(err).To(HaveOccurred())
		Expect(rerr.KindOf(err)).To(Equal(rerr.KindInvalidInput))
	})
})

type recordingSink struct {
	schemaMisses        []string
	mutationShapeErrors []string
}

func (r *recordingSink) SchemaMiss(typeName, fieldName string) {
	r.schemaMisses = append(r.schemaMisses, typeName+"."+fieldName)
}

func (r *recordingSink) MutationShapeError(reason string) {
	r.mutationShapeErrors = append(r.mutationShapeErrors, reason)
}

var _ diagnostics.Sink = (*recordingSink)(nil)
