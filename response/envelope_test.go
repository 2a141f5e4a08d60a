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
	"strings"
	"testing"

	"github.com/rowgql/pipeline/internal/testutil"
	"github.com/rowgql/pipeline/projection"
	"github.com/rowgql/pipeline/rerr"
	"github.com/rowgql/pipeline/response"
	"github.com/rowgql/pipeline/schema"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestResponse(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "response suite")
}

func userPostRegistry() *schema.Registry {
	r := schema.NewRegistry()
	Expect(r.RegisterType("User", map[string]string{
		"id":    "ID",
		"name":  "String",
		"posts": "[Post]",
	})).To(Succeed())
	Expect(r.RegisterType("Post", map[string]string{
		"id":    "ID",
		"title": "String",
	})).To(Succeed())
	return r
}

var _ = Describe("envelope shape", func() {
	It("wraps an empty array response", func() {
		got := response.BuildEmptyArrayResponse("users")
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(`{"data":{"users":[]}}`)))
	})

	It("wraps a null response", func() {
		got := response.BuildNullResponse("user")
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(`{"data":{"user":null}}`)))
	})

	It("delegates an empty rows list response to the empty-array shape", func() {
		got, err := response.BuildListResponse(context.Background(), nil, "users", "", response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(`{"data":{"users":[]}}`)))
	})

	It("rewrites a single object with no type and no projection (scenario 1)", func() {
		got, err := response.BuildSingleResponse(context.Background(), `{"user_id":1,"user_name":"John"}`, "user", "", response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(`{"data":{"user":{"userId":1,"userName":"John"}}}`)))
	})

	It("rewrites a single null row as GraphQL null without inspecting the type", func() {
		got, err := response.BuildSingleResponse(context.Background(), `null`, "user", "User", response.Options{Registry: userPostRegistry()})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(`{"data":{"user":null}}`)))
	})

	It("injects __typename at every row of a list (scenario 2)", func() {
		reg := schema.NewRegistry()
		Expect(reg.RegisterType("User", map[string]string{"id": "ID", "name": "String"})).To(Succeed())

		rows := []string{`{"id":1,"name":"A"}`, `{"id":2,"name":"B"}`}
		got, err := response.BuildListResponse(context.Background(), rows, "users", "User", response.Options{Registry: reg})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"users":[{"__typename":"User","id":1,"name":"A"},{"__typename":"User","id":2,"name":"B"}]}}`,
		)))
	})

	It("injects __typename at schema-declared nested positions (scenario 3)", func() {
		row := `{"id":1,"name":"John","posts":[{"id":10,"title":"T"}]}`
		got, err := response.BuildSingleResponse(context.Background(), row, "user", "User", response.Options{Registry: userPostRegistry()})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"user":{"__typename":"User","id":1,"name":"John","posts":[{"__typename":"Post","id":10,"title":"T"}]}}}`,
		)))
	})

	It("projects nested object fields, dropping everything else (scenario 4)", func() {
		row := `{"company":{"id":1,"name":"Acme","email":"x","address":{"street":"s","city":"NYC","zip":"z"}}}`
		plan := projection.Build([][]string{
			{"company", "name"},
			{"company", "address", "city"},
		})
		got, err := response.BuildSingleResponseWithProjection(context.Background(), row, "root", "", plan, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"root":{"company":{"name":"Acme","address":{"city":"NYC"}}}}}`,
		)))
	})

	It("applies the same trie node to every array element (union of paths)", func() {
		row := `{"posts":[{"id":1,"title":"a","body":"x"},{"id":2,"body":"y"}]}`
		plan := projection.Build([][]string{
			{"posts", "title"},
			{"posts", "id"},
		})
		got, err := response.BuildSingleResponseWithProjection(context.Background(), row, "root", "", plan, response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"root":{"posts":[{"id":1,"title":"a"},{"id":2}]}}}`,
		)))
	})

	It("collapses to an empty object when the plan's path doesn't match anything in the source", func() {
		row := `{"id":1,"name":"John"}`
		plan := projection.Build([][]string{{"nonexistent"}})
		got, err := response.BuildSingleResponseWithProjection(context.Background(), row, "user", "User", plan, response.Options{Registry: userPostRegistry()})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"user":{"__typename":"User"}}}`,
		)))
	})

	It("disables key renaming when asked", func() {
		got, err := response.BuildSingleResponse(context.Background(), `{"user_id":1}`, "user", "", response.Options{DisableKeyRename: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(`{"data":{"user":{"user_id":1}}}`)))
	})

	It("injects __typename at the root even when the registry never registered it, reporting a schema miss", func() {
		recorder := &recordingSink{}
		got, err := response.BuildSingleResponse(context.Background(), `{"id":1}`, "user", "Ghost", response.Options{Registry: schema.NewRegistry(), DiagnosticSink: recorder})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(`{"data":{"user":{"__typename":"Ghost","id":1}}}`)))
		Expect(recorder.schemaMisses).To(Equal([]string{"Ghost."}))
	})

	It("overrides a stale __typename already present in the source row, rather than duplicating it", func() {
		reg := schema.NewRegistry()
		Expect(reg.RegisterType("User", map[string]string{"id": "ID"})).To(Succeed())

		got, err := response.BuildSingleResponse(context.Background(), `{"__typename":"OldType","id":1}`, "user", "User", response.Options{Registry: reg})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.RawMessage(got)).To(testutil.SerializeToJSONAs(json.RawMessage(
			`{"data":{"user":{"__typename":"User","id":1}}}`,
		)))
		Expect(string(got)).To(ContainSubstring(`"__typename":"User"`))
		Expect(strings.Count(string(got), "__typename")).To(Equal(1))
	})

	It("preserves number formatting byte for byte", func() {
		got, err := response.BuildSingleResponse(context.Background(), `{"n":1.50,"big":9007199254740993}`, "r", "", response.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(got)).To(Equal(`{"data":{"r":{"n":1.50,"big":9007199254740993}}}`))
	})

	It("fails with InvalidInput on malformed row JSON", func() {
		_, err := response.BuildSingleResponse(context.Background(), `{"id":`, "user", "", response.Options{})
		Expect(err).To(HaveOccurred())
		Expect(rerr.KindOf(err)).To(Equal(rerr.KindInvalidInput))
	})
})
