/**
 * Copyright (c) 2019, The Artemis Authors.
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

package jsonwriter_test

import (
	"strings"
	"testing"
	"unicode"

	"github.com/rowgql/pipeline/jsonwriter"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestJsonwriter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "jsonwriter suite")
}

func writeString(s string) string {
	var buf strings.Builder
	stream := jsonwriter.NewStream(&buf)
	stream.WriteString(s)
	Expect(stream.Flush()).ShouldNot(HaveOccurred())
	return buf.String()
}

var _ = Describe("Stream", func() {
	It("escapes control characters, quote and backslash, and leaves an apostrophe unescaped", func() {
		Expect(writeString("\x00")).To(Equal(`"\u0000"`))
		Expect(writeString("\x09")).To(Equal(`"\t"`))
		Expect(writeString("\x0a")).To(Equal(`"\n"`))
		Expect(writeString("\x0d")).To(Equal(`"\r"`))
		Expect(writeString("\x1f")).To(Equal(`"\u001f"`))
		Expect(writeString("\x22")).To(Equal(`"\""`))
		Expect(writeString("\x5c")).To(Equal(`"\\"`))
		Expect(writeString("\x27")).To(Equal(`"'"`))
	})

	It("accepts invalid utf8", func() {
		var r []rune
		for i := rune(' '); i <= unicode.MaxRune; i++ {
			r = append(r, i)
		}
		s := string(r) + "\xff\xff\xffhello"
		Expect(func() { writeString(s) }).NotTo(Panic())
	})

	It("copies bytes that need no escaping through HTML-sensitive characters unchanged", func() {
		Expect(writeString(`<html>foo & bar</html>`)).To(Equal(`"<html>foo & bar</html>"`))
	})

	It("writes raw strings verbatim, with no escaping or re-encoding", func() {
		var buf strings.Builder
		stream := jsonwriter.NewStream(&buf)
		stream.WriteRawString(`9007199254740993`)
		Expect(stream.Flush()).ShouldNot(HaveOccurred())
		Expect(buf.String()).To(Equal(`9007199254740993`))
	})

	It("writes ints", func() {
		var buf strings.Builder
		stream := jsonwriter.NewStream(&buf)
		stream.WriteInt(-42)
		Expect(stream.Flush()).ShouldNot(HaveOccurred())
		Expect(buf.String()).To(Equal(`-42`))
	})

	It("writes nil", func() {
		var buf strings.Builder
		stream := jsonwriter.NewStream(&buf)
		stream.WriteNil()
		Expect(stream.Flush()).ShouldNot(HaveOccurred())
		Expect(buf.String()).To(Equal(`null`))
	})

	It("assembles an object from its primitives", func() {
		var buf strings.Builder
		stream := jsonwriter.NewStream(&buf)
		stream.WriteObjectStart()
		stream.WriteObjectField("__typename")
		stream.WriteString("User")
		stream.WriteMore()
		stream.WriteObjectField("id")
		stream.WriteInt(1)
		stream.WriteObjectEnd()
		Expect(stream.Flush()).ShouldNot(HaveOccurred())
		Expect(buf.String()).To(Equal(`{"__typename":"User","id":1}`))
	})

	It("assembles an array, including the empty-array shortcut", func() {
		var buf strings.Builder
		stream := jsonwriter.NewStream(&buf)
		stream.WriteArrayStart()
		stream.WriteInt(1)
		stream.WriteMore()
		stream.WriteInt(2)
		stream.WriteArrayEnd()
		Expect(stream.Flush()).ShouldNot(HaveOccurred())
		Expect(buf.String()).To(Equal(`[1,2]`))

		buf.Reset()
		stream = jsonwriter.NewStream(&buf)
		stream.WriteEmptyArray()
		Expect(stream.Flush()).ShouldNot(HaveOccurred())
		Expect(buf.String()).To(Equal(`[]`))
	})

	It("flushes in chunks once the internal buffer fills", func() {
		var buf strings.Builder
		stream := jsonwriter.NewStream(&buf)
		for i := 0; i < 1000; i++ {
			stream.WriteRawString("1")
			stream.WriteMore()
		}
		Expect(stream.Flush()).ShouldNot(HaveOccurred())
		Expect(buf.String()).To(HaveLen(2000))
	})
})
