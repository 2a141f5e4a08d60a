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

// Package projection turns a GraphQL selection set — a set of field paths in
// source (pre-rename) naming — into an immutable trie the rewriter consults
// at each object position to decide which keys to emit and which to skip.
//
// A request that carries no Plan at all emits every key at every position:
// a Plan only ever narrows, so its absence means "project nothing away".
// That "no projection" case is represented by a nil *Trie throughout this
// package and in package response, rather than by a Trie with an
// always-true HasChildren; callers distinguish the two with a plain nil
// check instead of a method call.
package projection

// Trie is one node of a Projection Plan. The zero value is a leaf: "this
// path was requested in full, emit the whole subtree here." A node gains
// children only when a path continues past it; once it has any, it emits
// only the listed children (§4.4's "has_children" case), regardless of
// whether this node was also requested as a leaf in its own right.
type Trie struct {
	children map[string]*Trie
}

// Build constructs a Plan from a list of field paths, each an ordered
// sequence of source-form identifier segments (§4.4's Field Path). An empty
// paths list yields an empty (non-nil) Trie whose root has no children; like
// any leaf it selects the whole subtree, so package response emits every key
// for it, exactly as for a nil *Trie.
func Build(paths [][]string) *Trie {
	root := &Trie{}
	for _, path := range paths {
		root.insert(path)
	}
	return root
}

// insert adds a single path below t, merging with whatever is already
// there. A path that terminates on a node that already has children is a
// no-op for that node: the existing, longer paths dominate (§4.4). A path
// that continues past a node with no children yet promotes that node from
// leaf to internal, same as Build constructing it fresh.
func (t *Trie) insert(path []string) {
	node := t
	for _, segment := range path {
		if node.children == nil {
			node.children = make(map[string]*Trie)
		}
		child, ok := node.children[segment]
		if !ok {
			child = &Trie{}
			node.children[segment] = child
		}
		node = child
	}
}

// Child returns the subtree for key, and whether key was found. Lookups
// compare against the source form of the key — projection decisions are
// made before case conversion (§4.4's "Key matching").
func (t *Trie) Child(key string) (*Trie, bool) {
	if t == nil || t.children == nil {
		return nil, false
	}
	child, ok := t.children[key]
	return child, ok
}

// HasChildren reports whether t lists any children at all. A leaf node (no
// children) means "emit the whole subtree here, unprojected"; a node with
// children means "emit only the listed children, skip everything else".
func (t *Trie) HasChildren() bool {
	return t != nil && len(t.children) > 0
}
