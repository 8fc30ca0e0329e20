// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schemaindex provides a prefix-trie index over canonical schema
// paths, so a Context can answer "does any compiled module have a node at
// or under this path" in O(len(path)) instead of a tree walk per query.
// The shape is grounded in openconfig/ygot's gnmidiff package, which builds
// a derekparker/trie over gNMI paths to detect prefix conflicts between Set
// requests; here the same trie is built once per compiled schema and
// queried by Context.Lookup and Context.HasPrefix. Entry subtree scans
// (is-disabled, augment targets) walk the Entry tree and do not use it.
package schemaindex

import (
	"github.com/derekparker/trie"

	"github.com/nilgiri/yangcore/pkg/yang"
)

// Index is a prefix-trie over canonical schema paths, each mapped back to
// the *yang.Entry it names.
type Index struct {
	t       *trie.Trie
	entries map[string]*yang.Entry
}

// New returns an empty Index.
func New() *Index {
	return &Index{t: trie.New(), entries: map[string]*yang.Entry{}}
}

// Add inserts e under its canonical path.
func (idx *Index) Add(e *yang.Entry) {
	path := e.Path()
	idx.t.Add(path, nil)
	idx.entries[path] = e
}

// Build walks e's subtree and adds every descendant (and e itself).
func Build(e *yang.Entry) *Index {
	idx := New()
	var walk func(*yang.Entry)
	walk = func(e *yang.Entry) {
		if e == nil {
			return
		}
		idx.Add(e)
		for _, c := range e.Dir {
			walk(c)
		}
	}
	walk(e)
	return idx
}

// Lookup returns the Entry stored at the exact path, or nil.
func (idx *Index) Lookup(path string) *yang.Entry {
	return idx.entries[path]
}

// HasPrefix reports whether any indexed path starts with prefix.
func (idx *Index) HasPrefix(prefix string) bool {
	return len(idx.t.PrefixSearch(prefix)) > 0
}

// Paths returns every path currently indexed.
func (idx *Index) Paths() []string {
	return idx.t.Keys()
}
