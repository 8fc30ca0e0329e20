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

// Package strdict implements a refcounted string interning table: repeated
// Intern calls for equal strings return the same Handle, and the backing
// string is only freed once every holder has Released it.  The shape
// generalizes the single-purpose dictionaries already in
// github.com/nilgiri/yangcore/pkg/yang (typeDictionary and
// identityDictionary) — a mutex-guarded map with add/find/release methods —
// from "dictionary of one kind of value" to "dictionary of interned
// strings."
package strdict

import "sync"

// Handle is an interned string.  Two Handles compare pointer-equal (via Ptr)
// iff they were interned from equal strings.
type Handle struct {
	s *string
}

// String returns the interned string value.
func (h Handle) String() string {
	if h.s == nil {
		return ""
	}
	return *h.s
}

// Ptr returns the address backing h, for pointer-equality comparisons.
func (h Handle) Ptr() *string {
	return h.s
}

type entry struct {
	s     string
	count int
}

// Dict is a refcounted string interning table.  The zero value is not
// usable; use New.
type Dict struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New returns an empty, ready to use Dict.
func New() *Dict {
	return &Dict{entries: map[string]*entry{}}
}

// Intern returns the Handle for s, creating and refcounting a new entry if
// this is the first reference.
func (d *Dict) Intern(s string) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.entries[s]; ok {
		e.count++
		return Handle{s: &e.s}
	}
	e := &entry{s: s, count: 1}
	d.entries[s] = e
	return Handle{s: &e.s}
}

// Release decrements h's refcount, freeing the entry once it reaches zero.
// Releasing a Handle not obtained from this Dict, or releasing the same
// Handle more times than it was interned, is a caller error and is a no-op.
func (d *Dict) Release(h Handle) {
	if h.s == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[*h.s]
	if !ok || e.count <= 0 {
		return
	}
	e.count--
	if e.count == 0 {
		delete(d.entries, *h.s)
	}
}

// Len reports how many distinct strings are currently interned.
func (d *Dict) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
