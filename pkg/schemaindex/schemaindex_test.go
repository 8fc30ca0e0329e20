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

package schemaindex

import (
	"testing"

	"github.com/nilgiri/yangcore/pkg/yang"
)

func buildTestEntry(t *testing.T) *yang.Entry {
	t.Helper()
	ms := yang.NewModules()
	src := `
		module dev {
			prefix d;
			namespace "urn:d";

			container c {
				leaf a { type string; }
				leaf b { type string; }
			}
		}`
	if err := ms.Parse(src, "dev"); err != nil {
		t.Fatalf("could not parse module: %v", err)
	}
	if errs := ms.Process(); len(errs) > 0 {
		t.Fatalf("could not process module: %v", errs)
	}
	return yang.ToEntry(ms.Modules["dev"])
}

func TestBuildAndLookup(t *testing.T) {
	e := buildTestEntry(t)
	idx := Build(e)

	c := e.Dir["c"]
	a := c.Dir["a"]

	if got := idx.Lookup(a.Path()); got != a {
		t.Errorf("Lookup(%s) = %v, want %v", a.Path(), got, a)
	}
	if got := idx.Lookup("/no/such/path"); got != nil {
		t.Errorf("Lookup of an unindexed path = %v, want nil", got)
	}
}

func TestHasPrefix(t *testing.T) {
	e := buildTestEntry(t)
	idx := Build(e)

	c := e.Dir["c"]
	if !idx.HasPrefix(c.Path()) {
		t.Errorf("HasPrefix(%s) = false, want true", c.Path())
	}
	if idx.HasPrefix("/nowhere") {
		t.Errorf("HasPrefix(/nowhere) = true, want false")
	}
}

func TestPaths(t *testing.T) {
	e := buildTestEntry(t)
	idx := Build(e)

	paths := idx.Paths()
	want := map[string]bool{
		e.Path():                   true,
		e.Dir["c"].Path():          true,
		e.Dir["c"].Dir["a"].Path(): true,
		e.Dir["c"].Dir["b"].Path(): true,
	}
	if len(paths) != len(want) {
		t.Fatalf("Paths() returned %d entries, want %d (%v)", len(paths), len(want), paths)
	}
	for _, p := range paths {
		if !want[p] {
			t.Errorf("unexpected indexed path %q", p)
		}
	}
}
