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

package yangctx

import "testing"

const testModuleSrc = `
module dev {
  prefix d;
  namespace "urn:d";

  feature f;

  container c {
    leaf a {
      type string;
      if-feature "f";
    }
  }
}`

func TestCompileFromBufferAndLookup(t *testing.T) {
	c := New()
	if err := c.CompileFromBuffer("dev", []byte(testModuleSrc)); err != nil {
		t.Fatalf("CompileFromBuffer: %v", err)
	}
	if errs := c.Finish(); len(errs) > 0 {
		t.Fatalf("Finish: %v", errs)
	}

	e := c.Modules().Modules["dev"]
	if e == nil {
		t.Fatalf("module dev was not registered")
	}
	entry := c.Lookup("/dev/c")
	if entry == nil {
		t.Fatalf("Lookup(/dev/c) = nil, want the c container entry")
	}
	if entry.Name != "c" {
		t.Errorf("Lookup(/dev/c).Name = %q, want c", entry.Name)
	}

	if !c.HasPrefix("/dev/c") {
		t.Errorf("HasPrefix(/dev/c) = false, want true")
	}
	if c.HasPrefix("/nowhere") {
		t.Errorf("HasPrefix(/nowhere) = true, want false")
	}
}

func TestFeatureLifecycle(t *testing.T) {
	c := New()
	if err := c.CompileFromBuffer("dev", []byte(testModuleSrc)); err != nil {
		t.Fatalf("CompileFromBuffer: %v", err)
	}
	if errs := c.Finish(); len(errs) > 0 {
		t.Fatalf("Finish: %v", errs)
	}

	if enabled, found := c.FeatureState("f"); !found || !enabled {
		t.Errorf("FeatureState(f) = (%v, %v), want (true, true)", enabled, found)
	}

	c.FeatureDisable("f")
	if errs := c.Finish(); len(errs) > 0 {
		t.Fatalf("Finish after disabling a feature: %v", errs)
	}
	if enabled, found := c.FeatureState("f"); !found || enabled {
		t.Errorf("FeatureState(f) after FeatureDisable = (%v, %v), want (false, true)", enabled, found)
	}

	names := map[string]bool{}
	for _, f := range c.FeatureList() {
		names[f.Name] = true
	}
	if !names["f"] {
		t.Errorf("FeatureList() = %v, want it to contain f", names)
	}
}
