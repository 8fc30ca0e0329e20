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

package yang

import (
	"strings"
	"testing"
)

func mustProcess(t *testing.T, mods map[string]string) *Modules {
	t.Helper()
	ms := NewModules()
	for name, src := range mods {
		if err := ms.Parse(src, name); err != nil {
			t.Fatalf("could not parse module %s: %v", name, err)
		}
	}
	if errs := ms.Process(); len(errs) > 0 {
		t.Fatalf("could not process modules: %v", errs)
	}
	return ms
}

func TestResolveLeafref(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				leaf source {
					type string;
				}
				leaf target {
					type leafref {
						path "../source";
					}
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	target := e.Dir["target"]
	if target == nil {
		t.Fatalf("target leaf not found")
	}
	if target.LeafrefTarget == nil {
		t.Fatalf("LeafrefTarget was not resolved")
	}
	if target.LeafrefTarget.Name != "source" {
		t.Errorf("LeafrefTarget = %s, want source", target.LeafrefTarget.Name)
	}

	source := e.Dir["source"]
	found := false
	for _, r := range source.LeafrefReferers {
		if r == target {
			found = true
		}
	}
	if !found {
		t.Errorf("source.LeafrefReferers does not contain target")
	}
}

func TestResolveUsesRefine(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				grouping g {
					leaf a {
						type string;
						default "original";
					}
				}

				container c {
					uses g {
						refine a {
							default "refined";
						}
					}
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	a := e.Dir["c"].Dir["a"]
	if a == nil {
		t.Fatalf("refined leaf not found")
	}
	if a.Default != "refined" {
		t.Errorf("a.Default = %q, want refined", a.Default)
	}
}

func TestResolveListKeysAndUnique(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				list l {
					key "a";
					unique "b";
					leaf a { type string; }
					leaf b { type string; }
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	l := e.Dir["l"]
	if l == nil {
		t.Fatalf("list not found")
	}
	if len(l.Unique) != 1 || l.Unique[0].Name != "b" {
		t.Errorf("l.Unique = %v, want [b]", l.Unique)
	}
}

func TestResolveListKeysMissing(t *testing.T) {
	ms := NewModules()
	src := `
		module dev {
			prefix d;
			namespace "urn:d";

			list l {
				key "nosuch";
				leaf a { type string; }
			}
		}`
	if err := ms.Parse(src, "dev"); err != nil {
		t.Fatalf("could not parse module: %v", err)
	}
	errs := ms.Process()
	if len(errs) == 0 {
		t.Fatalf("expected an error for a key naming a nonexistent descendant")
	}
	var found bool
	for _, err := range errs {
		if strings.Contains(err.Error(), "nosuch") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want one mentioning %q", errs, "nosuch")
	}
}

func TestResolveListKeysDuplicate(t *testing.T) {
	ms := NewModules()
	src := `
		module dev {
			prefix d;
			namespace "urn:d";

			list l {
				key "a b a";
				leaf a { type string; }
				leaf b { type string; }
			}
		}`
	if err := ms.Parse(src, "dev"); err != nil {
		t.Fatalf("could not parse module: %v", err)
	}
	errs := ms.Process()
	if len(errs) == 0 {
		t.Fatalf("expected an error for a key naming the same leaf twice")
	}
	var found bool
	for _, err := range errs {
		if strings.Contains(err.Error(), "more than once") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want one reporting a repeated key name", errs)
	}
}

func TestResolveIfFeature(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				feature f;

				leaf a {
					if-feature "f";
					type string;
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	a := e.Dir["a"]
	if len(a.IfFeature) != 1 || a.IfFeature[0].Name != "f" {
		t.Fatalf("a.IfFeature = %v, want [f]", a.IfFeature)
	}
	if a.IsDisabled() {
		t.Errorf("a.IsDisabled() = true, want false (feature f is enabled by default)")
	}

	ms.FeatureDisable("f")
	ComputeFeatureState(ms.Modules["dev"], ms.DisabledFeatures)
	a.disablingFeature = nil
	if !a.IsDisabled() {
		t.Errorf("a.IsDisabled() = false after disabling f, want true")
	}
}

func TestResolveChoiceDefault(t *testing.T) {
	ms := NewModules()
	src := `
		module dev {
			prefix d;
			namespace "urn:d";

			choice c {
				default "nosuchcase";
				leaf a { type string; }
			}
		}`
	if err := ms.Parse(src, "dev"); err != nil {
		t.Fatalf("could not parse module: %v", err)
	}
	errs := ms.Process()
	if len(errs) == 0 {
		t.Fatalf("expected an error for a choice default naming no case")
	}
}
