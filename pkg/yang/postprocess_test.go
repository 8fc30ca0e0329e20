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

func TestApplyDeviateNotSupported(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				container c {
					leaf a { type string; }
				}

				deviation "/c/a" {
					deviate not-supported;
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	if _, ok := e.Dir["c"].Dir["a"]; ok {
		t.Errorf("deviated leaf a still present after deviate not-supported")
	}
}

func TestApplyDeviateNotSupportedRejectsListKey(t *testing.T) {
	ms := NewModules()
	src := `
		module dev {
			prefix d;
			namespace "urn:d";

			list l {
				key "a";
				leaf a { type string; }
				leaf b { type string; }
			}

			deviation "/l/a" {
				deviate not-supported;
			}
		}`
	if err := ms.Parse(src, "dev"); err != nil {
		t.Fatalf("could not parse module: %v", err)
	}
	errs := ms.Process()
	if len(errs) == 0 {
		t.Fatalf("expected an error deviating a list key to not-supported")
	}
	var found bool
	for _, err := range errs {
		if strings.Contains(err.Error(), "not-supported") && strings.Contains(err.Error(), "a") {
			found = true
		}
	}
	if !found {
		t.Errorf("errs = %v, want one rejecting the not-supported deviation on key leaf a", errs)
	}

	// The key leaf must survive: the deviation was rejected, not applied.
	e := ToEntry(ms.Modules["dev"])
	if e != nil {
		if l := e.Dir["l"]; l != nil {
			if _, ok := l.Dir["a"]; !ok {
				t.Errorf("key leaf a was removed despite the deviation being rejected")
			}
		}
	}
}

func TestApplyDeviateReplace(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				leaf a {
					type string;
					default "original";
				}

				deviation "/a" {
					deviate replace {
						default "replaced";
					}
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	a := e.Dir["a"]
	if a.Default != "replaced" {
		t.Errorf("a.Default = %q, want replaced", a.Default)
	}
}

func TestInheritPropertiesConfigFalse(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				container c {
					config false;
					leaf a { type string; }
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	c := e.Dir["c"]
	a := c.Dir["a"]
	if a.Config != TSFalse {
		t.Errorf("a.Config = %v, want inherited TSFalse", a.Config)
	}
	if !e.HasConfigFalseDescendant {
		t.Errorf("module entry HasConfigFalseDescendant = false, want true")
	}
}

func TestComputeFeatureStateTransitive(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				feature base;
				feature derived {
					if-feature "base";
				}
			}`,
	})

	m := ms.Modules["dev"]
	ms.FeatureDisable("base")
	ComputeFeatureState(m, ms.DisabledFeatures)

	var base, derived *Feature
	for _, f := range m.Feature {
		switch f.Name {
		case "base":
			base = f
		case "derived":
			derived = f
		}
	}
	if base == nil || derived == nil {
		t.Fatalf("expected features base and derived, got %v", m.Feature)
	}
	if base.Enabled {
		t.Errorf("base.Enabled = true, want false")
	}
	if derived.Enabled {
		t.Errorf("derived.Enabled = true, want false (depends on disabled base)")
	}
}
