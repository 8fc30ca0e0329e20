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

import "testing"

func TestCheckMandatoryCleanTree(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				leaf a {
					type string;
					mandatory true;
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	if errs := CheckMandatory(e); len(errs) != 0 {
		t.Errorf("CheckMandatory() = %v, want no errors", errs)
	}
}

func TestCheckMandatoryChoiceDefaultConflict(t *testing.T) {
	ms := mustProcess(t, map[string]string{
		"dev": `
			module dev {
				prefix d;
				namespace "urn:d";

				choice c {
					default "a";
					case a {
						leaf a { type string; }
					}
					case b {
						leaf b {
							type string;
							mandatory true;
						}
					}
				}
			}`,
	})

	e := ToEntry(ms.Modules["dev"])
	errs := CheckMandatory(e)
	if len(errs) == 0 {
		t.Fatalf("CheckMandatory() = no errors, want a violation for case b's mandatory leaf")
	}
}
