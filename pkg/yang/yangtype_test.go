// Copyright 2021 Google Inc.
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
	"testing"
)

// TestYangTypeEqual checks (*YangType).Equal field-by-field, including
// its nil-handling and the fields it deliberately ignores (Name).
func TestYangTypeEqual(t *testing.T) {
	cases := []struct {
		name  string
		left  *YangType
		right *YangType
		equal bool
	}{
		{
			name:  "both-nil",
			equal: true,
		},
		{
			name:  "one-nil",
			left:  &YangType{Kind: Ydecimal64, FractionDigits: 5},
			equal: false,
		},
		{
			name:  "name-unequal",
			left:  &YangType{Name: "foo", Kind: Ydecimal64, FractionDigits: 5},
			right: &YangType{Name: "bar", Kind: Ydecimal64, FractionDigits: 5},
			equal: true, // Name carries no type information
		},
		{
			name:  "fraction-digits-unequal",
			left:  &YangType{Name: "foo", Kind: Ydecimal64, FractionDigits: 5},
			right: &YangType{Name: "foo", Kind: Ydecimal64, FractionDigits: 4},
			equal: false,
		},
		{
			name:  "kind-unequal",
			left:  &YangType{Name: "foo", Kind: Ydecimal64, FractionDigits: 5},
			right: &YangType{Name: "foo", Kind: Yint64},
			equal: false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.left.Equal(c.right); got != c.equal {
				t.Errorf("left.Equal(right) = %v, want %v", got, c.equal)
			}
			if got := c.right.Equal(c.left); got != c.equal {
				t.Errorf("right.Equal(left) = %v, want %v (Equal must be symmetric)", got, c.equal)
			}
		})
	}
}
