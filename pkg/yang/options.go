// Copyright 2017 Google Inc.
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

// Options controls non-default compilation behavior, set via a Modules'
// ParseOptions field before Read/Parse is called.
type Options struct {
	// IgnoreSubmoduleCircularDependencies, when true, allows a submodule
	// to (transitively) include itself rather than rejecting the module
	// set outright.
	IgnoreSubmoduleCircularDependencies bool

	// StoreUses, when true, makes each Entry expanded from a grouping
	// remember the Uses statement it came from.
	StoreUses bool

	// DeviateOptions controls how deviation statements are applied.
	DeviateOptions DeviateOptions
}

// DeviateOptions controls how deviate statements are applied during
// post-processing.
type DeviateOptions struct {
	// IgnoreDeviateNotSupported, when true, keeps a node that a "deviate
	// not-supported" statement targets instead of removing it. Useful
	// when a caller wants one AST that covers several deployment targets
	// with differing support for a given node, rather than building a
	// separate AST per target.
	IgnoreDeviateNotSupported bool
}

// DeviateOpt is implemented by types that can be passed as a deviation
// option; today only DeviateOptions does.
type DeviateOpt interface {
	IsDeviateOpt()
}

// IsDeviateOpt makes DeviateOptions a DeviateOpt.
func (DeviateOptions) IsDeviateOpt() {}

func hasIgnoreDeviateNotSupported(opts []DeviateOpt) bool {
	for _, o := range opts {
		if d, ok := o.(DeviateOptions); ok && d.IgnoreDeviateNotSupported {
			return true
		}
	}
	return false
}
