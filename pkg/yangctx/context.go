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

// Package yangctx provides the compilation entry points needed by a caller
// that never touches pkg/yang's Modules directly: compile-from-buffer,
// compile-from-path, and the feature-enable/-disable/-state/-list family.
// It is a thin orchestration layer over pkg/yang's Modules (the module
// registry) and pkg/schemaindex's trie (the path index), kept in its own
// package so pkg/yang itself never needs to import the index it feeds.
package yangctx

import (
	"fmt"
	"io/ioutil"

	"github.com/nilgiri/yangcore/pkg/schemaindex"
	"github.com/nilgiri/yangcore/pkg/yang"
)

// Context is the compiled-module registry: every module compiled through
// one Context shares one yang.Modules set and its feature state. Identity
// and typedef resolution use pkg/yang's package-level dictionaries, which
// are not scoped to a Context.
type Context struct {
	modules *yang.Modules
	index   *schemaindex.Index
}

// New returns an empty Context, ready for CompileFromBuffer/CompileFromPath.
func New() *Context {
	return &Context{modules: yang.NewModules()}
}

// CompileFromBuffer parses and registers a YANG module from in-memory
// source, without re-running the full fixed-point Process over every
// previously compiled module until Finish is called.
func (c *Context) CompileFromBuffer(name string, src []byte) error {
	return c.modules.Parse(string(src), name)
}

// CompileFromPath reads, parses and registers a YANG module from a
// filesystem path.
func (c *Context) CompileFromPath(path string) error {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("yangctx: %v", err)
	}
	return c.modules.Parse(string(src), path)
}

// Finish runs the builder/resolver/post-processor pipeline (yang.Modules.Process)
// over every module registered so far and builds the schema path index used
// by Lookup and HasPrefix.  It must be called once after every
// CompileFromBuffer/CompileFromPath call and before any other Context
// method.
func (c *Context) Finish() []error {
	errs := c.modules.Process()
	if len(errs) > 0 {
		return errs
	}
	idx := schemaindex.New()
	for _, m := range c.modules.Modules {
		for _, e := range yang.ToEntry(m).Dir {
			sub := schemaindex.Build(e)
			for _, p := range sub.Paths() {
				idx.Add(sub.Lookup(p))
			}
		}
	}
	c.index = idx
	return nil
}

// Lookup returns the Entry at the exact canonical path, or nil.
func (c *Context) Lookup(path string) *yang.Entry {
	if c.index == nil {
		return nil
	}
	return c.index.Lookup(path)
}

// HasPrefix reports whether any compiled node's path starts with prefix.
func (c *Context) HasPrefix(prefix string) bool {
	return c.index != nil && c.index.HasPrefix(prefix)
}

// FeatureEnable implements the feature-enable operation.
func (c *Context) FeatureEnable(name string) { c.modules.FeatureEnable(name) }

// FeatureDisable implements the feature-disable operation.
func (c *Context) FeatureDisable(name string) { c.modules.FeatureDisable(name) }

// FeatureState implements the feature-state operation.
func (c *Context) FeatureState(name string) (enabled, found bool) {
	return c.modules.FeatureState(name)
}

// FeatureList implements the feature-list operation.
func (c *Context) FeatureList() []*yang.Feature {
	return c.modules.FeatureList()
}

// Modules returns the underlying module registry, for callers that need
// direct access to Modules.GetModule/FindModule and similar.
func (c *Context) Modules() *yang.Modules {
	return c.modules
}
