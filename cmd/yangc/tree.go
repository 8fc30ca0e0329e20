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

package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/nilgiri/yangcore/pkg/indent"
	"github.com/nilgiri/yangcore/pkg/yang"
)

func init() {
	register(&formatter{
		name: "tree",
		f:    doTree,
		help: "display in a tree format",
	})
}

func doTree(w io.Writer, entries []*yang.Entry) {
	for _, e := range entries {
		writeEntry(w, e)
	}
}

// accessString labels an entry with the access implied by its position in
// the schema: an RPC (e.RPC set), a read-only entry (config false, or an
// RPC output), or ordinary read-write config.
func accessString(e *yang.Entry) string {
	switch {
	case e.RPC != nil:
		return "RPC: "
	case e.ReadOnly():
		return "RO: "
	default:
		return "rw: "
	}
}

// qualifiedName returns e's name, prefixed with e.Prefix when one is set.
// ToEntry sets Prefix on every directory entry (from its module) and on
// entries merged in from an included submodule, so those names are always
// qualified; other leaves are not.
func qualifiedName(e *yang.Entry) string {
	if e.Prefix != nil {
		return e.Prefix.Name + ":" + e.Name
	}
	return e.Name
}

// writeEntry writes e, formatted, and all of its children, to w.
func writeEntry(w io.Writer, e *yang.Entry) {
	if e.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(indent.NewWriter(w, "// "), e.Description)
	}
	if len(e.Exts) > 0 {
		fmt.Fprintf(w, "extensions: {\n")
		for _, ext := range e.Exts {
			if n := ext.NName(); n != "" {
				fmt.Fprintf(w, "  %s %s;\n", ext.Kind(), n)
			} else {
				fmt.Fprintf(w, "  %s;\n", ext.Kind())
			}
		}
		fmt.Fprintln(w, "}")
	}
	fmt.Fprint(w, accessString(e))
	if e.Type != nil {
		fmt.Fprintf(w, "%s ", getTypeName(e))
	}
	name := qualifiedName(e)
	switch {
	case e.Dir == nil && e.ListAttr != nil:
		fmt.Fprintf(w, "[]%s\n", name)
		return
	case e.Dir == nil:
		fmt.Fprintf(w, "%s\n", name)
		return
	case e.ListAttr != nil:
		fmt.Fprintf(w, "[%s]%s {\n", e.Key, name) //}
	default:
		fmt.Fprintf(w, "%s {\n", name) //}
	}
	if r := e.RPC; r != nil {
		if r.Input != nil {
			writeEntry(indent.NewWriter(w, "  "), r.Input)
		}
		if r.Output != nil {
			writeEntry(indent.NewWriter(w, "  "), r.Output)
		}
	}
	var names []string
	for k := range e.Dir {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		writeEntry(indent.NewWriter(w, "  "), e.Dir[k])
	}
	// Matches the opening brace above; kept on its own line for brace
	// balance when skimming the output.
	fmt.Fprintln(w, "}")
}

// getTypeName returns e's resolved builtin type name, or "" if e isn't
// typed (a container or list, say).
func getTypeName(e *yang.Entry) string {
	if e == nil || e.Type == nil {
		return ""
	}
	return e.Type.Root.Name
}
