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
	"os"
	"strings"

	"github.com/nilgiri/yangcore/pkg/yang"
	"github.com/pborman/getopt"
)

func init() {
	flags := getopt.New()
	register(&formatter{
		name:              "oc-versions",
		f:                 doOcVersions,
		includeSubmodules: true,
		help:              "output files that describe a non-null schema",
		flags:             flags,
	})
}

func doOcVersions(w io.Writer, entries []*yang.Entry) {
	for _, e := range entries {
		m, ok := e.Node.(*yang.Module)
		if !ok {
			fmt.Fprintf(os.Stderr, "error: cannot convert entry %q to *yang.Module", e.Name)
			continue
		}
		printOcVersion(w, m)
	}
}

// printOcVersion scans m's top-level extension statements for an
// "openconfig-version" tag rooted in openconfig-extensions, and emits one
// line naming m's module-version if found.
func printOcVersion(w io.Writer, m *yang.Module) {
	for _, ext := range m.Extensions {
		pfx, name, ok := splitExtKeyword(ext.Keyword)
		if !ok || name != "openconfig-version" {
			continue
		}
		extMod := yang.FindModuleByPrefix(m, pfx)
		switch {
		case extMod == nil:
			fmt.Fprintf(os.Stderr, "unable to find module using prefix %q from referencing module %q\n", pfx, m.Name)
		case extMod.Name == "openconfig-extensions":
			fmt.Fprintf(w, "%s.yang: openconfig-version:%q\n", m.Name, ext.Argument)
		}
	}
}

// splitExtKeyword splits a "prefix:name" extension keyword into its parts,
// reporting ok=false for anything that isn't exactly prefix-colon-name.
func splitExtKeyword(keyword string) (prefix, name string, ok bool) {
	parts := strings.Split(keyword, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
