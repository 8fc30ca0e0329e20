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

// Package yang compiles YANG source (RFC 6020/7950) into a resolved schema
// tree.
//
// A YANG statement is one of:
//
//	keyword [argument] ;
//	keyword [argument] { [statement [...]] }
//
// Parse turns source text into a generic statement tree without attempting
// to validate anything beyond syntax; BuildAST then type-checks that tree
// against the reflection tags on this package's Node types, producing a
// *Module. Compiling a module all the way to a resolved *Entry schema tree
// additionally needs a Modules registry, since imports, includes, uses,
// augments and deviations can all reach across module boundaries:
//
//	ms := yang.NewModules()
//	if err := ms.Read("module-name"); err != nil {
//		log.Fatal(err)
//	}
//	if errs := ms.Process(); len(errs) > 0 {
//		for _, err := range errs {
//			fmt.Fprintln(os.Stderr, err)
//		}
//		os.Exit(1)
//	}
//	e := yang.ToEntry(ms.Modules["module-name"])
//
// GetModule and Modules.GetModule wrap this sequence (Read/Parse, then
// Process, then ToEntry) for the common case of compiling one named
// module, searching the working directory and any directory registered in
// ms.Path (see Modules.AddPath) for a "module-name.yang" source file.
package yang
