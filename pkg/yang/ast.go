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

// Reflection-driven construction of a typed AST (the Node types declared
// in yang.go) from the generic Statement tree Parse produces. initTypes
// walks a Node's struct tags once at init time and builds, per keyword, a
// closure that knows how to populate that field from a substatement;
// build then replays those closures over an actual Statement tree.

package yang

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// fieldSetter populates one field of a Node being built from a Statement.
// s is normally the substatement that named the field; v is the
// reflect.Value of the Node (a pointer) being filled in; p is its parent
// Node, supplied only to the synthetic "Parent" field.
type fieldSetter func(s *Statement, v, p reflect.Value) error

// yangStatement holds everything needed to build one kind of Node out of
// a Statement: a setter per substatement keyword it understands
// (funcs), which of those keywords must appear (required, and
// sRequired for keywords that are only mandatory — or only legal — under
// one alias such as module vs submodule), and a fallback (addext) for
// prefixed, extension-style keywords with no dedicated setter.
type yangStatement struct {
	funcs     map[string]fieldSetter
	required  []string
	sRequired map[string][]string
	addext    fieldSetter
}

var (
	// typeMap holds the built yangStatement for every Node type reachable
	// from meta, keyed by that type's reflect.Type (a pointer type).
	typeMap = map[reflect.Type]*yangStatement{}
	// nameMap resolves a YANG keyword to the Node pointer type that
	// parses it, so build need not walk typeMap looking for a match.
	nameMap = map[string]reflect.Type{}

	statementType = reflect.TypeOf(&Statement{})
	nilValue      = reflect.ValueOf(nil)
	nodeType      = reflect.TypeOf(struct{ Node }{}).Field(0).Type
)

// meta is a collection of possible top level statements.  There is no actual
// statement named "meta".  All other statements are a sub-statement of one
// of the meta statements.
type meta struct {
	Module []*Module `yang:"module"`
}

func init() {
	initTypes(reflect.TypeOf(&meta{}))
}

// aliases maps a keyword onto another keyword that parses it identically;
// submodule bodies are structurally the same as module bodies bar a few
// sRequired-gated fields, so they share one yangStatement.
var aliases = map[string]string{
	"submodule": "module",
}

// BuildAST builds an abstract syntax tree based on the yang statement s.
// Normally it should return a *Module.
func BuildAST(s *Statement) (Node, error) {
	v, err := build(s, nilValue)
	if err != nil {
		return nil, err
	}
	return v.Interface().(Node), nil
}

func resolveAlias(keyword string) string {
	if a := aliases[keyword]; a != "" {
		return a
	}
	return keyword
}

// build builds and returns an AST from the statement s, with parent p, or
// returns an error.  The type of value returned depends on the keyword in s.
func build(s *Statement, p reflect.Value) (v reflect.Value, err error) {
	defer func() {
		// If we are returning a real Node then call addTypedefs
		// if the node possibly contains typedefs.
		if err != nil || v == nilValue {
			return
		}
		if t, ok := v.Interface().(Typedefer); ok {
			typeDict.addTypedefs(t)
		}
	}()

	nt := nameMap[resolveAlias(s.Keyword)]
	if nt == nil {
		// It is not an error if this is an extension.
		if strings.Index(s.Keyword, ":") > 0 {
			return nilValue, nil
		}
		return nilValue, fmt.Errorf("%s: unknown statement: %s", s.Location(), s.Keyword)
	}
	ys := typeMap[nt]
	seen := map[string]bool{}

	v = reflect.New(nt.Elem()) // v is a pointer to the structure we are building

	// Handle the special cases that are not actually substatements:
	// Name, Statement and Parent all take s (or p) directly rather than
	// being fed one of s's substatements.
	if fn := ys.funcs["Name"]; fn != nil {
		if err := fn(s, v, p); err != nil {
			return nilValue, err
		}
	}
	if fn := ys.funcs["Statement"]; fn != nil {
		if err := fn(s, v, p); err != nil {
			return nilValue, err
		}
	}
	if fn := ys.funcs["Parent"]; fn != nil {
		// p.IsValid is false only for a nil interface; the top-level
		// statement has no parent, so p arrives as nilValue there.
		if p.IsValid() {
			if err := fn(s, v, p); err != nil {
				return nilValue, err
			}
		}
	}

	for _, sub := range s.statements {
		seen[sub.Keyword] = true
		switch fn := ys.funcs[sub.Keyword]; {
		case fn != nil:
			if err := fn(sub, v, p); err != nil {
				return nilValue, err
			}
		case len(strings.Split(sub.Keyword, ":")) == 2:
			// Unrecognized but prefixed: treat as an extension.
			if ys.addext == nil {
				return nilValue, fmt.Errorf("%s: no extension function", sub.Location())
			}
			ys.addext(sub, v, p)
		default:
			return nilValue, fmt.Errorf("%s: unknown %s field: %s", sub.Location(), s.Keyword, sub.Keyword)
		}
	}

	for _, r := range ys.required {
		if !seen[r] {
			return nilValue, fmt.Errorf("%s: missing required %s field: %s", s.Location(), s.Keyword, r)
		}
	}
	// sRequired fields are conditioned on which alias of this type was
	// used (module vs submodule): the statement's own keyword must carry
	// every field it requires, and must carry none of the fields some
	// other keyword in the same family requires.
	for _, r := range ys.sRequired[s.Keyword] {
		if !seen[r] {
			return nilValue, fmt.Errorf("%s: missing required %s field: %s", s.Location(), s.Keyword, r)
		}
	}
	for keyword, fields := range ys.sRequired {
		if keyword == s.Keyword {
			continue
		}
		for _, r := range fields {
			if seen[r] {
				return nilValue, fmt.Errorf("%s: unknown %s field: %s", s.Location(), s.Keyword, r)
			}
		}
	}
	return v, nil
}

// initTypes builds up the functions necessary to parse a Statement into the
// type at.  at must be a of type pointer to structure and that structure should
// implement Node.  For each field of the structure with a yang tag (e.g.,
// `yang:"command"`), a function is created and "command" is mapped to it.  The
// complete map is then added to the typeMap map with at as the key.
//
// The functions have the form:
//
//	 func fn(ss *Statement, v, p reflect.Value) error
//
// Given s as a statement of type at, ss is a substatement of s (in a few
// exceptional cases, ss is the Statement itself).  v must have the type at and
// is the structure being filled in.  p is the parent Node, or nil.  p is only
// used to set the Parent field of a Node.  For example, given the following
// structure and variables:
//
//	type Include struct {
//		Name         string       `yang:"Name"`
//		Source       *Statement   `yang:"Statement"`
//		Parent       Node         `yang:"Parent"`
//		Extensions   []*Statement `yang:"Ext"`
//		RevisionDate *Value       `yang:"revision-date"`
//	}
//
//	var inc = &Include{}
//	var vInc = reflect.ValueOf(inc)
//	var tInc = reflect.TypeOf(inc)
//
// Functions are created for each fields and named Name, Statement, Parent, Ext,
// and revision-date.
//
// The function built for RevisionDate will be called for any substatement,
// ds, of s that has the keyword "revision-date" along with the value of
// vInc and its parent:
//
//	typeMap[tInc]["revision-date"](ss, vInc, parent)
//
// Normal fields are all processed this same way.
//
// The other 4 fields are special.  In the case of Name, Statement, and Parent,
// the function is passed s, rather than ss, as these fields are not filled in
// by substatements.
//
// The Name command must set its field to the Statement's argument.  The
// Statement command must set its field to the Statement itself.  The
// Parent command must set its field with the Node of its parent (the
// parent parameter).
//
// The Ext command is unique and must decode into a []*Statement.  This is a
// slice of all statements that use unknown keywords with a prefix (in a valid
// .yang file these should be the extensions).
//
// The Field can have attributes delimited by a ','.  The only
// supported attributes are:
//
//    nomerge:       Do not merge this field
//    required:      This field must be populated
//    required=KIND: This field must be populated if the keyword is KIND
//                   otherwise this field must not be present.
//                   (This is to support merging Module and SubModule).
//
// If at contains substructures, initTypes recurses on the substructures.
func initTypes(at reflect.Type) {
	if typeMap[at] != nil {
		return // we already defined this type
	}
	if at.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("interface not a pointer, is %v", at))
	}
	st := at.Elem()
	if st.Kind() != reflect.Struct {
		panic("interface not a pointer to struct")
	}

	ys := &yangStatement{
		funcs:     make(map[string]fieldSetter, st.NumField()),
		sRequired: make(map[string][]string),
	}
	typeMap[at] = ys

	for i := 0; i < st.NumField(); i++ {
		if fn, name := buildFieldSetter(at, st.Field(i), i, ys); fn != nil {
			ys.funcs[name] = fn
		}
	}
}

// buildFieldSetter inspects field f (at index i of the struct at points
// to) for a `yang:"..."` tag and, if present, records any required/
// sRequired attributes on ys and returns the fieldSetter for that field
// along with its resolved name. A field with no yang tag, or the "Ext"
// field (handled separately via ys.addext), yields a nil setter.
func buildFieldSetter(at reflect.Type, f reflect.StructField, i int, ys *yangStatement) (fieldSetter, string) {
	tag := f.Tag.Get("yang")
	if tag == "" {
		return nil, ""
	}
	parts := strings.Split(tag, ",")
	name := resolveAlias(parts[0])

	const reqPrefix = "required="
	for _, attr := range parts[1:] {
		switch {
		case attr == "nomerge":
		case attr == "required":
			ys.required = append(ys.required, name)
		case strings.HasPrefix(attr, reqPrefix):
			kind := attr[len(reqPrefix):]
			ys.sRequired[kind] = append(ys.sRequired[kind], name)
		default:
			panic(f.Name + ": unknown tag: " + attr)
		}
	}

	if name == "Ext" {
		ys.addext = func(s *Statement, v, _ reflect.Value) error {
			requireType(v, at)
			fv := v.Elem().Field(i)
			fv.Set(reflect.Append(fv, reflect.ValueOf(s)))
			return nil
		}
		return nil, ""
	}

	return newFieldSetter(at, name, i, f.Type), name
}

func requireType(v reflect.Value, want reflect.Type) {
	if v.Type() != want {
		panic(fmt.Sprintf("given type %s, need type %s", v.Type(), want))
	}
}

// descendInto runs initTypes on dt, a Node pointer type used as the field
// type for keyword name, unless it has already been processed for some
// other field using the same keyword.
func descendInto(name string, dt reflect.Type) {
	switch nameMap[name] {
	case nil:
		nameMap[name] = dt
		initTypes(dt)
	case dt:
	default:
		panic("redeclared type " + name)
	}
}

// newFieldSetter builds the fieldSetter for field i of at (a Node pointer
// type), named name in the yang tag, whose Go type is ft.  The field may
// be a string (only for "Name"), a Node interface (only for "Parent"), a
// *Statement (only for "Statement"), a pointer to another Node type, or a
// slice of pointers to another Node type.
func newFieldSetter(at reflect.Type, name string, i int, ft reflect.Type) fieldSetter {
	switch ft.Kind() {
	case reflect.Interface:
		if name != "Parent" {
			panic(fmt.Sprintf("interface field is %s, not Parent", name))
		}
		return func(s *Statement, v, p reflect.Value) error {
			if !p.Type().Implements(nodeType) {
				panic(fmt.Sprintf("invalid interface: %v", ft.Kind()))
			}
			v.Elem().Field(i).Set(p)
			return nil
		}

	case reflect.String:
		if name != "Name" {
			panic(fmt.Sprintf("string field is %s, not Name", name))
		}
		return func(s *Statement, v, _ reflect.Value) error {
			requireType(v, at)
			fv := v.Elem().Field(i)
			if fv.String() != "" {
				return errors.New(s.Keyword + ": already set")
			}
			fv.SetString(s.Argument)
			return nil
		}

	case reflect.Ptr:
		if ft == statementType {
			if name != "Statement" {
				panic(fmt.Sprintf("string field is %s, not Statement", name))
			}
			return func(s *Statement, v, _ reflect.Value) error {
				requireType(v, at)
				v.Elem().Field(i).Set(reflect.ValueOf(s))
				return nil
			}
		}

		descendInto(name, ft)
		return func(s *Statement, v, p reflect.Value) error {
			requireType(v, at)
			fv := v.Elem().Field(i)
			if !fv.IsNil() {
				return errors.New(s.Keyword + ": already set")
			}
			sv, err := build(s, v)
			if err != nil {
				return err
			}
			fv.Set(sv)
			return nil
		}

	case reflect.Slice:
		// A slice field always holds pointers to substructures; the same
		// keyword can appear more than once, each occurrence appending.
		et := ft.Elem()
		if et.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("invalid type: %v", et.Kind()))
		}
		descendInto(name, et)
		return func(s *Statement, v, p reflect.Value) error {
			requireType(v, at)
			sv, err := build(s, v)
			if err != nil {
				return err
			}
			fv := v.Elem().Field(i)
			fv.Set(reflect.Append(fv, sv))
			return nil
		}

	default:
		panic(fmt.Sprintf("invalid type: %v", ft.Kind()))
	}
}
