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

// This file implements the post-processing duties that only make sense
// once every module's Entry tree exists and the resolver has reached a
// fixed point: deviation activation, access-control and status
// inheritance, and feature-state computation.  Augment splicing itself
// stays in Modules.Process (modules.go), which already runs its own
// repeat-until-no-progress loop over Entry.Augment; the duties here all
// assume that loop has already completed.

import "fmt"

// ApplyDeviate applies every deviation statement found directly under e (a
// module or submodule Entry) to its target, returning any errors
// encountered.  e.Deviations is populated by ToEntry's generic "deviation"
// case.
func (e *Entry) ApplyDeviate() []error {
	var errs []error
	for _, d := range e.Deviations {
		target := e.Find(d.Name)
		if target == nil {
			errs = append(errs, fmt.Errorf("%s: deviation target not found: %s", Source(d), d.Name))
			continue
		}

		if tm := target.Module(); tm != nil && tm != e.Module() {
			tm.Deviated = true
			tm.DeviatedBy = appendModuleIfAbsent(tm.DeviatedBy, e.Node.(*Module))
			markDeviatingImport(e.Node.(*Module), tm)
		}

		for _, sd := range d.Deviate {
			if err := applyDeviate(target, sd); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

func appendModuleIfAbsent(mods []*Module, m *Module) []*Module {
	for _, existing := range mods {
		if existing == m {
			return mods
		}
	}
	return append(mods, m)
}

// markDeviatingImport tags the import statement in deviator that brings in
// target's module as a direct deviator, per the back-import
// tagging.
func markDeviatingImport(deviator *Module, target *Module) {
	for _, i := range deviator.Import {
		if i.Module == target {
			i.External = ExternalDirectDeviator
			return
		}
	}
}

// applyDeviate applies one deviate statement to target, per RFC 7950
// §7.20.3.2's not-supported/add/replace/delete semantics.
func applyDeviate(target *Entry, sd *Deviate) error {
	switch sd.Name {
	case "not-supported":
		if ParseOptions.DeviateOptions.IgnoreDeviateNotSupported {
			return nil
		}
		if p := target.Parent; p != nil {
			if p.Kind == DirectoryEntry && p.Key != "" && isListKeyName(p.Key, target.Name) {
				return fmt.Errorf("%s: deviation marks list key %q of %s as not-supported", Source(sd), target.Name, p.Name)
			}
			delete(p.Dir, target.Name)
		}
		return nil
	case "add":
		if sd.Config != nil {
			if v, err := configValue(sd, sd.Config); err == nil {
				target.Config = v
			}
		}
		if sd.Default != nil {
			target.Default = sd.Default.Name
		}
		if sd.Mandatory != nil {
			if v, err := configValue(sd, sd.Mandatory); err == nil {
				target.Mandatory = v
			}
		}
		if sd.MinElements != nil || sd.MaxElements != nil {
			if target.ListAttr == nil {
				target.ListAttr = &ListAttr{}
			}
			if sd.MinElements != nil {
				target.ListAttr.MinElements = sd.MinElements
			}
			if sd.MaxElements != nil {
				target.ListAttr.MaxElements = sd.MaxElements
			}
		}
		if len(sd.Unique) > 0 {
			target.Unique = append(target.Unique, sd.Unique...)
		}
	case "replace":
		if sd.Type != nil {
			target.Type = sd.Type.YangType
		}
		if sd.Config != nil {
			if v, err := configValue(sd, sd.Config); err == nil {
				target.Config = v
			}
		}
		if sd.Default != nil {
			target.Default = sd.Default.Name
		}
		if sd.Mandatory != nil {
			if v, err := configValue(sd, sd.Mandatory); err == nil {
				target.Mandatory = v
			}
		}
		if sd.MinElements != nil && target.ListAttr != nil {
			target.ListAttr.MinElements = sd.MinElements
		}
		if sd.MaxElements != nil && target.ListAttr != nil {
			target.ListAttr.MaxElements = sd.MaxElements
		}
	case "delete":
		if sd.Default != nil && target.Default == sd.Default.Name {
			target.Default = ""
		}
		if len(sd.Unique) > 0 {
			target.Unique = removeValues(target.Unique, sd.Unique)
		}
	default:
		return fmt.Errorf("%s: unknown deviate argument: %s", Source(sd), sd.Name)
	}
	return nil
}

func removeValues(from, remove []*Value) []*Value {
	var out []*Value
	for _, v := range from {
		skip := false
		for _, r := range remove {
			if v.Name == r.Name {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, v)
		}
	}
	return out
}

// InheritProperties propagates config-false status and computes the
// HasConfigFalseDescendant shortcut downward from e. A
// child's config state defaults to its parent's; an explicit config
// statement on the child always wins.  Groupings and the boundary between a
// leaf-list and its own (synthetic) descendants are not walked, since
// config never applies across those boundaries.
func (e *Entry) InheritProperties() {
	e.inheritConfig(TSUnset)
}

func (e *Entry) inheritConfig(parent TriState) {
	if e == nil {
		return
	}
	if e.Config == TSUnset {
		if parent == TSUnset {
			e.Config = TSTrue
		} else {
			e.Config = parent
		}
	}
	if e.Config == TSFalse {
		for p := e.Parent; p != nil; p = p.Parent {
			p.HasConfigFalseDescendant = true
		}
	}
	for _, c := range e.Dir {
		c.inheritConfig(e.Config)
	}
}

// ComputeFeatureState walks every feature reachable from m and sets
// Feature.Enabled: a feature is enabled iff it has not
// been administratively disabled and every predicate feature it depends on
// (via if-feature) is itself enabled.  disabled names features turned off
// by the caller (Context.FeatureDisable); a feature absent from disabled
// defaults to enabled, matching RFC 7950's "all features enabled unless
// told otherwise".
func ComputeFeatureState(m *Module, disabled map[string]bool) {
	seen := map[*Feature]bool{}
	for _, f := range m.Feature {
		computeFeatureState(f, disabled, seen)
	}
}

func computeFeatureState(f *Feature, disabled map[string]bool, seen map[*Feature]bool) bool {
	if seen[f] {
		// A cycle in if-feature predicates; treat as enabled rather
		// than looping, the resolver's iffeat discharge already
		// reports unresolvable predicates separately.
		return f.Enabled
	}
	seen[f] = true

	if disabled[f.Name] {
		f.Enabled = false
		return false
	}
	f.Enabled = true
	for _, p := range f.predicates {
		if !computeFeatureState(p, disabled, seen) {
			f.Enabled = false
			break
		}
	}
	return f.Enabled
}

// IsDisabled reports whether e is excluded from the schema because one of
// its if-feature predicates resolves to a disabled feature. The result is
// cached on first call.
func (e *Entry) IsDisabled() bool {
	if e.disablingFeature != nil {
		return true
	}
	for _, v := range e.IfFeature {
		f := FindFeature(e.Node, v.Name, map[string]bool{})
		if f != nil && !f.Enabled {
			e.disablingFeature = f
			return true
		}
	}
	return false
}
