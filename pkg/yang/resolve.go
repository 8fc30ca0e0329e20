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

// This file implements the resolver: the fixed-point pass that drains the
// unres set built up while walking the AST into Entry trees (entry.go).
// Each pass attempts every still-pending obligation; an obligation that
// cannot make progress this pass is kept for the next one.  The pass loop
// stops when either the set empties or a full pass discharges nothing, at
// which point every remaining entry is reported as a failure.  This mirrors
// the repeat-until-no-progress augment loop Modules.Process already ran
// (modules.go), generalized to every cross-reference kind libyang's
// resolve.c tracks via UNRES_*.

import (
	"strings"

	"github.com/golang/glog"
)

// pendingUnres is the package-global deferred-work set.  It is reset at the
// start of every Modules.Process run, matching the existing reset-on-entry
// convention for entryCache and mergedSubmodule.
var pendingUnres = newUnresSet()

// ifFeatureRef is the detail payload queued for UnresIfFeature: the
// statement node the if-feature appeared on (for prefix/module scoping)
// and the raw feature reference string.
type ifFeatureRef struct {
	node Node
	name string
}

// Resolver drains pendingUnres to a fixed point.
type Resolver struct {
	set *unresSet
}

// NewResolver returns a Resolver over the current pending obligations.
func NewResolver() *Resolver {
	return &Resolver{set: pendingUnres}
}

// Drain repeatedly attempts every pending obligation until a pass makes no
// progress, then reports every obligation still unresolved.  It returns the
// accumulated fatal errors; non-fatal diagnostics are folded in as *Issue
// values a caller can filter with FilterIssues.
func (r *Resolver) Drain() []error {
	var errs []error
	for pass := 0; ; pass++ {
		remaining := r.set.entries
		r.set.entries = nil
		progress := 0
		var carried []*unresEntry

		for _, u := range remaining {
			switch r.discharge(u) {
			case unresDone:
				progress++
			case unresFailed:
				progress++
				if u.issue != nil {
					errs = append(errs, u.issue)
				}
			case unresPending:
				carried = append(carried, u)
			}
		}

		// Newly queued obligations (e.g. a type-der discharge that
		// turns out to be a leafref queues type-leafref) were appended
		// to r.set.entries by discharge calls above; fold the carried
		// ones back in for the next pass.
		r.set.entries = append(r.set.entries, carried...)

		glog.V(1).Infof("unres pass %d: %d done, %d carried, %d new", pass, progress, len(carried), len(r.set.entries)-len(carried))

		if r.set.empty() {
			return errs
		}
		if progress == 0 {
			// No obligation in this pass could be discharged or
			// failed outright: nothing left can ever make
			// progress, so report the residue and stop.
			for _, u := range r.set.entries {
				errs = append(errs, r.residueError(u))
			}
			return errs
		}
	}
}

func (r *Resolver) residueError(u *unresEntry) error {
	return newIssue(KindUnresolvedReference, nil, "", "could not resolve %s obligation for %v", u.kind, u.subject)
}

// discharge attempts to satisfy one obligation, returning whether it
// succeeded, must wait, or can never succeed.
func (r *Resolver) discharge(u *unresEntry) unresStatus {
	switch u.kind {
	case UnresTypeDer:
		return r.dischargeTypeDer(u)
	case UnresTypeDerTpdf:
		return r.dischargeTypeDerTpdf(u)
	case UnresIdentBase:
		return r.dischargeIdentBase(u)
	case UnresListKeys:
		return r.dischargeListKeys(u)
	case UnresListUnique:
		return r.dischargeListUnique(u)
	case UnresTypeLeafref:
		return r.dischargeTypeLeafref(u)
	case UnresTypeIdentref:
		return r.dischargeTypeIdentref(u)
	case UnresTypeDflt:
		return r.dischargeTypeDflt(u)
	case UnresIfFeature:
		return r.dischargeIfFeature(u)
	case UnresChoiceDflt:
		return r.dischargeChoiceDflt(u)
	default:
		u.issue = newIssue(KindInternal, nil, "", "unhandled unres kind %s", u.kind)
		return unresFailed
	}
}

// dischargeTypeDer resolves the textual *Type on a leaf (or a deviation's
// replacement type) into a concrete *YangType, following types.go's
// existing facet-resolution algorithm.  Once resolved it queues the
// follow-up obligations (leafref target, identityref base, default value)
// that depend on the whole Entry tree already being wired.
func (r *Resolver) dischargeTypeDer(u *unresEntry) unresStatus {
	t := u.subject.(*Type)
	e, _ := u.detail.(*Entry)

	errs := t.resolve(&typeDict)
	if len(errs) != 0 {
		u.issue = errs[0]
		return unresFailed
	}
	if e != nil {
		e.Type = t.YangType
		switch {
		case t.YangType != nil && t.YangType.Kind == Yleafref:
			pendingUnres.add(UnresTypeLeafref, e, nil)
		case t.YangType != nil && t.YangType.Kind == Yidentityref:
			pendingUnres.add(UnresTypeIdentref, e, nil)
		}
		if e.Default != "" {
			pendingUnres.add(UnresTypeDflt, e, e.Default)
		}
	}
	return unresDone
}

// dischargeTypeDerTpdf is dispatchable for completeness, but in this
// implementation typedefs are resolved eagerly by Modules.process
// (types.go's resolveTypedefs) before any Entry is built, the same way
// identity bases are; Typedef.resolve is idempotent, so a queued
// obligation here is harmless even though no producer currently creates
// one.
func (r *Resolver) dischargeTypeDerTpdf(u *unresEntry) unresStatus {
	td := u.subject.(*Typedef)
	errs := td.resolve(&typeDict)
	if len(errs) != 0 {
		u.issue = errs[0]
		return unresFailed
	}
	return unresDone
}

// applyUsesRefinements applies a uses statement's refine overrides and
// nested augment to parent (the container/module the uses statement
// appears in), once entry.go's generic "uses" case has already merged the
// expanded grouping body into parent.Dir.  It runs synchronously rather
// than through the unres set: merge already re-duplicates the grouping's
// entries into parent.Dir and sets their Parent pointers before returning,
// so by the time this is called parent.Find can resolve refine's relative
// descendant paths directly; nothing here depends on the rest of the
// module tree existing yet.
func applyUsesRefinements(parent *Entry, s *Uses) {
	for _, ref := range s.Refine {
		target := parent.Find(ref.Name)
		if target == nil {
			parent.addError(newIssue(KindUnresolvedReference, s, ref.Name, "refine: no such descendant"))
			continue
		}
		applyRefine(target, ref)
	}

	if s.Augment != nil {
		ne := ToEntry(s.Augment)
		ne.Parent = parent
		parent.Augments = append(parent.Augments, ne)
	}
}

func applyRefine(e *Entry, ref *Refine) {
	if ref.Default != nil {
		e.Default = ref.Default.Name
	}
	if ref.Description != nil {
		e.Description = ref.Description.Name
	}
	if ref.Config != nil {
		if c, err := configValue(ref, ref.Config); err == nil {
			e.Config = c
		}
	}
	if ref.Presence != nil {
		e.Extra["presence"] = append(e.Extra["presence"], ref.Presence)
	}
	if ref.MinElements != nil || ref.MaxElements != nil {
		if e.ListAttr == nil {
			e.ListAttr = &ListAttr{}
		}
		if ref.MinElements != nil {
			e.ListAttr.MinElements = ref.MinElements
		}
		if ref.MaxElements != nil {
			e.ListAttr.MaxElements = ref.MaxElements
		}
	}
}

// dischargeIdentBase is dispatchable for completeness, but in this
// implementation identity base/derived linkage is resolved eagerly by
// Modules.process (identity.go's Modules.resolveIdentities), which
// already runs to its own fixed point before any Entry is built. No
// producer ever queues this kind; a residual entry here would indicate an
// internal bug rather than a forward reference.
func (r *Resolver) dischargeIdentBase(u *unresEntry) unresStatus {
	return unresDone
}

func (r *Resolver) dischargeListKeys(u *unresEntry) unresStatus {
	e := u.subject.(*Entry)
	seen := make(map[string]bool, len(e.Key))
	for _, name := range strings.Fields(e.Key) {
		if seen[name] {
			u.issue = newIssue(KindInvalidArgument, e.Node, e.Key, "list key %q is listed more than once", name)
			return unresFailed
		}
		seen[name] = true

		k := e.Dir[name]
		if k == nil {
			u.issue = newIssue(KindUnresolvedReference, e.Node, e.Key, "list key %q is not a child of the list", name)
			return unresFailed
		}
		if k.Kind != LeafEntry {
			u.issue = newIssue(KindInvalidArgument, e.Node, e.Key, "list key %q is not a leaf", name)
			return unresFailed
		}
	}
	return unresDone
}

// isListKeyName reports whether name appears in a list's whitespace
// separated key string.
func isListKeyName(key, name string) bool {
	for _, k := range strings.Fields(key) {
		if k == name {
			return true
		}
	}
	return false
}

func (r *Resolver) dischargeListUnique(u *unresEntry) unresStatus {
	e := u.subject.(*Entry)
	for _, v := range e.Unique {
		for _, path := range strings.Fields(v.Name) {
			if e.Find(path) == nil {
				u.issue = newIssue(KindUnresolvedReference, e.Node, path, "unique references a nonexistent descendant")
				return unresFailed
			}
		}
	}
	return unresDone
}

// dischargeTypeLeafref resolves a leaf's leafref path to its target Entry
// and records the back-edge, per the leafref invariants.  e.Parent
// must already be set by the caller of ToEntry for the path's relative ".."
// segments to resolve correctly, which is why this runs as its own
// obligation queued after type-der rather than inline in dischargeTypeDer.
func (r *Resolver) dischargeTypeLeafref(u *unresEntry) unresStatus {
	e := u.subject.(*Entry)
	if e.Parent == nil {
		return unresPending
	}
	if e.Type == nil || e.Type.Path == "" {
		u.issue = newIssue(KindMissingSubstatement, e.Node, e.Path(), "leafref has no path")
		return unresFailed
	}
	target := e.Find(e.Type.Path)
	if target == nil {
		return unresPending
	}
	if target.Type == nil {
		// The target exists but hasn't had its own type resolved
		// yet; wait for its type-der obligation to finish first.
		return unresPending
	}
	e.LeafrefTarget = target
	target.LeafrefReferers = append(target.LeafrefReferers, e)
	return unresDone
}

// dischargeTypeIdentref revalidates that an identityref type carries a
// resolved base; types.go's Type.resolve already performs the lookup
// eagerly via findIdentityBase (identities are fully populated before any
// Entry is built), so this is a confirmation pass rather than a true
// forward reference.
func (r *Resolver) dischargeTypeIdentref(u *unresEntry) unresStatus {
	e := u.subject.(*Entry)
	if e.Type == nil || e.Type.IdentityBase == nil {
		u.issue = newIssue(KindUnresolvedReference, e.Node, e.Path(), "identityref has no resolved base")
		return unresFailed
	}
	return unresDone
}

// dischargeTypeDflt validates a leaf's default value against its resolved
// type.  Per the Open Question, a default that names a leafref
// target is treated as failing only once the leafref resolution has
// reached a definitive verdict (succeeded or failed outright); while the
// target is merely still pending, this obligation keeps waiting rather
// than declaring failure.
func (r *Resolver) dischargeTypeDflt(u *unresEntry) unresStatus {
	e := u.subject.(*Entry)
	if e.Type == nil {
		return unresPending
	}
	switch e.Type.Kind {
	case Yleafref:
		if e.LeafrefTarget != nil {
			return unresDone
		}
		// Still waiting on type-leafref, unless it already failed
		// outright, in which case leave the default unvalidated: the
		// leafref error itself is the actionable diagnostic.
		for _, other := range pendingUnres.entries {
			if other.kind == UnresTypeLeafref && other.subject == e {
				return unresPending
			}
		}
		return unresDone
	case Yenum:
		if e.Type.Enum == nil || e.Type.Enum.IsDefined(u.detail.(string)) {
			return unresDone
		}
		u.issue = newIssue(KindInvalidArgument, e.Node, e.Path(), "default %q is not a valid enum value", u.detail)
		return unresFailed
	case Yidentityref:
		if e.Type.IdentityBase == nil {
			return unresPending
		}
		return unresDone
	default:
		return unresDone
	}
}

// dischargeIfFeature resolves an if-feature predicate to its Feature and
// records it so the post-processor's feature-state pass (postprocess.go)
// can compute enablement transitively.
func (r *Resolver) dischargeIfFeature(u *unresEntry) unresStatus {
	ref := u.detail.(ifFeatureRef)

	f := FindFeature(ref.node, ref.name, map[string]bool{})
	if f == nil {
		u.issue = newIssue(KindUnresolvedReference, ref.node, ref.name, "unknown feature")
		return unresFailed
	}
	// subject is either the Entry an if-feature statement disables, or
	// (when the if-feature is on a feature statement itself) the
	// predicate Feature whose transitive enablement postprocess.go's
	// computeFeatureState needs to walk.
	if parentFeature, ok := u.subject.(*Feature); ok {
		parentFeature.predicates = append(parentFeature.predicates, f)
	}
	return unresDone
}

func (r *Resolver) dischargeChoiceDflt(u *unresEntry) unresStatus {
	e := u.subject.(*Entry)
	v := u.detail.(*Value)
	if e.Dir[v.Name] == nil {
		u.issue = newIssue(KindUnresolvedReference, e.Node, e.Path(), "choice default %q names no case", v.Name)
		return unresFailed
	}
	return unresDone
}
