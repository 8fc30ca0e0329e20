// Copyright 2016 Google Inc.
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

// Identity-statement resolution: building the "prefix:name" -> Identity
// lookup table, chasing base statements across module boundaries, and
// hoisting every indirect descendant of an identity into its Values.

package yang

import (
	"fmt"
	"sync"
)

// resolvedIdentity pairs an Identity with the Module it was declared in,
// which is what disambiguates same-named identities from different
// modules.
type resolvedIdentity struct {
	Module   *Module
	Identity *Identity
}

func (r resolvedIdentity) isEmpty() bool {
	return r.Module == nil && r.Identity == nil
}

// identityDictionary maps an identity's "prefix:name" spelling, within
// its declaring module, to its resolvedIdentity. Building it is a
// whole-module-set operation (resolveIdentities), so it lives at package
// scope rather than on *Modules; Process resets it before each run.
type identityDictionary struct {
	mu   sync.Mutex
	dict map[string]resolvedIdentity
}

var identities = identityDictionary{dict: map[string]resolvedIdentity{}}

// resolveIdentities populates the identities dictionary from every
// identity statement reachable from ms (including those hoisted up from
// included submodules), links each identity that has a base statement to
// that base's resolvedIdentity, and then recursively flattens every
// identity's transitive descendants into its Values slice.
func (ms *Modules) resolveIdentities() []error {
	identities.mu.Lock()
	defer identities.mu.Unlock()

	for _, mod := range ms.Modules {
		registerIdentities(mod, mod.Identities())
		for _, in := range mod.Include {
			if in.Module != nil {
				registerIdentities(in.Module, in.Module.Identities())
			}
		}
	}

	var errs []error
	for _, r := range identities.dict {
		if r.Identity.Base == nil {
			continue
		}
		base, baseErrs := RootNode(r.Identity).findIdentityBase(r.Identity.Base.asString())
		if len(baseErrs) > 0 {
			errs = append(errs, baseErrs...)
			continue
		}
		base.Identity.Values = append(base.Identity.Values, r.Identity)
	}

	for _, r := range identities.dict {
		var flattened []*Identity
		for _, child := range r.Identity.Values {
			flattened = collectDescendants(child, flattened)
		}
		r.Identity.Values = flattened
	}
	return errs
}

func registerIdentities(m *Module, ids []*Identity) {
	for _, i := range ids {
		identities.dict[i.PrefixedName()] = resolvedIdentity{Module: m, Identity: i}
	}
}

// collectDescendants appends root, then every identity reachable from it
// through Values, onto ids, skipping entries already present.
func collectDescendants(root *Identity, ids []*Identity) []*Identity {
	for _, existing := range ids {
		if existing == root {
			return ids
		}
	}
	ids = append(ids, root)
	for _, child := range root.Values {
		ids = collectDescendants(child, ids)
	}
	return ids
}

// findIdentityBase resolves baseStr, an identity reference as it appears
// in a base statement, to its resolvedIdentity in the context of module
// mod: baseStr may be unprefixed or prefixed with mod's own prefix for a
// local identity, or prefixed with an imported module's prefix for a
// remote one.
func (mod *Module) findIdentityBase(baseStr string) (*resolvedIdentity, []error) {
	prefix, name := getPrefix(baseStr)
	source := Source(mod)

	if prefix == "" || prefix == mod.GetPrefix() {
		key := fmt.Sprintf("%s:%s", mod.GetPrefix(), name)
		base, ok := identities.dict[key]
		if !ok {
			return &base, []error{fmt.Errorf("%s: can't resolve the local base %s as %s", source, baseStr, key)}
		}
		return &base, nil
	}

	if base, ok := identities.dict[baseStr]; ok {
		return &base, nil
	}

	remote := FindModuleByPrefix(mod, prefix)
	if remote == nil {
		return &resolvedIdentity{}, []error{fmt.Errorf("%s: can't find external module with prefix %s", source, prefix)}
	}

	for _, candidate := range remote.Identities() {
		if candidate.Name != name {
			continue
		}
		if base, ok := identities.dict[candidate.PrefixedName()]; ok {
			return &base, nil
		}
		return &resolvedIdentity{}, []error{fmt.Errorf("%s: can't find base %s", source, baseStr)}
	}
	return &resolvedIdentity{}, []error{fmt.Errorf("%s: can't resolve remote base %s", source, baseStr)}
}
