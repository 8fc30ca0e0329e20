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

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// AddPath adds the directories specified in paths, each a colon separated
// list of directory names, to ms.Path, skipping any already present. A
// directory of the form dir/... also matches every subdirectory of dir,
// recursively.
func (ms *Modules) AddPath(paths ...string) {
	if ms.pathSeen == nil {
		ms.pathSeen = map[string]bool{}
	}
	for _, p := range paths {
		for _, dir := range strings.Split(p, ":") {
			if !ms.pathSeen[dir] {
				ms.pathSeen[dir] = true
				ms.Path = append(ms.Path, dir)
			}
		}
	}
}

// PathsWithModules returns every directory at or under root that contains
// at least one ".yang" file.
func PathsWithModules(root string) (paths []string, err error) {
	seen := map[string]bool{}
	filepath.Walk(root, func(p string, info os.FileInfo, e error) error {
		if e != nil {
			err = e
			return e
		}
		if info == nil || info.IsDir() || !strings.HasSuffix(p, ".yang") {
			return nil
		}
		dir := path.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			paths = append(paths, dir)
		}
		return nil
	})
	return paths, err
}

// readFile is overridden in tests.
var readFile = ioutil.ReadFile

// findFile locates the source for module or submodule name, returning its
// resolved path and contents. A bare name with no "/" and no ".yang" suffix
// has ".yang" appended. The current directory is always tried first; if
// that fails and name contains no "/", every entry of ms.Path is searched
// in turn, each directory resolved to a candidate file by scanDir. The
// directory a hit is found in is remembered in ms.Path so a later relative
// import from that module resolves siblings the same way.
func (ms *Modules) findFile(name string) (string, string, error) {
	slash := strings.Index(name, "/")
	if slash < 0 && !strings.HasSuffix(name, ".yang") {
		name += ".yang"
	}

	if data, err := readFile(name); err == nil {
		ms.AddPath(path.Dir(name))
		return name, string(data), nil
	} else if slash >= 0 {
		return "", "", fmt.Errorf("no such file: %s", name)
	}

	for _, dir := range ms.Path {
		recurse := false
		d := dir
		if path.Base(dir) == "..." {
			recurse = true
			d = path.Dir(dir)
		}
		n := scanDir(d, name, recurse)
		if n == "" {
			continue
		}
		if data, err := readFile(n); err == nil {
			return n, string(data), nil
		}
	}
	return "", "", fmt.Errorf("no such file: %s", name)
}

// scanDir resolves name to a concrete file under dir, optionally searching
// subdirectories of dir too. It is a package variable so tests can stub it
// out; production code always leaves it at its default, findInDir.
var scanDir = findInDir

// findInDir resolves name (e.g. "foo.yang") to a file under dir: either an
// exact match, or a revision-qualified variant "foo@yyyy-mm-dd.yang" —
// entries whose date does not parse are ignored. If recurse is false, only
// dir's direct entries are considered, and among revision matches the
// latest date wins. If recurse is true, dir's whole subtree is searched;
// an exact match anywhere takes priority, otherwise the single latest
// revision match found anywhere in the subtree wins, even if a shallower
// directory also has a (necessarily older, or absent) match.
func findInDir(dir, name string, recurse bool) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	prefix := base + "@"

	var bestPath, bestRev string
	var walk func(dir string) bool
	walk = func(dir string) bool {
		fis, err := ioutil.ReadDir(dir)
		if err != nil {
			return false
		}
		for _, fi := range fis {
			if fi.IsDir() {
				if recurse && walk(path.Join(dir, fi.Name())) {
					return true
				}
				continue
			}
			fn := fi.Name()
			if fn == name {
				bestPath = path.Join(dir, fn)
				return true
			}
			if !strings.HasPrefix(fn, prefix) || !strings.HasSuffix(fn, ext) {
				continue
			}
			rev := strings.TrimSuffix(strings.TrimPrefix(fn, prefix), ext)
			if _, err := time.Parse("2006-01-02", rev); err != nil {
				continue
			}
			if rev > bestRev {
				bestRev = rev
				bestPath = path.Join(dir, fn)
			}
		}
		return false
	}
	walk(dir)
	return bestPath
}
