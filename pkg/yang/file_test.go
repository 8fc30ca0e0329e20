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
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestFindFile checks which candidate paths findFile probes readFile
// with, for a name and a configured search Path, without needing a real
// filesystem underneath it.
func TestFindFile(t *testing.T) {
	sep := string(os.PathSeparator)

	cases := []struct {
		name      string
		path      []string
		wantTried []string
	}{
		{
			name:      "one",
			wantTried: []string{"one.yang"},
		},
		{
			name:      "./two",
			wantTried: []string{"./two"},
		},
		{
			name:      "three.yang",
			wantTried: []string{"three.yang"},
		},
		{
			name:      "four",
			path:      []string{"dir1", "dir2"},
			wantTried: []string{"four.yang", "dir1" + sep + "four.yang", "dir2" + sep + "four.yang"},
		},
	}
	for _, c := range cases {
		var tried []string
		ms := NewModules()
		ms.Path = c.path
		readFile = func(path string) ([]byte, error) {
			tried = append(tried, path)
			return nil, errors.New("no such file")
		}
		scanDir = func(dir, name string, recurse bool) string {
			return filepath.Join(dir, name)
		}
		if _, _, err := ms.findFile(c.name); err == nil {
			t.Errorf("%s unexpectedly succeeded", c.name)
			continue
		}
		if !reflect.DeepEqual(c.wantTried, tried) {
			t.Errorf("%s: tried %v, want %v", c.name, tried, c.wantTried)
		}
	}
}

// TestScanForPathsAndAddModules exercises PathsWithModules against a
// testdata tree with modules spread across two directories, then checks
// that Modules.AddPath-ing the discovered directories makes every module
// in the tree loadable (and that a submodule still isn't).
func TestScanForPathsAndAddModules(t *testing.T) {
	readFile = ioutil.ReadFile // undo any mock left behind by another test

	paths, err := PathsWithModules("../../testdata")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Errorf("got %d paths imported, want 2 (testdata and testdata/subdir)", len(paths))
	}
	ms := NewModules()
	ms.AddPath(paths...)

	for _, name := range []string{"aug", "base", "other", "subdir1"} {
		if _, err := ms.GetModule(name); err != nil {
			t.Errorf("getting %s: %v", name, err)
		}
	}

	if _, err := ms.GetModule("sub"); err == nil {
		t.Error("want an error loading submodule 'sub' as a module, got nil")
	}
}

func TestFindInDir(t *testing.T) {
	testDir := "testdata/find-file-test"

	tests := []struct {
		desc      string
		inDir     string
		inName    string
		inRecurse bool
		want      string
	}{{
		desc:      "file not found",
		inDir:     testDir,
		inName:    "green.yang",
		inRecurse: true,
		want:      "",
	}, {
		desc:      "input directory does not exist",
		inDir:     filepath.Join(testDir, "dne"),
		inName:    "red.yang",
		inRecurse: true,
		want:      "",
	}, {
		desc:      "exact match",
		inDir:     testDir,
		inName:    "blue.yang",
		inRecurse: false,
		want:      filepath.Join(testDir, "blue.yang"),
	}, {
		desc:      "exact match, recursive",
		inDir:     testDir,
		inName:    "blue.yang",
		inRecurse: true,
		want:      filepath.Join(testDir, "blue.yang"),
	}, {
		desc:      "exact match with non-standard name",
		inDir:     testDir,
		inName:    "non-standard.name",
		inRecurse: false,
		want:      filepath.Join(testDir, "non-standard.name"),
	}, {
		desc:      "revision match without recursion, and ignoring invalid revision",
		inDir:     testDir,
		inName:    "red.yang",
		inRecurse: false,
		want:      filepath.Join(testDir, "red@2010-10-10.yang"),
	}, {
		desc:      "revision match with recursion",
		inDir:     testDir,
		inName:    "red.yang",
		inRecurse: true,
		want:      filepath.Join(testDir, "dir", "dirdir", "red@2022-02-22.yang"),
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got, want := findInDir(tt.inDir, tt.inName, tt.inRecurse), tt.want; got != want {
				t.Errorf("got: %q, want: %q", got, want)
			}
		})
	}
}
