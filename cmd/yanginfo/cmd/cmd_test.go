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

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const devModuleSrc = `
module dev {
  prefix d;
  namespace "urn:d";

  feature f;

  container c {
    leaf a {
      type string;
      if-feature "f";
    }
  }
}
`

func writeDevModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dev.yang")
	if err := os.WriteFile(path, []byte(devModuleSrc), 0o644); err != nil {
		t.Fatalf("could not write fixture module: %v", err)
	}
	return path
}

func TestCompileContext(t *testing.T) {
	path := writeDevModule(t)

	ctx, err := compileContext([]string{path})
	if err != nil {
		t.Fatalf("compileContext: %v", err)
	}
	if ctx.Lookup("/dev/c") == nil {
		t.Errorf("Lookup(/dev/c) = nil, want the compiled c container")
	}
}

func TestCompileContextMissingFile(t *testing.T) {
	if _, err := compileContext([]string{"/no/such/module.yang"}); err == nil {
		t.Fatalf("compileContext with a nonexistent path returned no error")
	}
}

func TestFeaturesCommand(t *testing.T) {
	path := writeDevModule(t)

	cmd := newFeaturesCmd()
	cmd.SetArgs([]string{path})

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	err := cmd.Execute()
	w.Close()
	os.Stdout = oldStdout
	if err != nil {
		t.Fatalf("features command: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	got := buf.String()
	if !strings.Contains(got, "f\tenabled") {
		t.Errorf("features output = %q, want it to contain %q", got, "f\tenabled")
	}
}

func TestTreeCommand(t *testing.T) {
	path := writeDevModule(t)

	cmd := newTreeCmd()
	cmd.SetArgs([]string{path})

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	err := cmd.Execute()
	w.Close()
	os.Stdout = oldStdout
	if err != nil {
		t.Fatalf("tree command: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	got := buf.String()
	if !strings.Contains(got, "container") && !strings.Contains(got, "c") {
		t.Errorf("tree output = %q, want it to mention the c container", got)
	}
}
