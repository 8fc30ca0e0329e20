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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nilgiri/yangcore/pkg/yangctx"
)

// compileContext compiles every path in paths into a fresh Context and
// calls Finish, returning the Context and the first error encountered.
func compileContext(paths []string) (*yangctx.Context, error) {
	ctx := yangctx.New()
	for _, p := range paths {
		if err := ctx.CompileFromPath(p); err != nil {
			return nil, err
		}
	}
	if errs := ctx.Finish(); len(errs) > 0 {
		return nil, errs[0]
	}
	return ctx, nil
}

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile MODULE [MODULE...]",
		Short: "Compiles the given YANG modules and reports success or the first error.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := compileContext(args)
			if err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}
