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
	"os"

	"github.com/spf13/cobra"

	"github.com/nilgiri/yangcore/pkg/yang"
)

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree MODULE [MODULE...]",
		Short: "Prints the compiled schema tree for the given modules.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := compileContext(args)
			if err != nil {
				return err
			}
			for _, m := range ctx.Modules().Modules {
				yang.ToEntry(m).Print(os.Stdout)
			}
			return nil
		},
	}
}
