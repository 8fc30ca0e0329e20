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
)

func newFeaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features MODULE [MODULE...]",
		Short: "Lists every feature statement across the given modules and its enabled state.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := compileContext(args)
			if err != nil {
				return err
			}
			for _, f := range ctx.FeatureList() {
				state := "enabled"
				if !f.Enabled {
					state = "disabled"
				}
				fmt.Printf("%s\t%s\n", f.Name, state)
			}
			return nil
		},
	}
	return cmd
}
