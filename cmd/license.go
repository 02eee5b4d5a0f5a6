package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const licenseText = `jio - systemd-journal read/analyze/repair toolkit

Copyright the jio contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.`

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Print license information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), licenseText)
		return nil
	},
}
