package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(appVersion.String())
		return nil
	},
}
