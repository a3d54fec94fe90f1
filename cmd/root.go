// Package cmd wires the CLI surface: generate runs an export, categories
// inspects a structure file.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rwgen",
	Short: "Generate Realm Works export documents from tabular data",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
