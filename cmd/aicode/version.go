package main

import (
	"fmt"

	"github.com/aretw0/aicode"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of aicode",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "aicode version %s\n", aicode.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
