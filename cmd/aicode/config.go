package main

import (
	"github.com/aretw0/aicode/internal/cli"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long:  `Prints the configuration a chat session would use, after the config file, AICODE_* environment variables and flags are applied.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := chatOptions(cmd)
		if err != nil {
			return err
		}
		return cli.PrintConfig(cmd.OutOrStdout(), opts)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	addBackendFlags(configCmd)
}
