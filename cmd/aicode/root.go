package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aicode",
	Short: "AIcode is a chat panel for a code assistant backend",
	Long: `AIcode relays your messages to an assistant backend and shows its replies,
plain text or code suggestions you can copy or save.

Run without a command to start a chat session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default $AICODE_CONFIG or ~/.config/aicode/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
}
