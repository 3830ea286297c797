package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/aicode/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a chat session with the assistant backend.

Modes:
- auto (default): full-screen panel on a terminal, plain text otherwise.
- tui: full-screen panel.
- text: line-oriented transcript.
- jsonl: panel message protocol on stdin/stdout, for editor integrations.

Inside the session, /help lists the commands (/copy, /save, /file, /backend, /turns).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := chatOptions(cmd)
		if err != nil {
			return err
		}
		return cli.RunChat(cmd.Context(), opts)
	},
}

// chatOptions reads the flags shared by chat, mcp and config.
func chatOptions(cmd *cobra.Command) (cli.ChatOptions, error) {
	flags := cmd.Flags()
	opts := cli.ChatOptions{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.Debug, _ = flags.GetBool("debug")
	if flags.Lookup("mode") != nil {
		opts.Mode, _ = flags.GetString("mode")
		opts.Quiet, _ = flags.GetBool("quiet")
		opts.MetricsAddr, _ = flags.GetString("metrics-addr")
		opts.WatchConfig, _ = flags.GetBool("watch-config")
		opts.SaveDir, _ = flags.GetString("save-dir")
	}
	if flags.Lookup("file") != nil {
		opts.File, _ = flags.GetString("file")
	}
	opts.Host, _ = flags.GetString("host")
	opts.Port, _ = flags.GetInt("port")
	opts.Timeout, _ = flags.GetDuration("timeout")
	opts.Retries, _ = flags.GetInt("retries")
	opts.HistoryLimit, _ = flags.GetInt("history")

	if opts.Port < 0 || opts.Port > 65535 {
		return opts, fmt.Errorf("--port %d out of range", opts.Port)
	}
	return opts, nil
}

func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "Backend host (overrides config)")
	cmd.Flags().Int("port", 0, "Backend port (overrides config)")
	cmd.Flags().Duration("timeout", 0, "Bound each exchange, e.g. 30s (0 = no limit)")
	cmd.Flags().Int("retries", 0, "Extra attempts after a connection failure")
	cmd.Flags().Int("history", 0, "Send the last N replied turns as history")
}

func modeNames() string {
	names := make([]string, len(cli.Modes))
	for i, m := range cli.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("mode", "m", "auto", "Presentation: "+modeNames())
	chatCmd.Flags().BoolP("quiet", "q", false, "No banner and no logs")
	chatCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :2112")
	chatCmd.Flags().Bool("watch-config", true, "Reload the config file when it changes")
	chatCmd.Flags().String("save-dir", ".", "Directory /save writes to")
	chatCmd.Flags().StringP("file", "f", "", "Send this file as editor context with each message (see /file)")
	addBackendFlags(chatCmd)

	// Chat is the default command.
	rootCmd.Flags().AddFlagSet(chatCmd.Flags())
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = chatCmd.RunE
}
