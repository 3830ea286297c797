package main

import (
	"github.com/aretw0/aicode/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes a chat session as an MCP server on stdin/stdout.
This allows AI agents to talk to the assistant backend through tools:

- chat: send a message and wait for the reply.
- list_turns: the session's turns as JSON.
- get_code: the code of a code suggestion.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := chatOptions(cmd)
		if err != nil {
			return err
		}
		wait, _ := cmd.Flags().GetDuration("reply-timeout")
		return cli.RunMCP(cli.MCPOptions{Chat: opts, ReplyTimeout: wait})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Duration("reply-timeout", 0, "Give up waiting for a reply after this long (0 = wait)")
	mcpCmd.Flags().StringP("file", "f", "", "Send this file as editor context with each message")
	addBackendFlags(mcpCmd)
}
