package main

import (
	"github.com/aretw0/aicode/internal/cli"
	"github.com/spf13/cobra"
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the reference assistant backend",
	Long: `Starts a development backend speaking the chat protocol.

POST /chat echoes the message back, or answers with a sample code suggestion
when the message mentions "code" or "hello world". Requests are validated
against the OpenAPI document served at /openapi.yaml. Metrics are served at
/metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		debug, _ := cmd.Flags().GetBool("debug")
		return cli.RunBackend(cmd.Context(), cli.BackendOptions{Addr: addr, Debug: debug})
	},
}

func init() {
	rootCmd.AddCommand(backendCmd)
	backendCmd.Flags().String("addr", "127.0.0.1:8000", "Address to listen on")
}
