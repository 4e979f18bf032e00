package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/runconfig/internal/mcpserver"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the runconfig tools over MCP on stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
get_running_config and list_config_endpoints tools. Defaults are read from
RUNCONFIG_MCP_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return wrapErr("mcp", mcpserver.Run(cmd.Context()))
		},
	}
}
