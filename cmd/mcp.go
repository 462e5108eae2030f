package cmd

import (
	"github.com/huangsam/branchreport/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [source]",
	Short: "Start the branch report MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents request branch reports via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Report headers are suppressed by the tools so stdio stays clean for the protocol
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
