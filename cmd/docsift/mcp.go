package main

import (
	"github.com/dgallion1/docsift/internal/mcptools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the docsift tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newApp()
			if err != nil {
				return err
			}
			defer rt.close()

			rt.log.Info("serving mcp on stdio", "version", version)
			srv := mcptools.NewServer(rt.pipeline, version, rt.log)
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
