package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/superpowers-pi/superpowers/pkg/bootstrap"
	"github.com/superpowers-pi/superpowers/pkg/mcp"
	"github.com/superpowers-pi/superpowers/pkg/presenter"
	"github.com/superpowers-pi/superpowers/pkg/skills"
	"github.com/superpowers-pi/superpowers/pkg/tools"
	"github.com/superpowers-pi/superpowers/pkg/update"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the superpowers tools over MCP on stdio",
	Long: `Start an MCP server on stdin/stdout exposing the use_skill, find_skills and
superpowers_update tools and the superpowers_bootstrap prompt.

The server runs until stdin is closed or it is interrupted.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		cfg := configFrom(ctx)
		roots := cfg.Roots()

		toolset := tools.All(tools.Dependencies{
			Roots:    roots,
			MaxDepth: cfg.MaxDepth,
			Checker:  update.NewChecker(),
			RepoDir:  cfg.RepoDir(),
		})

		server, err := mcp.NewServer(toolset, bootstrap.NewComposer(skills.NewLocator(roots)))
		if err != nil {
			presenter.Error(err, "Failed to create MCP server")
			os.Exit(1)
		}

		if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil {
			presenter.Error(err, "MCP server stopped")
			os.Exit(1)
		}
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
