// Package mcp serves the superpowers tools and bootstrap prompt over the
// Model Context Protocol on stdio.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/superpowers-pi/superpowers/pkg/logger"
	"github.com/superpowers-pi/superpowers/pkg/tools"
	"github.com/superpowers-pi/superpowers/pkg/version"
)

const (
	// ServerName is advertised to MCP clients during initialization
	ServerName = "superpowers"

	// BootstrapPrompt is the name of the prompt returning the session bootstrap
	BootstrapPrompt = "superpowers_bootstrap"
)

// Composer renders the session bootstrap text
type Composer interface {
	Compose(compact bool) (string, error)
}

// Server exposes tools and the bootstrap prompt to MCP clients
type Server struct {
	tools    []tools.Tool
	composer Composer
	mcp      *server.MCPServer
}

// NewServer registers every tool and the bootstrap prompt
func NewServer(toolset []tools.Tool, composer Composer) (*Server, error) {
	s := &Server{
		tools:    toolset,
		composer: composer,
		mcp: server.NewMCPServer(
			ServerName,
			version.Get().Version,
			server.WithToolCapabilities(true),
			server.WithPromptCapabilities(true),
			server.WithRecovery(),
		),
	}

	for _, tool := range toolset {
		definition, err := toolDefinition(tool)
		if err != nil {
			return nil, err
		}
		s.mcp.AddTool(definition, s.toolHandler(tool.Name()))
	}

	s.mcp.AddPrompt(mcp.NewPrompt(BootstrapPrompt,
		mcp.WithPromptDescription("Superpowers session bootstrap: how to find and use skills"),
		mcp.WithArgument("compact",
			mcp.ArgumentDescription("Set to \"true\" for the shorter form used after context compaction"),
		),
	), s.handleBootstrap)

	return s, nil
}

func toolDefinition(tool tools.Tool) (mcp.Tool, error) {
	schema, err := json.Marshal(tool.GenerateSchema())
	if err != nil {
		return mcp.Tool{}, errors.Wrapf(err, "failed to marshal schema for tool %s", tool.Name())
	}
	return mcp.NewToolWithRawSchema(tool.Name(), tool.Description(), schema), nil
}

func (s *Server) toolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parameters := "{}"
		if request.Params.Arguments != nil {
			raw, err := json.Marshal(request.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
			}
			parameters = string(raw)
		}

		logger.G(ctx).WithField("tool", name).Debug("handling MCP tool call")

		result := tools.RunTool(ctx, s.tools, name, parameters)
		if result.IsError() {
			return mcp.NewToolResultError(result.AssistantFacing()), nil
		}
		return mcp.NewToolResultText(result.AssistantFacing()), nil
	}
}

func (s *Server) handleBootstrap(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	compact := false
	if raw, ok := request.Params.Arguments["compact"]; ok && raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid compact argument %q", raw)
		}
		compact = parsed
	}

	text, err := s.composer.Compose(compact)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to compose bootstrap")
		return nil, err
	}

	var messages []mcp.PromptMessage
	if text != "" {
		messages = append(messages, mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)))
	}
	return mcp.NewGetPromptResult("Superpowers bootstrap", messages), nil
}

// Serve reads JSON-RPC messages from in and writes responses to out until
// ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logger.G(ctx).WithField("tools", len(s.tools)).Info("starting MCP server on stdio")

	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "MCP server failed")
	}
	return nil
}
