// Package tools exposes superpowers operations as model-callable tools.
// Each tool carries a JSON schema for its input and returns a result with a
// user-facing summary and the text fed back to the model.
package tools

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

// Tool is a single operation callable by the model
type Tool interface {
	Name() string
	Description() string
	GenerateSchema() *jsonschema.Schema
	ValidateInput(parameters string) error
	Execute(ctx context.Context, parameters string) ToolResult
}

// ToolResult is the outcome of a tool execution
type ToolResult interface {
	GetResult() string
	GetError() string
	IsError() bool
	AssistantFacing() string
}

// UpdateChecker reports whether a checkout is behind its upstream
type UpdateChecker interface {
	HasUpdates(ctx context.Context, repoDir string) bool
}

// Dependencies wires the tools to the resolved configuration
type Dependencies struct {
	Roots    skills.Roots
	MaxDepth int
	Checker  UpdateChecker
	RepoDir  string
}

// GenerateSchema reflects the JSON schema of T for tool inputs
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// All returns every tool, sorted by name
func All(deps Dependencies) []Tool {
	locator := skills.NewLocator(deps.Roots)
	tools := []Tool{
		NewSkillTool(skills.NewLoader(locator)),
		NewFindSkillsTool(deps.Roots, deps.MaxDepth),
	}
	if deps.Checker != nil {
		tools = append(tools, NewUpdateTool(deps.Checker, deps.RepoDir))
	}

	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// RunTool validates parameters and executes the named tool
func RunTool(ctx context.Context, tools []Tool, name, parameters string) ToolResult {
	for _, tool := range tools {
		if tool.Name() != name {
			continue
		}
		if err := tool.ValidateInput(parameters); err != nil {
			return NewErrorResult(err.Error())
		}
		return tool.Execute(ctx, parameters)
	}
	return NewErrorResult("unknown tool: " + name)
}

func decodeInput(parameters string, v interface{}) error {
	if parameters == "" {
		parameters = "{}"
	}
	if err := json.Unmarshal([]byte(parameters), v); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	return nil
}

// BaseToolResult is a plain text result
type BaseToolResult struct {
	Result string
	Error  string
}

// NewErrorResult creates a result that failed with message
func NewErrorResult(message string) *BaseToolResult {
	return &BaseToolResult{Error: message}
}

// GetResult returns the result string
func (r *BaseToolResult) GetResult() string {
	return r.Result
}

// GetError returns the error string
func (r *BaseToolResult) GetError() string {
	return r.Error
}

// IsError returns true if there was an error
func (r *BaseToolResult) IsError() bool {
	return r.Error != ""
}

// AssistantFacing returns the content to be fed to the model
func (r *BaseToolResult) AssistantFacing() string {
	if r.Error != "" {
		return "Error: " + r.Error
	}
	return r.Result
}
