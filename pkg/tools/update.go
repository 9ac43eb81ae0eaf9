package tools

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/superpowers-pi/superpowers/pkg/update"
)

// UpdateTool reports whether the bundled library has upstream changes
type UpdateTool struct {
	checker UpdateChecker
	repoDir string
}

// UpdateInput takes no parameters
type UpdateInput struct{}

// NewUpdateTool creates a superpowers_update tool for the checkout at repoDir
func NewUpdateTool(checker UpdateChecker, repoDir string) *UpdateTool {
	return &UpdateTool{checker: checker, repoDir: repoDir}
}

// Name returns the tool name
func (t *UpdateTool) Name() string {
	return "superpowers_update"
}

// Description returns the tool description
func (t *UpdateTool) Description() string {
	return "Check for superpowers updates"
}

// GenerateSchema generates the JSON schema for the tool's input
func (t *UpdateTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[UpdateInput]()
}

// ValidateInput validates the input parameters
func (t *UpdateTool) ValidateInput(parameters string) error {
	var input UpdateInput
	return decodeInput(parameters, &input)
}

// Execute runs the update check. It never fails.
func (t *UpdateTool) Execute(ctx context.Context, _ string) ToolResult {
	hasUpdates := t.checker.HasUpdates(ctx, t.repoDir)
	return &BaseToolResult{Result: update.StatusMessage(hasUpdates, t.repoDir)}
}
