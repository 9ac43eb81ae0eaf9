package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

// FindSkillsTool lists every skill across the three roots in priority order
type FindSkillsTool struct {
	roots    skills.Roots
	maxDepth int
}

// FindSkillsInput takes no parameters
type FindSkillsInput struct{}

// NewFindSkillsTool creates a find_skills tool scanning roots up to maxDepth
func NewFindSkillsTool(roots skills.Roots, maxDepth int) *FindSkillsTool {
	if maxDepth <= 0 {
		maxDepth = skills.DefaultMaxDepth
	}
	return &FindSkillsTool{roots: roots, maxDepth: maxDepth}
}

// Name returns the tool name
func (t *FindSkillsTool) Name() string {
	return "find_skills"
}

// Description returns the tool description
func (t *FindSkillsTool) Description() string {
	return "List all available skills in the project, personal, and superpowers skill libraries"
}

// GenerateSchema generates the JSON schema for the tool's input
func (t *FindSkillsTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[FindSkillsInput]()
}

// ValidateInput validates the input parameters
func (t *FindSkillsTool) ValidateInput(parameters string) error {
	var input FindSkillsInput
	return decodeInput(parameters, &input)
}

// Execute scans the roots and renders the catalog
func (t *FindSkillsTool) Execute(ctx context.Context, _ string) ToolResult {
	listings := skills.ScanRoots(ctx, t.roots, t.maxDepth)
	if len(listings) == 0 {
		return &BaseToolResult{Result: skills.EmptyCatalogMessage(t.roots)}
	}
	return &FindSkillsToolResult{
		count:   len(listings),
		content: skills.FormatCatalog(listings),
	}
}

// FindSkillsToolResult holds the rendered catalog
type FindSkillsToolResult struct {
	count   int
	content string
}

// GetResult returns the result string
func (r *FindSkillsToolResult) GetResult() string {
	return fmt.Sprintf("Found %d skill(s)", r.count)
}

// GetError returns the error string
func (r *FindSkillsToolResult) GetError() string {
	return ""
}

// IsError returns true if there was an error
func (r *FindSkillsToolResult) IsError() bool {
	return false
}

// AssistantFacing returns the content to be fed to the model
func (r *FindSkillsToolResult) AssistantFacing() string {
	return r.content
}
