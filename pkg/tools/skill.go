package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/superpowers-pi/superpowers/pkg/logger"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

// SkillTool loads a skill document for the model
type SkillTool struct {
	loader *skills.Loader
}

// SkillInput defines the input parameters for the use_skill tool
type SkillInput struct {
	SkillName string `json:"skill_name" jsonschema:"description=Name of the skill to load (e.g. \"superpowers:brainstorming\", \"my-custom-skill\" or \"project:my-skill\")"`
}

// SkillToolResult represents the result of loading a skill
type SkillToolResult struct {
	skillName string
	content   string
	notFound  bool
	err       string
}

// NewSkillTool creates a use_skill tool reading skills through loader
func NewSkillTool(loader *skills.Loader) *SkillTool {
	return &SkillTool{loader: loader}
}

// Name returns the tool name
func (t *SkillTool) Name() string {
	return "use_skill"
}

// Description returns the tool description
func (t *SkillTool) Description() string {
	return "Load and read a specific skill to guide your work. Skills contain proven workflows, mandatory processes, and expert techniques."
}

// GenerateSchema generates the JSON schema for the tool's input
func (t *SkillTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[SkillInput]()
}

// ValidateInput validates the input parameters
func (t *SkillTool) ValidateInput(parameters string) error {
	var input SkillInput
	if err := decodeInput(parameters, &input); err != nil {
		return err
	}
	if strings.TrimSpace(input.SkillName) == "" {
		return errors.New("skill_name is required")
	}
	return nil
}

// Execute loads the skill. A skill that cannot be found is reported to the
// model as guidance rather than as a tool failure.
func (t *SkillTool) Execute(ctx context.Context, parameters string) ToolResult {
	var input SkillInput
	if err := decodeInput(parameters, &input); err != nil {
		return &SkillToolResult{err: err.Error()}
	}

	log := logger.G(ctx).WithField("skill", input.SkillName)

	skill, err := t.loader.Load(input.SkillName)
	if errors.Is(err, skills.ErrSkillNotFound) {
		log.Debug("skill not found")
		return &SkillToolResult{
			skillName: input.SkillName,
			content:   skills.NotFoundMessage(input.SkillName),
			notFound:  true,
		}
	}
	if err != nil {
		log.WithError(err).Warn("failed to load skill")
		return &SkillToolResult{skillName: input.SkillName, err: err.Error()}
	}

	log.WithField("source", skill.Resolved.Source).Debug("skill loaded")
	return &SkillToolResult{
		skillName: skill.Name(),
		content:   skill.Render(),
	}
}

// GetResult returns the result string
func (r *SkillToolResult) GetResult() string {
	if r.notFound {
		return fmt.Sprintf("Skill '%s' not found", r.skillName)
	}
	return fmt.Sprintf("Skill '%s' loaded", r.skillName)
}

// GetError returns the error string
func (r *SkillToolResult) GetError() string {
	return r.err
}

// IsError returns true if there was an error
func (r *SkillToolResult) IsError() bool {
	return r.err != ""
}

// AssistantFacing returns the content to be fed to the model
func (r *SkillToolResult) AssistantFacing() string {
	if r.err != "" {
		return "Error: " + r.err
	}
	return r.content
}
