// Package bootstrap composes the instruction payload injected into the agent
// context at session start and before compaction.
package bootstrap

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

// OrientationSkill is the skill whose body forms the bootstrap payload
const OrientationSkill = "using-superpowers"

const (
	openTag  = "<EXTREMELY_IMPORTANT>"
	closeTag = "</EXTREMELY_IMPORTANT>"

	preamble = `You have superpowers.

**IMPORTANT: The using-superpowers skill content is included below. It is ALREADY LOADED - you are currently following it. Do NOT use the use_skill tool to load "using-superpowers" - that would be redundant. Use use_skill only for OTHER skills.**`

	compactToolMapping = "**Tool Mapping:** TodoWrite->update_plan, Task->subagent, Skill->use_skill\n\n" +
		"**Skills naming (priority order):** project: > personal > superpowers:"
)

// Composer builds bootstrap payloads from the current state of the skill roots
type Composer struct {
	locator *skills.Locator
}

// NewComposer creates a composer resolving the orientation skill through locator
func NewComposer(locator *skills.Locator) *Composer {
	return &Composer{locator: locator}
}

// Compose returns the bootstrap payload, or an empty string when the
// orientation skill is not installed. The compact form trades the full tool
// mapping and precedence explanation for one-line equivalents.
//
// The orientation skill is looked up in the personal and superpowers roots
// only; project skills never replace it.
func (c *Composer) Compose(compact bool) (string, error) {
	resolved, err := c.locator.ResolveShared(OrientationSkill)
	if errors.Is(err, skills.ErrSkillNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(resolved.SkillFile)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read orientation skill %s", resolved.SkillFile)
	}

	mapping := compactToolMapping
	if !compact {
		mapping = fullToolMapping(c.locator.Roots().Personal)
	}

	var sb strings.Builder
	sb.WriteString(openTag + "\n")
	sb.WriteString(preamble + "\n\n")
	sb.WriteString(skills.StripMetadata(string(content)) + "\n\n")
	sb.WriteString(mapping + "\n")
	sb.WriteString(closeTag)
	return sb.String(), nil
}

func fullToolMapping(personalDir string) string {
	return "**Tool Mapping for pi coding agent:**\n" +
		"When skills reference tools you don't have, substitute pi equivalents:\n" +
		"- `TodoWrite` → `update_plan` or custom todo tool\n" +
		"- `Task` tool with subagents → Use pi's extension system or manual task breakdown\n" +
		"- `Skill` tool → `use_skill` custom tool (registered by this extension)\n" +
		"- `Read`, `Write`, `Edit`, `Bash` → Your native tools\n" +
		"\n" +
		"**Skills naming (priority order):**\n" +
		"- Project skills: `project:skill-name` (in .pi/skills/)\n" +
		"- Personal skills: `skill-name` (in " + personalDir + "/)\n" +
		"- Superpowers skills: `superpowers:skill-name`\n" +
		"- Project skills override personal, which override superpowers when names match"
}
