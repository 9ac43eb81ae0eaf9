package skills

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const headerRule = "# ============================================"

// LoadedSkill is a resolved skill with its document read from disk
type LoadedSkill struct {
	Identifier string
	Resolved   *ResolvedSkill
	Metadata   Metadata
	Body       string // SKILL.md with the header block stripped
}

// Loader reads skills through a Locator. Every call re-reads the disk.
type Loader struct {
	locator *Locator
}

// NewLoader creates a loader backed by locator
func NewLoader(locator *Locator) *Loader {
	return &Loader{locator: locator}
}

// Load resolves identifier with the project > personal > superpowers order
// and reads its SKILL.md. Unresolvable identifiers return ErrSkillNotFound.
func (l *Loader) Load(identifier string) (*LoadedSkill, error) {
	resolved, err := l.locator.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(resolved.SkillFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read skill file %s", resolved.SkillFile)
	}

	return &LoadedSkill{
		Identifier: strings.TrimSpace(identifier),
		Resolved:   resolved,
		Metadata:   ParseMetadata(string(content)),
		Body:       StripMetadata(string(content)),
	}, nil
}

// Name returns the metadata name, falling back to the requested identifier
func (s *LoadedSkill) Name() string {
	if s.Metadata.Name != "" {
		return s.Metadata.Name
	}
	return s.Identifier
}

// Render formats the skill for the model: a short header naming the skill,
// its description and supporting-files directory, followed by the body.
func (s *LoadedSkill) Render() string {
	header := strings.Join([]string{
		"# " + s.Name(),
		"# " + s.Metadata.Description,
		"# Supporting tools and docs are in " + s.Resolved.Directory(),
		headerRule,
	}, "\n")
	return header + "\n\n" + s.Body
}

// NotFoundMessage is the user-facing text for an identifier that matches no root
func NotFoundMessage(identifier string) string {
	return fmt.Sprintf("Error: Skill %q not found.\n\nUse the find_skills command to see available skills.", strings.TrimSpace(identifier))
}
