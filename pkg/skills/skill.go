// Package skills resolves and catalogs superpowers skills. A skill is a
// directory holding a SKILL.md file with an optional metadata header and
// markdown instructions. Skills live in three layered roots (project,
// personal and the bundled superpowers library) and more-local roots shadow
// more-global ones when names collide.
package skills

import (
	"path/filepath"
)

const (
	// SkillFileName is the canonical content file of every skill directory
	SkillFileName = "SKILL.md"

	// DefaultMaxDepth bounds catalog scans below each root
	DefaultMaxDepth = 3
)

// SourceType identifies the root a skill was found in
type SourceType string

// Source types in priority order
const (
	SourceProject     SourceType = "project"
	SourcePersonal    SourceType = "personal"
	SourceSuperpowers SourceType = "superpowers"
)

// Namespace returns the identifier prefix used to address skills of this source.
// Personal skills are addressed without a prefix.
func (s SourceType) Namespace() string {
	switch s {
	case SourceProject:
		return "project:"
	case SourcePersonal:
		return ""
	default:
		return "superpowers:"
	}
}

// Root is a directory searched for skills together with its source type
type Root struct {
	Dir    string
	Source SourceType
}

// Roots holds the three skill roots. It is resolved once at startup and
// treated as read-only afterwards.
type Roots struct {
	Project     string `json:"project" yaml:"project"`
	Personal    string `json:"personal" yaml:"personal"`
	Superpowers string `json:"superpowers" yaml:"superpowers"`
}

// Ordered returns the roots in priority order: project, personal, superpowers
func (r Roots) Ordered() []Root {
	return []Root{
		{Dir: r.Project, Source: SourceProject},
		{Dir: r.Personal, Source: SourcePersonal},
		{Dir: r.Superpowers, Source: SourceSuperpowers},
	}
}

// ResolvedSkill is the outcome of a successful lookup
type ResolvedSkill struct {
	SkillFile   string     // Absolute path to SKILL.md
	Source      SourceType // Root the skill came from
	LogicalPath string     // Identifier with the namespace stripped
}

// Directory returns the skill directory holding SKILL.md
func (r *ResolvedSkill) Directory() string {
	return filepath.Dir(r.SkillFile)
}

// Metadata represents the header block of a SKILL.md file.
// Fields are empty when the header does not carry them.
type Metadata struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Listing is a single catalog entry produced by a scan
type Listing struct {
	Name        string     `json:"name" yaml:"name"`
	Path        string     `json:"path" yaml:"path"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Source      SourceType `json:"source" yaml:"source"`
}

// QualifiedName returns the name prefixed with the namespace of its source,
// i.e. the identifier a user would pass to use_skill.
func (l Listing) QualifiedName() string {
	return l.Source.Namespace() + l.Name
}
