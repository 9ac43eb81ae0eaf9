package skills

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrSkillNotFound is returned when no root supplies the requested skill
var ErrSkillNotFound = errors.New("skill not found")

// Identifier namespace prefixes
const (
	ProjectPrefix     = "project:"
	SuperpowersPrefix = "superpowers:"
)

// Identifier is a parsed skill identifier
type Identifier struct {
	// Namespace forces a single root when set to SourceProject or
	// SourceSuperpowers. Empty means the default search order.
	Namespace SourceType
	// Name may contain path separators for nested skills, e.g. "testing/tdd"
	Name string
}

// ParseIdentifier trims surrounding whitespace and strips a single namespace prefix
func ParseIdentifier(raw string) Identifier {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, ProjectPrefix):
		return Identifier{Namespace: SourceProject, Name: strings.TrimPrefix(raw, ProjectPrefix)}
	case strings.HasPrefix(raw, SuperpowersPrefix):
		return Identifier{Namespace: SourceSuperpowers, Name: strings.TrimPrefix(raw, SuperpowersPrefix)}
	default:
		return Identifier{Name: raw}
	}
}

// String formats the identifier back into its prefixed form
func (id Identifier) String() string {
	switch id.Namespace {
	case SourceProject:
		return ProjectPrefix + id.Name
	case SourceSuperpowers:
		return SuperpowersPrefix + id.Name
	default:
		return id.Name
	}
}

// lookup tries to find a skill in a single root
type lookup func(name string) (*ResolvedSkill, bool)

// Locator resolves skill identifiers against the configured roots
type Locator struct {
	roots Roots
	stat  func(string) (os.FileInfo, error)
}

// LocatorOption is a function that configures a Locator
type LocatorOption func(*Locator)

// WithStatFunc replaces the function used to check candidate SKILL.md files
func WithStatFunc(stat func(string) (os.FileInfo, error)) LocatorOption {
	return func(l *Locator) {
		l.stat = stat
	}
}

// NewLocator creates a locator over the given roots
func NewLocator(roots Roots, opts ...LocatorOption) *Locator {
	l := &Locator{
		roots: roots,
		stat:  os.Stat,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Roots returns the roots the locator searches
func (l *Locator) Roots() Roots {
	return l.roots
}

// Resolve finds the skill for identifier. A "project:" prefix searches only
// the project root, a "superpowers:" prefix only the bundled library, and no
// prefix searches project, personal and superpowers in that order.
func (l *Locator) Resolve(identifier string) (*ResolvedSkill, error) {
	id := ParseIdentifier(identifier)

	var lookups []lookup
	switch id.Namespace {
	case SourceProject:
		lookups = []lookup{l.in(l.roots.Project, SourceProject)}
	case SourceSuperpowers:
		lookups = []lookup{l.in(l.roots.Superpowers, SourceSuperpowers)}
	default:
		lookups = []lookup{
			l.in(l.roots.Project, SourceProject),
			l.in(l.roots.Personal, SourcePersonal),
			l.in(l.roots.Superpowers, SourceSuperpowers),
		}
	}

	return l.first(identifier, id.Name, lookups)
}

// ResolveShared finds the skill for identifier without consulting the project
// root: personal then superpowers, or only superpowers with the
// "superpowers:" prefix. Project identifiers never resolve here.
func (l *Locator) ResolveShared(identifier string) (*ResolvedSkill, error) {
	id := ParseIdentifier(identifier)

	var lookups []lookup
	switch id.Namespace {
	case SourceProject:
	case SourceSuperpowers:
		lookups = []lookup{l.in(l.roots.Superpowers, SourceSuperpowers)}
	default:
		lookups = []lookup{
			l.in(l.roots.Personal, SourcePersonal),
			l.in(l.roots.Superpowers, SourceSuperpowers),
		}
	}

	return l.first(identifier, id.Name, lookups)
}

func (l *Locator) first(identifier, name string, lookups []lookup) (*ResolvedSkill, error) {
	if withinRoot(name) {
		for _, try := range lookups {
			if resolved, ok := try(name); ok {
				return resolved, nil
			}
		}
	}
	return nil, errors.Wrapf(ErrSkillNotFound, "skill %q", strings.TrimSpace(identifier))
}

// withinRoot reports whether name stays below the root it is joined to.
// Absolute names and names that climb above the root never resolve.
func withinRoot(name string) bool {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return false
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

// in returns a lookup for a single root. A missing root behaves exactly like
// a root that lacks the skill.
func (l *Locator) in(root string, source SourceType) lookup {
	return func(name string) (*ResolvedSkill, bool) {
		if root == "" {
			return nil, false
		}

		skillFile := filepath.Join(root, name, SkillFileName)
		info, err := l.stat(skillFile)
		if err != nil || info.IsDir() {
			return nil, false
		}

		if abs, err := filepath.Abs(skillFile); err == nil {
			skillFile = abs
		}

		return &ResolvedSkill{
			SkillFile:   skillFile,
			Source:      source,
			LogicalPath: name,
		}, true
	}
}
