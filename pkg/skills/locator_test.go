package skills

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStat wraps os.Stat and records every checked path
type recordingStat struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingStat) stat(path string) (os.FileInfo, error) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	return os.Stat(path)
}

func (r *recordingStat) checkedUnder(root string) bool {
	for _, p := range r.paths {
		if strings.HasPrefix(p, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected Identifier
	}{
		{"brainstorming", Identifier{Name: "brainstorming"}},
		{"  brainstorming\n", Identifier{Name: "brainstorming"}},
		{"project:bar", Identifier{Namespace: SourceProject, Name: "bar"}},
		{"superpowers:testing/tdd", Identifier{Namespace: SourceSuperpowers, Name: "testing/tdd"}},
		{"category/skill-name", Identifier{Name: "category/skill-name"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id := ParseIdentifier(tt.input)
			assert.Equal(t, tt.expected, id)
			assert.Equal(t, id, ParseIdentifier(id.String()), "parsing the formatted identifier is stable")
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	roots := newTestRoots(t)
	writeSkill(t, roots.Project, "shared", skillDoc("shared", "project copy", "project"))
	writeSkill(t, roots.Personal, "shared", skillDoc("shared", "personal copy", "personal"))
	writeSkill(t, roots.Superpowers, "shared", skillDoc("shared", "superpowers copy", "superpowers"))
	writeSkill(t, roots.Personal, "personal-and-lib", skillDoc("x", "personal", ""))
	writeSkill(t, roots.Superpowers, "personal-and-lib", skillDoc("x", "lib", ""))
	writeSkill(t, roots.Superpowers, "lib-only", skillDoc("lib-only", "lib", ""))

	locator := NewLocator(roots)

	t.Run("project shadows personal and superpowers", func(t *testing.T) {
		resolved, err := locator.Resolve("shared")
		require.NoError(t, err)
		assert.Equal(t, SourceProject, resolved.Source)
		assert.Equal(t, filepath.Join(roots.Project, "shared", SkillFileName), resolved.SkillFile)
		assert.Equal(t, "shared", resolved.LogicalPath)
	})

	t.Run("personal shadows superpowers", func(t *testing.T) {
		resolved, err := locator.Resolve("personal-and-lib")
		require.NoError(t, err)
		assert.Equal(t, SourcePersonal, resolved.Source)
	})

	t.Run("falls through to superpowers", func(t *testing.T) {
		resolved, err := locator.Resolve("lib-only")
		require.NoError(t, err)
		assert.Equal(t, SourceSuperpowers, resolved.Source)
		assert.Equal(t, filepath.Join(roots.Superpowers, "lib-only"), resolved.Directory())
	})

	t.Run("superpowers prefix skips higher roots", func(t *testing.T) {
		resolved, err := locator.Resolve("superpowers:shared")
		require.NoError(t, err)
		assert.Equal(t, SourceSuperpowers, resolved.Source)
		assert.Equal(t, "shared", resolved.LogicalPath)
	})

	t.Run("surrounding whitespace is insignificant", func(t *testing.T) {
		resolved, err := locator.Resolve("  lib-only \t")
		require.NoError(t, err)
		assert.Equal(t, SourceSuperpowers, resolved.Source)
	})
}

func TestResolvePersonalOverSuperpowers(t *testing.T) {
	roots := newTestRoots(t)
	writeSkill(t, roots.Personal, "foo", skillDoc("Foo Skill", "personal foo", ""))
	writeSkill(t, roots.Superpowers, "foo", skillDoc("foo", "library foo", ""))

	resolved, err := NewLocator(roots).Resolve("foo")
	require.NoError(t, err)
	assert.Equal(t, SourcePersonal, resolved.Source)
	assert.Equal(t, filepath.Join(roots.Personal, "foo", SkillFileName), resolved.SkillFile)
}

func TestResolveProjectPrefixDoesNotFallBack(t *testing.T) {
	roots := newTestRoots(t)
	writeSkill(t, roots.Personal, "bar", skillDoc("bar", "personal bar", ""))
	writeSkill(t, roots.Superpowers, "bar", skillDoc("bar", "library bar", ""))

	rec := &recordingStat{}
	resolved, err := NewLocator(roots, WithStatFunc(rec.stat)).Resolve("project:bar")
	assert.Nil(t, resolved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSkillNotFound))
	assert.Contains(t, err.Error(), "project:bar")

	assert.True(t, rec.checkedUnder(roots.Project))
	assert.False(t, rec.checkedUnder(roots.Personal), "personal root must not be inspected")
	assert.False(t, rec.checkedUnder(roots.Superpowers), "superpowers root must not be inspected")
}

func TestResolveSuperpowersPrefixInspectsOnlyLibrary(t *testing.T) {
	roots := newTestRoots(t)
	writeSkill(t, roots.Project, "baz", skillDoc("baz", "", ""))
	writeSkill(t, roots.Personal, "baz", skillDoc("baz", "", ""))

	rec := &recordingStat{}
	_, err := NewLocator(roots, WithStatFunc(rec.stat)).Resolve("superpowers:baz")
	assert.True(t, errors.Is(err, ErrSkillNotFound))

	assert.True(t, rec.checkedUnder(roots.Superpowers))
	assert.False(t, rec.checkedUnder(roots.Project))
	assert.False(t, rec.checkedUnder(roots.Personal))
}

func TestResolveUnprefixedStopsAtFirstMatch(t *testing.T) {
	roots := newTestRoots(t)
	writeSkill(t, roots.Project, "first", skillDoc("first", "", ""))

	rec := &recordingStat{}
	resolved, err := NewLocator(roots, WithStatFunc(rec.stat)).Resolve("first")
	require.NoError(t, err)
	assert.Equal(t, SourceProject, resolved.Source)
	assert.Len(t, rec.paths, 1)
}

func TestResolveNestedSkill(t *testing.T) {
	roots := newTestRoots(t)
	writeSkill(t, roots.Superpowers, "testing/test-driven-development", skillDoc("tdd", "", ""))

	locator := NewLocator(roots)

	resolved, err := locator.Resolve("testing/test-driven-development")
	require.NoError(t, err)
	assert.Equal(t, SourceSuperpowers, resolved.Source)
	assert.Equal(t, "testing/test-driven-development", resolved.LogicalPath)
	assert.Equal(t, filepath.Join(roots.Superpowers, "testing", "test-driven-development"), resolved.Directory())

	_, err = locator.Resolve("superpowers:testing/test-driven-development")
	assert.NoError(t, err)
}

func TestResolveMissingRootsAndSkills(t *testing.T) {
	t.Run("all roots missing", func(t *testing.T) {
		roots := Roots{
			Project:     "/non/existent/project",
			Personal:    "/non/existent/personal",
			Superpowers: "/non/existent/superpowers",
		}
		_, err := NewLocator(roots).Resolve("anything")
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})

	t.Run("missing higher root continues search", func(t *testing.T) {
		roots := newTestRoots(t)
		writeSkill(t, roots.Superpowers, "only-here", skillDoc("only-here", "", ""))
		roots.Project = ""
		roots.Personal = "/non/existent/personal"

		resolved, err := NewLocator(roots).Resolve("only-here")
		require.NoError(t, err)
		assert.Equal(t, SourceSuperpowers, resolved.Source)
	})

	t.Run("directory without SKILL.md", func(t *testing.T) {
		roots := newTestRoots(t)
		require.NoError(t, os.MkdirAll(filepath.Join(roots.Personal, "empty"), 0o755))
		_, err := NewLocator(roots).Resolve("empty")
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})

	t.Run("SKILL.md that is a directory", func(t *testing.T) {
		roots := newTestRoots(t)
		require.NoError(t, os.MkdirAll(filepath.Join(roots.Personal, "odd", SkillFileName), 0o755))
		_, err := NewLocator(roots).Resolve("odd")
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})

	t.Run("empty identifier", func(t *testing.T) {
		roots := newTestRoots(t)
		_, err := NewLocator(roots).Resolve("   ")
		assert.True(t, errors.Is(err, ErrSkillNotFound))
		_, err = NewLocator(roots).Resolve("superpowers:")
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})
}

func TestResolveRejectsNamesOutsideRoots(t *testing.T) {
	roots := newTestRoots(t)
	base := filepath.Dir(roots.Personal)
	writeSkill(t, base, "outside", skillDoc("outside", "", "secret"))
	writeSkill(t, roots.Personal, "tdd", skillDoc("tdd", "", ""))

	for _, identifier := range []string{
		"../outside",
		"../../outside",
		"project:../../outside",
		"superpowers:../outside",
		"nested/../../outside",
		filepath.Join(base, "outside"),
		".",
		"..",
	} {
		t.Run(identifier, func(t *testing.T) {
			rec := &recordingStat{}
			locator := NewLocator(roots, WithStatFunc(rec.stat))

			_, err := locator.Resolve(identifier)
			assert.True(t, errors.Is(err, ErrSkillNotFound))
			_, err = locator.ResolveShared(identifier)
			assert.True(t, errors.Is(err, ErrSkillNotFound))
			assert.Empty(t, rec.paths)
		})
	}

	t.Run("dot segments that stay inside the root", func(t *testing.T) {
		resolved, err := NewLocator(roots).Resolve("nested/../tdd")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(roots.Personal, "tdd", SkillFileName), resolved.SkillFile)
	})
}

func TestResolveShared(t *testing.T) {
	roots := newTestRoots(t)
	writeSkill(t, roots.Project, "using-superpowers", skillDoc("project override", "", ""))
	writeSkill(t, roots.Superpowers, "using-superpowers", skillDoc("using-superpowers", "", ""))

	rec := &recordingStat{}
	locator := NewLocator(roots, WithStatFunc(rec.stat))

	resolved, err := locator.ResolveShared("using-superpowers")
	require.NoError(t, err)
	assert.Equal(t, SourceSuperpowers, resolved.Source)
	assert.False(t, rec.checkedUnder(roots.Project), "project root never supplies shared skills")

	t.Run("personal wins over superpowers", func(t *testing.T) {
		writeSkill(t, roots.Personal, "using-superpowers", skillDoc("mine", "", ""))
		resolved, err := locator.ResolveShared("using-superpowers")
		require.NoError(t, err)
		assert.Equal(t, SourcePersonal, resolved.Source)
	})

	t.Run("project prefix never resolves", func(t *testing.T) {
		_, err := locator.ResolveShared("project:using-superpowers")
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})
}

func TestRootsOrdered(t *testing.T) {
	roots := Roots{Project: "p", Personal: "u", Superpowers: "s"}
	assert.Equal(t, []Root{
		{Dir: "p", Source: SourceProject},
		{Dir: "u", Source: SourcePersonal},
		{Dir: "s", Source: SourceSuperpowers},
	}, roots.Ordered())
}
