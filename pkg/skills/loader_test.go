package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderLoad(t *testing.T) {
	roots := newTestRoots(t)
	dir := writeSkill(t, roots.Personal, "foo", skillDoc("Foo Skill", "Does foo things", "\n# Foo\n\nStep one.\n"))
	writeSkill(t, roots.Superpowers, "foo", skillDoc("foo", "library", "library body"))

	loader := NewLoader(NewLocator(roots))

	skill, err := loader.Load("foo")
	require.NoError(t, err)
	assert.Equal(t, SourcePersonal, skill.Resolved.Source)
	assert.Equal(t, "Foo Skill", skill.Name())
	assert.Equal(t, "\n# Foo\n\nStep one.\n", skill.Body)

	expected := "# Foo Skill\n" +
		"# Does foo things\n" +
		"# Supporting tools and docs are in " + dir + "\n" +
		"# ============================================\n\n" +
		"\n# Foo\n\nStep one.\n"
	assert.Equal(t, expected, skill.Render())
}

func TestLoaderLoadWithoutMetadata(t *testing.T) {
	roots := newTestRoots(t)
	writeSkill(t, roots.Project, "plain", "Just instructions.\n")

	skill, err := NewLoader(NewLocator(roots)).Load(" project:plain ")
	require.NoError(t, err)
	assert.Equal(t, "project:plain", skill.Name(), "name falls back to the identifier")
	assert.Contains(t, skill.Render(), "# \n")
	assert.Contains(t, skill.Render(), "Just instructions.")
}

func TestLoaderNotFound(t *testing.T) {
	roots := newTestRoots(t)
	skill, err := NewLoader(NewLocator(roots)).Load("missing")
	assert.Nil(t, skill)
	assert.True(t, errors.Is(err, ErrSkillNotFound))
}

func TestLoaderUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	roots := newTestRoots(t)
	dir := writeSkill(t, roots.Personal, "locked", skillDoc("locked", "", ""))
	require.NoError(t, os.Chmod(filepath.Join(dir, SkillFileName), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(dir, SkillFileName), 0o644) })

	_, err := NewLoader(NewLocator(roots)).Load("locked")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSkillNotFound))
}

func TestNotFoundMessage(t *testing.T) {
	msg := NotFoundMessage(" nope ")
	assert.Equal(t, "Error: Skill \"nope\" not found.\n\nUse the find_skills command to see available skills.", msg)
}
