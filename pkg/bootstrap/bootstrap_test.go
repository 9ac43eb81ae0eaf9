package bootstrap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

const orientationDoc = `---
name: using-superpowers
description: Use at the start of every conversation
---

# Using Superpowers

Check for a relevant skill before every task.
`

func setupRoots(t *testing.T) skills.Roots {
	t.Helper()
	base := t.TempDir()
	return skills.Roots{
		Project:     filepath.Join(base, "project", ".pi", "skills"),
		Personal:    filepath.Join(base, "agent", "skills"),
		Superpowers: filepath.Join(base, "superpowers", "skills"),
	}
}

func installSkill(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, skills.SkillFileName), []byte(content), 0o644))
}

func TestComposeFull(t *testing.T) {
	roots := setupRoots(t)
	installSkill(t, roots.Superpowers, OrientationSkill, orientationDoc)

	payload, err := NewComposer(skills.NewLocator(roots)).Compose(false)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(payload, "<EXTREMELY_IMPORTANT>\nYou have superpowers."))
	assert.True(t, strings.HasSuffix(payload, "</EXTREMELY_IMPORTANT>"))
	assert.Contains(t, payload, "# Using Superpowers")
	assert.Contains(t, payload, "Check for a relevant skill before every task.")
	assert.NotContains(t, payload, "description: Use at the start", "metadata block is stripped")
	assert.Contains(t, payload, "**Tool Mapping for pi coding agent:**")
	assert.Contains(t, payload, "(in "+roots.Personal+"/)")
	assert.Contains(t, payload, "Project skills override personal")
}

func TestComposeCompact(t *testing.T) {
	roots := setupRoots(t)
	installSkill(t, roots.Superpowers, OrientationSkill, orientationDoc)
	composer := NewComposer(skills.NewLocator(roots))

	full, err := composer.Compose(false)
	require.NoError(t, err)
	compact, err := composer.Compose(true)
	require.NoError(t, err)

	assert.Less(t, len(compact), len(full))
	assert.Contains(t, compact, "**Tool Mapping:** TodoWrite->update_plan, Task->subagent, Skill->use_skill")
	assert.Contains(t, compact, "project: > personal > superpowers:")
	assert.Contains(t, compact, "# Using Superpowers")
	assert.NotContains(t, compact, "Tool Mapping for pi coding agent")
}

func TestComposeNotInstalled(t *testing.T) {
	roots := setupRoots(t)

	payload, err := NewComposer(skills.NewLocator(roots)).Compose(false)
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestComposeIgnoresProjectOverride(t *testing.T) {
	roots := setupRoots(t)
	installSkill(t, roots.Project, OrientationSkill, "PROJECT OVERRIDE\n")

	payload, err := NewComposer(skills.NewLocator(roots)).Compose(false)
	require.NoError(t, err)
	assert.Empty(t, payload, "a project copy alone never supplies the orientation skill")

	installSkill(t, roots.Superpowers, OrientationSkill, orientationDoc)
	payload, err = NewComposer(skills.NewLocator(roots)).Compose(true)
	require.NoError(t, err)
	assert.NotContains(t, payload, "PROJECT OVERRIDE")
	assert.Contains(t, payload, "# Using Superpowers")
}

func TestComposePrefersPersonal(t *testing.T) {
	roots := setupRoots(t)
	installSkill(t, roots.Superpowers, OrientationSkill, orientationDoc)
	installSkill(t, roots.Personal, OrientationSkill, "---\nname: using-superpowers\n---\nPersonal orientation.\n")

	payload, err := NewComposer(skills.NewLocator(roots)).Compose(false)
	require.NoError(t, err)
	assert.Contains(t, payload, "Personal orientation.")
	assert.NotContains(t, payload, "# Using Superpowers")
}

func TestComposeRereadsDisk(t *testing.T) {
	roots := setupRoots(t)
	composer := NewComposer(skills.NewLocator(roots))

	payload, err := composer.Compose(true)
	require.NoError(t, err)
	assert.Empty(t, payload)

	installSkill(t, roots.Superpowers, OrientationSkill, orientationDoc)
	payload, err = composer.Compose(true)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}

func TestComposeUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	roots := setupRoots(t)
	installSkill(t, roots.Superpowers, OrientationSkill, orientationDoc)
	file := filepath.Join(roots.Superpowers, OrientationSkill, skills.SkillFileName)
	require.NoError(t, os.Chmod(file, 0o000))
	t.Cleanup(func() { _ = os.Chmod(file, 0o644) })

	_, err := NewComposer(skills.NewLocator(roots)).Compose(false)
	assert.Error(t, err)
}
