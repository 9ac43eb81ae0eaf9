package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SkillFileName), []byte(content), 0o644))
	return dir
}

func skillDoc(name, description, body string) string {
	return "---\nname: " + name + "\ndescription: " + description + "\n---\n" + body
}

func newTestRoots(t *testing.T) Roots {
	t.Helper()
	base := t.TempDir()
	return Roots{
		Project:     filepath.Join(base, ".pi", "skills"),
		Personal:    filepath.Join(base, "personal"),
		Superpowers: filepath.Join(base, "superpowers-lib"),
	}
}
