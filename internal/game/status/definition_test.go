package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-games/menagerie/internal/game/status"
)

func writeYAML(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "poison.yaml", `
id: poison
name: Poison
description: Deals damage each turn.
kind: damage
`)
	writeYAML(t, dir, "sleep.yaml", `
id: sleep
name: Sleep
description: Skips the bearer's turn.
kind: skip_turn
`)
	writeYAML(t, dir, "ignored.txt", "not yaml")

	reg, err := status.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, reg.All(), 2)

	def, ok := reg.Get("poison")
	require.True(t, ok)
	assert.Equal(t, status.KindDamage, def.Kind)

	_, ok = reg.Get("ignored")
	assert.False(t, ok)
}

func TestLoadDirectory_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "bad.yaml", `
id: burn
name: Burn
kind: damage
bogus_field: true
`)
	_, err := status.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_InvalidKindRejected(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "bad.yaml", `
id: burn
name: Burn
kind: vaporize
`)
	_, err := status.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := status.LoadDirectory(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
