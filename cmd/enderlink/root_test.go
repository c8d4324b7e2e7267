package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enderlink/enderlink/pkg/chest"
)

func TestRootRegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"place", "break", "craft", "version", "completion"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestVersionCmd(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
}

func TestPlaceCmdRejectsBadPolicy(t *testing.T) {
	root := newTestChest(t)

	rootCmd.SetArgs([]string{"place", "--on-conflict", "shrug", root})
	assert.Error(t, rootCmd.Execute())
}

func TestPlaceCmdEmptyChest(t *testing.T) {
	root := newTestChest(t)

	rootCmd.SetArgs([]string{"place", "--on-conflict", "abort", root})
	assert.NoError(t, rootCmd.Execute())
}

func TestBreakCmdEmptyChest(t *testing.T) {
	root := newTestChest(t)

	rootCmd.SetArgs([]string{"break", "--yes", root})
	assert.NoError(t, rootCmd.Execute())
}

func TestCraftCmd(t *testing.T) {
	root := newTestChest(t)

	rootCmd.SetArgs([]string{"craft", "--root", root, "--priority", "3",
		"--link-folder", "saves", "--tag", "modded", "fabric-pack"})
	require.NoError(t, rootCmd.Execute())

	boxRoot := filepath.Join(root, chest.FolderName, "fabric-pack")
	assert.DirExists(t, filepath.Join(boxRoot, "saves"))
	assert.FileExists(t, filepath.Join(boxRoot, chest.BoxConfigName))

	// crafting the same box twice is refused
	rootCmd.SetArgs([]string{"craft", "--root", root, "fabric-pack"})
	assert.Error(t, rootCmd.Execute())
}

// newTestChest lays down a minecraft root with an empty EnderChest config
func newTestChest(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	chestFolder := filepath.Join(root, chest.FolderName)
	require.NoError(t, os.MkdirAll(chestFolder, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(chestFolder, chest.ConfigName), []byte{}, 0644))
	return root
}
