// Package testutil provides shared fixtures for building throwaway
// EnderChests, shulker boxes and instance trees in tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/enderlink/enderlink/pkg/chest"
	"github.com/enderlink/enderlink/pkg/instance"
	"github.com/enderlink/enderlink/pkg/shulker"
)

// Chest is a minecraft root with an EnderChest folder inside it
type Chest struct {
	// MinecraftRoot is the directory holding the EnderChest folder
	MinecraftRoot string

	// Folder is the EnderChest folder itself
	Folder string
}

// NewChest builds an empty EnderChest inside a fresh temp directory
func NewChest(t *testing.T) Chest {
	t.Helper()
	root := t.TempDir()
	folder := filepath.Join(root, chest.FolderName)
	require.NoError(t, os.MkdirAll(folder, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, chest.ConfigName), []byte{}, 0644))
	return Chest{MinecraftRoot: root, Folder: folder}
}

// NewBox creates a shulker box folder with the given files (paths
// relative to the box root, contents as values) and returns its spec.
// The spec carries the package defaults; tweak fields afterwards as the
// test needs.
func (c Chest) NewBox(t *testing.T, name string, priority int, files map[string]string) shulker.Box {
	t.Helper()
	root := filepath.Join(c.Folder, name)
	require.NoError(t, os.MkdirAll(root, 0755))
	for rel, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	}
	return shulker.Box{
		Priority:     priority,
		Name:         name,
		Root:         root,
		MaxLinkDepth: shulker.DefaultLinkDepth,
		DoNotLink:    append([]string{}, shulker.DefaultDoNotLink...),
	}
}

// NewInstance creates an instance tree under the minecraft root and
// returns its spec
func (c Chest) NewInstance(t *testing.T, name string) instance.Spec {
	t.Helper()
	root := filepath.Join(c.MinecraftRoot, "instances", name, ".minecraft")
	require.NoError(t, os.MkdirAll(root, 0755))
	return instance.Spec{
		Name:              name,
		Root:              root,
		MinecraftVersions: []string{"1.20.1"},
	}
}

// ReadLink asserts path is a symlink and returns its immediate target
func ReadLink(t *testing.T, path string) string {
	t.Helper()
	target, err := os.Readlink(path)
	require.NoError(t, err, "expected %s to be a symlink", path)
	return target
}

// AssertLinksTo asserts that the symlink at path resolves to want
func AssertLinksTo(t *testing.T, path, want string) {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err, "cannot resolve %s", path)
	expected, err := filepath.EvalSymlinks(want)
	require.NoError(t, err, "cannot resolve %s", want)
	require.Equal(t, expected, resolved)
}

// IsSymlink reports whether path exists and is a symlink
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}
