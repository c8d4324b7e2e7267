package instance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enderlink/enderlink/pkg/errors"
)

func TestEffectiveTags(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{
			name: "groups come before tags",
			spec: Spec{Groups: []string{"vanilla"}, Tags: []string{"main"}},
			want: []string{"vanilla", "main"},
		},
		{
			name: "duplicates folded case-insensitively",
			spec: Spec{Groups: []string{"Modded"}, Tags: []string{"modded", "dev"}},
			want: []string{"Modded", "dev"},
		},
		{
			name: "empty",
			spec: Spec{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.EffectiveTags())
		})
	}
}

func TestNormalizeModloader(t *testing.T) {
	tests := []struct {
		loader string
		want   string
	}{
		{"fabric", "Fabric Loader"},
		{"FabricLoader", "Fabric Loader"},
		{"Fabric Loader", "Fabric Loader"},
		{"quilt", "Quilt Loader"},
		{"forge", "Forge"},
		{"NeoForge", "NeoForge"},
		{"vanilla", ""},
		{"none", ""},
		{"", ""},
		{"Rift", "Rift"}, // unknown loaders pass through
	}

	for _, tt := range tests {
		t.Run(tt.loader, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeModloader(tt.loader))
		})
	}
}

func TestLoadFromConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "enderchest.toml")
	contents := `
[instances."official launcher"]
root = "~/.minecraft"
minecraft-version = ["1.20.1", "1.19.4"]
modloader = ""
groups = ["vanilla"]

[instances."fabric 1.19"]
root = "instances/fabric-1.19/.minecraft"
minecraft-version = ["1.19.4"]
modloader = "fabric"
tags = ["modded", "main"]
`
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0644))

	specs, err := LoadFromConfig(configPath)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	// sorted by name
	assert.Equal(t, "fabric 1.19", specs[0].Name)
	assert.Equal(t, "Fabric Loader", specs[0].Modloader)
	assert.Equal(t, []string{"modded", "main"}, specs[0].EffectiveTags())

	assert.Equal(t, "official launcher", specs[1].Name)
	assert.Equal(t, "", specs[1].Modloader)
	assert.Equal(t, []string{"1.20.1", "1.19.4"}, specs[1].MinecraftVersions)
}

func TestLoadFromConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromConfig(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "enderchest.toml")
		require.NoError(t, os.WriteFile(configPath, []byte("[instances\n"), 0644))

		_, err := LoadFromConfig(configPath)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})
}
