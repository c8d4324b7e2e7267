package shulker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/instance"
)

func fabricInstance() instance.Spec {
	return instance.Spec{
		Name:              "fabric 1.19",
		Root:              "instances/fabric-1.19/.minecraft",
		MinecraftVersions: []string{"1.19.4"},
		Modloader:         "Fabric Loader",
		Groups:            []string{"modded"},
		Tags:              []string{"main", "aether"},
	}
}

func vanillaInstance() instance.Spec {
	return instance.Spec{
		Name:              "official launcher",
		Root:              "~/.minecraft",
		MinecraftVersions: []string{"1.20.1", "23w13a_or_b"},
		Modloader:         "",
	}
}

func TestMatchesInstances(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		inst     instance.Spec
		want     bool
	}{
		{"exact name", []string{"fabric 1.19"}, fabricInstance(), true},
		{"wildcard", []string{"fabric*"}, fabricInstance(), true},
		{"case sensitive", []string{"Fabric*"}, fabricInstance(), false},
		{"no pattern matches", []string{"forge*", "quilt*"}, fabricInstance(), false},
		{"exclusion rejects", []string{"!fabric*"}, fabricInstance(), false},
		{"exclusion plus implicit star", []string{"!forge*"}, fabricInstance(), true},
		{"quoted literal", []string{`"fabric 1.19"`}, fabricInstance(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := Box{MatchCriteria: []Criterion{
				{Condition: ConditionInstances, Patterns: tt.patterns},
			}}
			got, err := box.Matches(tt.inst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesTags(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		inst     instance.Spec
		want     bool
	}{
		{"tag match is case-insensitive", []string{"MAIN"}, fabricInstance(), true},
		{"groups count as tags", []string{"modded"}, fabricInstance(), true},
		{"star matches empty tag set", []string{"*"}, vanillaInstance(), true},
		{"plain pattern needs a tag", []string{"m*"}, vanillaInstance(), false},
		{"exclusion rejects", []string{"*", "!aether"}, fabricInstance(), false},
		{"exclusion misses", []string{"!nether"}, fabricInstance(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := Box{MatchCriteria: []Criterion{
				{Condition: ConditionTags, Patterns: tt.patterns},
			}}
			got, err := box.Matches(tt.inst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesModloader(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		inst     instance.Spec
		want     bool
	}{
		{"alias resolves", []string{"fabric"}, fabricInstance(), true},
		{"canonical form", []string{"Fabric Loader"}, fabricInstance(), true},
		{"vanilla aliases to empty", []string{"vanilla"}, vanillaInstance(), true},
		{"none aliases to empty", []string{"none"}, vanillaInstance(), true},
		{"wrong loader", []string{"forge"}, fabricInstance(), false},
		{"vanilla does not match a loader", []string{"fabric"}, vanillaInstance(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := Box{MatchCriteria: []Criterion{
				{Condition: ConditionModloader, Patterns: tt.patterns},
			}}
			got, err := box.Matches(tt.inst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesVersion(t *testing.T) {
	tests := []struct {
		spec    string
		version string
		want    bool
	}{
		{">=1.19.0,<1.20", "1.19.4", true},
		{">=1.19.0,<1.20", "1.20.0", false},
		{"1.20*", "1.20-pre1", true},
		{"23w13a_or_b", "23w13a_or_b", true},
		{"1.19", "1.20.0", false},
		{"1.19.4", "1.19.4", true},
		{">=1.19", "23w13a", false}, // unparseable version falls back to literal
		{"*", "23w13a", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec+"/"+tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesVersion(tt.spec, tt.version))
		})
	}
}

func TestMatchesMinecraftAnyVersionWins(t *testing.T) {
	box := Box{MatchCriteria: []Criterion{
		{Condition: ConditionMinecraft, Patterns: []string{">=1.20"}},
	}}

	// vanillaInstance carries 1.20.1 alongside a snapshot; the release
	// satisfying the range is enough
	got, err := box.Matches(vanillaInstance())
	require.NoError(t, err)
	assert.True(t, got)

	got, err = box.Matches(fabricInstance())
	require.NoError(t, err)
	assert.False(t, got)
}

func TestMatchesIsAndOfOrs(t *testing.T) {
	box := Box{MatchCriteria: []Criterion{
		{Condition: ConditionModloader, Patterns: []string{"fabric", "quilt"}},
		{Condition: ConditionMinecraft, Patterns: []string{">=1.19,<1.20"}},
	}}

	got, err := box.Matches(fabricInstance())
	require.NoError(t, err)
	assert.True(t, got)

	// modloader OR passes on its own, but the version AND leg fails
	newer := fabricInstance()
	newer.MinecraftVersions = []string{"1.20.1"}
	got, err = box.Matches(newer)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestMatchesUnknownCondition(t *testing.T) {
	box := Box{MatchCriteria: []Criterion{
		{Condition: "biome", Patterns: []string{"plains"}},
	}}

	_, err := box.Matches(fabricInstance())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMatchCondition))
}

func TestMatchesIgnoresHosts(t *testing.T) {
	// hosts constrain box visibility, never per-instance matching
	box := Box{MatchCriteria: []Criterion{
		{Condition: ConditionHosts, Patterns: []string{"no-such-machine"}},
	}}

	got, err := box.Matches(fabricInstance())
	require.NoError(t, err)
	assert.True(t, got)
}

func TestMatchesHost(t *testing.T) {
	tests := []struct {
		name     string
		criteria []Criterion
		hostname string
		want     bool
	}{
		{"absent means every host", nil, "steamdeck", true},
		{
			"case-insensitive glob",
			[]Criterion{{Condition: ConditionHosts, Patterns: []string{"Steam*"}}},
			"steamdeck",
			true,
		},
		{
			"no pattern matches",
			[]Criterion{{Condition: ConditionHosts, Patterns: []string{"tower", "laptop"}}},
			"steamdeck",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := Box{MatchCriteria: tt.criteria}
			assert.Equal(t, tt.want, box.MatchesHost(tt.hostname))
		})
	}
}

func TestMatchesIsPure(t *testing.T) {
	box := Box{MatchCriteria: []Criterion{
		{Condition: ConditionTags, Patterns: []string{"m*"}},
		{Condition: ConditionMinecraft, Patterns: []string{">=1.19,<1.20"}},
	}}
	inst := fabricInstance()

	for i := 0; i < 5; i++ {
		got, err := box.Matches(inst)
		require.NoError(t, err)
		assert.True(t, got)
		assert.True(t, box.MatchesHost("anyhost"))
	}
}
