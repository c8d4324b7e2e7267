// Package instance defines the specification of a Minecraft installation
// that can receive shulker box links.
package instance

import "strings"

// Spec describes a single Minecraft instance. Values are produced by the
// configuration layer and are read-only from then on.
type Spec struct {
	// Name is the display name for the instance, unique per run
	Name string `toml:"name"`

	// Root is the path to the instance's ".minecraft" folder
	Root string `toml:"root"`

	// MinecraftVersions lists the versions of this instance. Usually a
	// single entry, but some launchers comingle assets across profiles.
	MinecraftVersions []string `toml:"minecraft-version"`

	// Modloader is the canonical display name of the modloader
	// ("" for vanilla)
	Modloader string `toml:"modloader"`

	// Groups are launcher-assigned groupings
	Groups []string `toml:"groups"`

	// Tags are user-assigned labels
	Tags []string `toml:"tags"`
}

// EffectiveTags returns the union of the instance's groups and tags.
// Case is preserved; matching against these is case-insensitive.
func (s Spec) EffectiveTags() []string {
	seen := make(map[string]bool, len(s.Groups)+len(s.Tags))
	combined := make([]string, 0, len(s.Groups)+len(s.Tags))
	for _, tag := range append(append([]string{}, s.Groups...), s.Tags...) {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		combined = append(combined, tag)
	}
	return combined
}

// modloaderAliases maps lowercased loader spellings to their canonical
// display names. An empty canonical name means vanilla.
var modloaderAliases = map[string]string{
	"":                "",
	"none":            "",
	"vanilla":         "",
	"fabric":          "Fabric Loader",
	"fabric loader":   "Fabric Loader",
	"fabricloader":    "Fabric Loader",
	"quilt":           "Quilt Loader",
	"quilt loader":    "Quilt Loader",
	"quiltloader":     "Quilt Loader",
	"forge":           "Forge",
	"minecraft forge": "Forge",
	"minecraftforge":  "Forge",
	"neoforge":        "NeoForge",
	"liteloader":      "LiteLoader",
}

// NormalizeModloader maps the many spellings of a modloader name onto its
// canonical display form. Unrecognized loaders pass through unchanged.
func NormalizeModloader(loader string) string {
	if canonical, ok := modloaderAliases[strings.ToLower(strings.TrimSpace(loader))]; ok {
		return canonical
	}
	return loader
}
