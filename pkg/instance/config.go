package instance

import (
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/logging"
)

// chestConfig mirrors the instance tables of an enderchest.toml file.
// Instance names are the table keys, so they may freely contain dots
// and spaces.
type chestConfig struct {
	Instances map[string]Spec `toml:"instances"`
}

// LoadFromConfig reads the instance metadata out of an EnderChest config
// file. Instances are returned sorted by name so that a run over the same
// chest is always deterministic.
func LoadFromConfig(configPath string) ([]Spec, error) {
	logger := logging.GetLogger("instance")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"cannot read EnderChest config %s", configPath)
	}

	var cfg chestConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse,
			"cannot parse EnderChest config %s", configPath)
	}

	specs := make([]Spec, 0, len(cfg.Instances))
	for name, spec := range cfg.Instances {
		spec.Name = name
		spec.Modloader = NormalizeModloader(spec.Modloader)
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })

	logger.Debug().
		Int("count", len(specs)).
		Str("config", configPath).
		Msg("loaded instance metadata")

	return specs, nil
}
