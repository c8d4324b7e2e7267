package shulker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/enderlink/enderlink/pkg/chest"
	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/logging"
)

// canonicalConditions fixes the order known criteria are evaluated in;
// anything else sorts after them and gets rejected by the match engine
var canonicalConditions = []string{
	ConditionInstances,
	ConditionTags,
	ConditionModloader,
	ConditionMinecraft,
	ConditionHosts,
}

// ParseConfig reads a shulker box definition from its config file. The
// box takes its name from the folder holding the config and its root is
// that folder. Unknown match conditions are kept: rejecting them is the
// match engine's job, so that one bad box doesn't sink the whole run.
func ParseConfig(configPath string) (Box, error) {
	logger := logging.GetLogger("shulker")

	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
		return Box{}, errors.Wrapf(err, errors.ErrConfigLoad,
			"cannot read shulker box config %s", configPath)
	}

	root := filepath.Dir(configPath)
	box := Box{
		Priority:     k.Int("properties.priority"),
		Name:         filepath.Base(root),
		Root:         root,
		LinkFolders:  k.Strings("properties.link-folders"),
		MaxLinkDepth: DefaultLinkDepth,
		DoNotLink:    append([]string{}, DefaultDoNotLink...),
	}
	if k.Exists("properties.max-link-depth") {
		box.MaxLinkDepth = k.Int("properties.max-link-depth")
	}
	if k.Exists("properties.do-not-link") {
		box.DoNotLink = k.Strings("properties.do-not-link")
	}

	conditions := k.MapKeys("match")
	sortConditions(conditions)
	for _, condition := range conditions {
		box.MatchCriteria = append(box.MatchCriteria, Criterion{
			Condition: condition,
			Patterns:  k.Strings("match." + condition),
		})
	}

	logger.Debug().
		Str("box", box.Name).
		Int("priority", box.Priority).
		Int("criteria", len(box.MatchCriteria)).
		Msg("parsed shulker box config")

	return box, nil
}

// LoadBoxes parses every shulker box in the chest and returns them in
// application order. Boxes whose configs cannot be parsed are skipped
// with a warning; a duplicate (priority, name) key is an error.
func LoadBoxes(minecraftRoot string) ([]Box, error) {
	logger := logging.GetLogger("shulker")

	configPaths, err := chest.BoxConfigs(minecraftRoot)
	if err != nil {
		return nil, err
	}

	boxes := make([]Box, 0, len(configPaths))
	for _, configPath := range configPaths {
		box, err := ParseConfig(configPath)
		if err != nil {
			logger.Warn().Err(err).Str("config", configPath).Msg("skipping unparseable shulker box")
			continue
		}
		boxes = append(boxes, box)
	}

	if err := SortByPriority(boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

// boxConfig is the on-disk shape of a shulkerbox.toml file
type boxConfig struct {
	Properties boxProperties       `toml:"properties"`
	Match      map[string][]string `toml:"match,omitempty"`
}

type boxProperties struct {
	Priority     int      `toml:"priority"`
	MaxLinkDepth int      `toml:"max-link-depth,omitempty"`
	LinkFolders  []string `toml:"link-folders,omitempty"`
	DoNotLink    []string `toml:"do-not-link,omitempty"`
}

// WriteConfig renders the box's configuration to TOML and, when a path
// is given, writes it to file. The Root attribute is not serialized.
func (b Box) WriteConfig(configPath string) (string, error) {
	cfg := boxConfig{
		Properties: boxProperties{
			Priority:    b.Priority,
			LinkFolders: b.LinkFolders,
			DoNotLink:   b.DoNotLink,
		},
	}
	if b.MaxLinkDepth != DefaultLinkDepth {
		cfg.Properties.MaxLinkDepth = b.MaxLinkDepth
	}
	if len(b.MatchCriteria) > 0 {
		cfg.Match = make(map[string][]string, len(b.MatchCriteria))
		for _, criterion := range b.MatchCriteria {
			cfg.Match[criterion.Condition] = criterion.Patterns
		}
	}

	rendered, err := gotoml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal,
			"cannot serialize config for shulker box %s", b.Name)
	}

	if configPath != "" {
		if err := os.WriteFile(configPath, rendered, 0644); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad,
				"cannot write config for shulker box %s", b.Name)
		}
	}
	return string(rendered), nil
}

// sortConditions orders known conditions canonically and unknown ones
// alphabetically after them
func sortConditions(conditions []string) {
	rank := func(condition string) string {
		for i, known := range canonicalConditions {
			if condition == known {
				return fmt.Sprintf("0%d", i)
			}
		}
		return "1" + condition
	}
	sort.Slice(conditions, func(i, j int) bool {
		return rank(conditions[i]) < rank(conditions[j])
	})
}
