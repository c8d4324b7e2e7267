// Package chest locates the EnderChest folder and the shulker boxes and
// config files inside it.
package chest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/logging"
)

const (
	// FolderName is the name of the EnderChest folder inside the
	// minecraft root
	FolderName = "EnderChest"

	// ConfigName is the name of the EnderChest config file
	ConfigName = "enderchest.toml"

	// BoxConfigName is the name of each shulker box's config file
	BoxConfigName = "shulkerbox.toml"
)

// Config returns the path to the EnderChest config file underneath the
// given minecraft root. Unless checking is disabled, an ErrChestNotFound
// is returned when no config exists there.
func Config(minecraftRoot string, checkExists bool) (string, error) {
	configPath := filepath.Join(minecraftRoot, FolderName, ConfigName)
	if checkExists {
		if _, err := os.Stat(configPath); err != nil {
			return "", errors.Wrapf(err, errors.ErrChestNotFound,
				"no valid EnderChest installation exists within %s", minecraftRoot)
		}
	}
	return configPath, nil
}

// Folder returns the path to the EnderChest folder underneath the given
// minecraft root, with the same existence checking as Config.
func Folder(minecraftRoot string, checkExists bool) (string, error) {
	configPath, err := Config(minecraftRoot, checkExists)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

// BoxRoot returns the path to the root of the named shulker box. It does
// not check whether a box actually exists there.
func BoxRoot(minecraftRoot, boxName string) (string, error) {
	folder, err := Folder(minecraftRoot, true)
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, boxName), nil
}

// BoxConfig returns the path to the named shulker box's config file. It
// does not check whether the config actually exists.
func BoxConfig(minecraftRoot, boxName string) (string, error) {
	root, err := BoxRoot(minecraftRoot, boxName)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, BoxConfigName), nil
}

// BoxConfigs finds all shulker box config files inside the EnderChest,
// sorted by path. The configs are not validated, just located.
func BoxConfigs(minecraftRoot string) ([]string, error) {
	logger := logging.GetLogger("chest")

	folder, err := Folder(minecraftRoot, true)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("folder", folder).Msg("searching for shulker box configs")

	matches, err := filepath.Glob(filepath.Join(folder, "*", BoxConfigName))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "bad shulker box config glob")
	}
	sort.Strings(matches)
	return matches, nil
}
