package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/enderlink/enderlink/pkg/chest"
	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/logging"
	"github.com/enderlink/enderlink/pkg/shulker"
)

var (
	craftPriority    int
	craftLinkFolders []string
	craftHosts       []string
	craftInstances   []string
	craftTags        []string
	craftRoot        string
)

var craftCmd = &cobra.Command{
	Use:   "craft <box-name>",
	Short: MsgCraftShort,
	Long: `Craft creates an empty shulker box inside the EnderChest and writes
its config file. Match conditions given as flags become the box's
initial criteria; a box crafted with none matches every instance.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.craft")
		boxName := args[0]

		minecraftRoot, err := resolveRoot(rootArgs())
		if err != nil {
			return err
		}

		boxRoot, err := chest.BoxRoot(minecraftRoot, boxName)
		if err != nil {
			return err
		}
		configPath := filepath.Join(boxRoot, chest.BoxConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return errors.Newf(errors.ErrInvalidInput,
				"shulker box %s already exists", boxName)
		}

		box := shulker.Box{
			Priority:     craftPriority,
			Name:         boxName,
			Root:         boxRoot,
			LinkFolders:  craftLinkFolders,
			MaxLinkDepth: shulker.DefaultLinkDepth,
			DoNotLink:    shulker.DefaultDoNotLink,
		}
		if len(craftInstances) > 0 {
			box.MatchCriteria = append(box.MatchCriteria,
				shulker.Criterion{Condition: shulker.ConditionInstances, Patterns: craftInstances})
		}
		if len(craftTags) > 0 {
			box.MatchCriteria = append(box.MatchCriteria,
				shulker.Criterion{Condition: shulker.ConditionTags, Patterns: craftTags})
		}
		if len(craftHosts) > 0 {
			box.MatchCriteria = append(box.MatchCriteria,
				shulker.Criterion{Condition: shulker.ConditionHosts, Patterns: craftHosts})
		}
		if err := box.Validate(); err != nil {
			return err
		}

		if err := os.MkdirAll(boxRoot, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate,
				"cannot create shulker box folder %s", boxRoot)
		}
		for _, folder := range craftLinkFolders {
			if err := os.MkdirAll(filepath.Join(boxRoot, folder), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate,
					"cannot create link folder %s", folder)
			}
		}

		if _, err := box.WriteConfig(configPath); err != nil {
			return err
		}

		logger.Info().Str("box", boxName).Int("priority", craftPriority).
			Msg("Shulker box crafted")
		fmt.Printf("Crafted shulker box %s at %s\n", boxName, boxRoot)
		return nil
	},
}

// rootArgs adapts the --root flag onto the positional-argument shape
// resolveRoot expects.
func rootArgs() []string {
	if craftRoot == "" {
		return nil
	}
	return []string{craftRoot}
}

func init() {
	craftCmd.Flags().IntVar(&craftPriority, "priority", 0,
		"Box priority (higher wins when boxes provide the same file)")
	craftCmd.Flags().StringArrayVar(&craftLinkFolders, "link-folder", nil,
		"Folder to link wholesale instead of file by file (repeatable)")
	craftCmd.Flags().StringArrayVar(&craftInstances, "instance", nil,
		"Instance name pattern the box should match (repeatable)")
	craftCmd.Flags().StringArrayVar(&craftTags, "tag", nil,
		"Tag pattern the box should match (repeatable)")
	craftCmd.Flags().StringArrayVar(&craftHosts, "host", nil,
		"Host name pattern the box applies on (repeatable)")
	craftCmd.Flags().StringVar(&craftRoot, "root", "",
		"Minecraft root containing the EnderChest (defaults to the current directory)")
}
