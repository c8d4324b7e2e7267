package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enderlink/enderlink/pkg/chest"
	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/logging"
	"github.com/enderlink/enderlink/pkg/prompt"
	"github.com/enderlink/enderlink/pkg/uninstall"
)

var breakAssumeYes bool

var breakCmd = &cobra.Command{
	Use:   "break [minecraft-root]",
	Short: MsgBreakShort,
	Long:  MsgBreakLong,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.break")

		minecraftRoot, err := resolveRoot(args)
		if err != nil {
			return err
		}

		instances, err := loadInstances(minecraftRoot)
		if err != nil {
			return err
		}

		if !breakAssumeYes {
			ok, err := prompt.Confirm(MsgBreakConfirm, false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(MsgBreakAborted)
				return nil
			}
		}

		chestFolder, err := chest.Folder(minecraftRoot, true)
		if err != nil {
			return err
		}

		report := uninstall.Break(chestFolder, instances)

		logger.Info().
			Int("replaced", report.Replaced).
			Int("relinked", report.Relinked).
			Int("skipped", report.Skipped).
			Int("failed", report.Failed).
			Msg("Break finished")

		fmt.Printf("Replaced %d links with copies, re-pointed %d, left %d alone.\n",
			report.Replaced, report.Relinked, report.Skipped)
		if report.Failed > 0 {
			return errors.Newf(errors.ErrCopyBack, "%d links could not be broken", report.Failed)
		}
		return nil
	},
}

func init() {
	breakCmd.Flags().BoolVarP(&breakAssumeYes, "yes", "y", false,
		"Skip the confirmation prompt")
}
