package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/enderlink/enderlink/pkg/logging"
	"github.com/enderlink/enderlink/pkg/place"
	"github.com/enderlink/enderlink/pkg/prompt"
	"github.com/enderlink/enderlink/pkg/shulker"
)

var (
	placeKeepBrokenLinks bool
	placeAbsoluteLinks   bool
	placeOnConflict      string
	placeHost            string
)

var placeCmd = &cobra.Command{
	Use:   "place [minecraft-root]",
	Short: MsgPlaceShort,
	Long:  MsgPlaceLong,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.place")

		minecraftRoot, err := resolveRoot(args)
		if err != nil {
			return err
		}

		instances, err := loadInstances(minecraftRoot)
		if err != nil {
			return err
		}

		boxes, err := shulker.LoadBoxes(minecraftRoot)
		if err != nil {
			return err
		}

		policy, err := place.ParsePolicy(placeOnConflict)
		if err != nil {
			return err
		}

		host := placeHost
		if host == "" {
			host, err = os.Hostname()
			if err != nil {
				return err
			}
		}

		var prompter place.Prompter
		if policy == place.PolicyPrompt {
			if isatty.IsTerminal(os.Stdin.Fd()) {
				prompter = prompt.NewConsolePrompter()
			} else {
				// no terminal to ask on; treat every conflict as fatal
				logger.Warn().Msg("stdin is not a terminal, conflicts will abort")
				policy = place.PolicyAbort
			}
		}

		logger.Info().
			Str("host", host).
			Int("instances", len(instances)).
			Int("boxes", len(boxes)).
			Str("onConflict", string(policy)).
			Msg("Starting place")

		return place.Place(place.Options{
			Instances:       instances,
			Boxes:           boxes,
			Host:            host,
			KeepBrokenLinks: placeKeepBrokenLinks,
			OnConflict:      policy,
			Prompter:        prompter,
			AbsoluteLinks:   placeAbsoluteLinks,
		})
	},
}

func init() {
	placeCmd.Flags().BoolVar(&placeKeepBrokenLinks, "keep-broken-links", false,
		"Leave dangling symlinks found inside instances in place")
	placeCmd.Flags().BoolVar(&placeAbsoluteLinks, "absolute", false,
		"Create absolute symlinks instead of relative ones")
	placeCmd.Flags().StringVar(&placeOnConflict, "on-conflict", string(place.PolicyPrompt),
		"What to do when a link cannot be created (prompt, ignore, skip, skip-instance, skip-shulker-box, abort)")
	placeCmd.Flags().StringVar(&placeHost, "host", "",
		"Override the hostname used for host-scoped shulker boxes")
}
