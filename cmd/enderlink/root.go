package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/enderlink/enderlink/internal/version"
	"github.com/enderlink/enderlink/pkg/chest"
	"github.com/enderlink/enderlink/pkg/instance"
	"github.com/enderlink/enderlink/pkg/logging"
)

var (
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "enderlink",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(placeCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(craftCmd)
}

// resolveRoot turns the optional positional minecraft-root argument into an
// absolute path, defaulting to the current directory.
func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return chest.NormalizePath(root, cwd)
}

// loadInstances reads the chest config and normalizes every instance root
// against the minecraft root, so the engines only ever see absolute paths.
func loadInstances(minecraftRoot string) ([]instance.Spec, error) {
	configPath, err := chest.Config(minecraftRoot, true)
	if err != nil {
		return nil, err
	}
	instances, err := instance.LoadFromConfig(configPath)
	if err != nil {
		return nil, err
	}
	for i := range instances {
		normalized, err := chest.NormalizePath(instances[i].Root, minecraftRoot)
		if err != nil {
			return nil, err
		}
		instances[i].Root = normalized
	}
	return instances, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: MsgVersionShort,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("enderlink version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: MsgCompletionShort,
	Long: `To load completions:

Bash:
  $ source <(enderlink completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ enderlink completion bash > /etc/bash_completion.d/enderlink
  # macOS:
  $ enderlink completion bash > /usr/local/etc/bash_completion.d/enderlink

Zsh:
  $ enderlink completion zsh > "${fpath[1]}/_enderlink"

Fish:
  $ enderlink completion fish | source
  # To load completions for each session, execute once:
  $ enderlink completion fish > ~/.config/fish/completions/enderlink.fish

PowerShell:
  PS> enderlink completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}
