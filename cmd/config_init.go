package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/brogergvhs/revimg/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var flagInitYes bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Default profile and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		defaultPath := config.PathForLabel(config.DefaultLabel)

		if _, err := os.Stat(defaultPath); err == nil {
			fmt.Fprintf(out, "Configuration already exists at:\n  %s\n", defaultPath)
			fmt.Fprintln(out, "Use `revimg config reset` to restore the defaults.")
			return nil
		}

		fmt.Fprintln(out, "Default configuration:")
		config.DefaultConfig().Print(out)
		fmt.Fprintln(out)

		if !flagInitYes {
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("Create %s", defaultPath),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		path, err := config.InitDefaultConfig()
		if err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Fprintf(out, "Config created at: %s\n", path)
		fmt.Fprintf(out, "This config is now active (label: %s).\n", config.DefaultLabel)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagInitYes, "yes", "y", false, "don't ask for confirmation")
	configCmd.AddCommand(configInitCmd)
}
