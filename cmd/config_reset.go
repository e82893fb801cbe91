package cmd

import (
	"errors"
	"fmt"

	"github.com/brogergvhs/revimg/internal/config"

	"github.com/spf13/cobra"
)

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the active profile with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		activePath, err := config.ActiveConfigPath()
		if errors.Is(err, config.ErrNoConfig) {
			return fmt.Errorf("%w (run `revimg config init`)", err)
		}
		if err != nil {
			return err
		}

		if err := config.SaveYAML(config.DefaultConfig(), activePath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Reset active config: %s\n", activePath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
}
