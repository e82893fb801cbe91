package cmd

import (
	"errors"
	"fmt"

	"github.com/brogergvhs/revimg/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var configSwitchCmd = &cobra.Command{
	Use:   "switch [label]",
	Short: "Make another profile active",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := ""
		if len(args) == 1 {
			label = args[0]
		} else {
			picked, err := pickProfile()
			if err != nil {
				return err
			}
			label = picked
		}

		if err := config.SwitchConfig(label); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Switched to:", label)
		return nil
	},
}

func pickProfile() (string, error) {
	list, err := config.ListConfigs()
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", errors.New("no configs available, run `revimg config init`")
	}

	items := make([]string, 0, len(list))
	cursor := 0
	for i, c := range list {
		if c.Active {
			items = append(items, c.Label+"  (active)")
			cursor = i
			continue
		}
		items = append(items, c.Label)
	}

	prompt := promptui.Select{
		Label:     "Select config",
		Items:     items,
		CursorPos: cursor,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", errors.New("selection cancelled")
	}

	return list[idx].Label, nil
}

func init() {
	configCmd.AddCommand(configSwitchCmd)
}
