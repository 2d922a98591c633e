package cmd

import (
	"context"

	"github.com/pojntfx/dltfs/internal/formatting"
	"github.com/pojntfx/dltfs/pkg/inventory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inventoryStatCmd = &cobra.Command{
	Use:     "stat",
	Aliases: []string{"sta", "a"},
	Short:   "Get information on a file or directory on the tape",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		ops, err := newOperations()
		if err != nil {
			return err
		}

		idx, err := ops.ReadIndex(context.Background())
		if err != nil {
			return err
		}

		if err := formatting.PrintCSV(formatting.IndexEntryCSV); err != nil {
			return err
		}

		entry, err := inventory.Stat(
			idx,

			viper.GetString(nameFlag),

			nil,
		)
		if err != nil {
			return err
		}

		return printInventoryEntry(entry)
	},
}

func init() {
	inventoryStatCmd.PersistentFlags().StringP(nameFlag, "n", "", "Path to get the information of")

	viper.AutomaticEnv()

	inventoryCmd.AddCommand(inventoryStatCmd)
}
