package cmd

import (
	"context"

	"github.com/pojntfx/dltfs/internal/formatting"
	"github.com/pojntfx/dltfs/pkg/inventory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	nameFlag = "name"
)

var inventoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"lis", "l", "t", "ls"},
	Short:   "List the contents of a directory on the tape",
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

		_, err = inventory.List(
			idx,

			viper.GetString(nameFlag),

			func(entry *inventory.Entry) {
				_ = printInventoryEntry(entry)
			},
		)

		return err
	},
}

func printInventoryEntry(entry *inventory.Entry) error {
	if entry.Directory != nil {
		return formatting.PrintCSV(formatting.GetDirectoryAsCSV(entry.Path, entry.Directory))
	}

	return formatting.PrintCSV(formatting.GetFileAsCSV(entry.Path, entry.File))
}

func init() {
	inventoryListCmd.PersistentFlags().StringP(nameFlag, "n", "/", "Directory to list the contents of")

	viper.AutomaticEnv()

	inventoryCmd.AddCommand(inventoryListCmd)
}
