package cmd

import (
	"context"

	"github.com/pojntfx/dltfs/internal/formatting"
	"github.com/pojntfx/dltfs/pkg/inventory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	expressionFlag = "expression"
)

var inventoryFindCmd = &cobra.Command{
	Use:     "find",
	Aliases: []string{"fin", "f", "s"},
	Short:   "Find files and directories on the tape by regular expression",
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

		_, err = inventory.Find(
			idx,

			viper.GetString(expressionFlag),

			func(entry *inventory.Entry) {
				_ = printInventoryEntry(entry)
			},
		)

		return err
	},
}

func init() {
	inventoryFindCmd.PersistentFlags().StringP(expressionFlag, "x", "", "Regex to match the paths against")

	viper.AutomaticEnv()

	inventoryCmd.AddCommand(inventoryFindCmd)
}
