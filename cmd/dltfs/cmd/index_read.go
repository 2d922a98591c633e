package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var indexReadCmd = &cobra.Command{
	Use:     "read",
	Aliases: []string{"r"},
	Short:   "Locate and read the current index from the tape",
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

		fmt.Printf(
			"volumeuuid=%v generation=%v updatetime=%v files=%v\n",
			idx.VolumeUUID,
			idx.GenerationNumber,
			idx.UpdateTime,
			idx.CountFiles(),
		)

		return nil
	},
}

func init() {
	viper.AutomaticEnv()

	indexCmd.AddCommand(indexReadCmd)
}
