package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var indexInitCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"format", "f"},
	Short:   "Initialize blank media with labels and an empty index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		ops, err := newOperations()
		if err != nil {
			return err
		}

		idx, err := ops.Initialize(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("volumeuuid=%v\n", idx.VolumeUUID)

		return nil
	},
}

func init() {
	viper.AutomaticEnv()

	indexCmd.AddCommand(indexInitCmd)
}
