package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var driveCapacityCmd = &cobra.Command{
	Use:     "capacity",
	Aliases: []string{"cap", "c"},
	Short:   "Get the total and remaining capacity of the cartridge",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		ops, err := newOperations()
		if err != nil {
			return err
		}

		capacity, err := ops.Capacity()
		if err != nil {
			return err
		}

		fmt.Println(capacity)

		return nil
	},
}

func init() {
	viper.AutomaticEnv()

	driveCmd.AddCommand(driveCapacityCmd)
}
