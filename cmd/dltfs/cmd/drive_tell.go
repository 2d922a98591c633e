package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var driveTellCmd = &cobra.Command{
	Use:   "tell",
	Short: "Get the current position of the tape head",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		ops, err := newOperations()
		if err != nil {
			return err
		}

		position, err := ops.Tell()
		if err != nil {
			return err
		}

		fmt.Printf("partition=%v block=%v filemarks=%v\n", position.Partition, position.Block, position.File)

		return nil
	},
}

func init() {
	viper.AutomaticEnv()

	driveCmd.AddCommand(driveTellCmd)
}
