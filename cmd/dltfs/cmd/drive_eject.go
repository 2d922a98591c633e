package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var driveEjectCmd = &cobra.Command{
	Use:     "eject",
	Aliases: []string{"e"},
	Short:   "Eject the cartridge from the drive",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		ops, err := newOperations()
		if err != nil {
			return err
		}

		return ops.Eject()
	},
}

func init() {
	viper.AutomaticEnv()

	driveCmd.AddCommand(driveEjectCmd)
}
