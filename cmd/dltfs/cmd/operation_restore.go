package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flattenFlag = "flatten"
)

var operationRestoreCmd = &cobra.Command{
	Use:     "restore",
	Aliases: []string{"res", "r", "x", "get", "extract"},
	Short:   "Restore a file or directory from the tape",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		ops, err := newOperations()
		if err != nil {
			return err
		}

		_, err = ops.Restore(
			context.Background(),

			viper.GetString(fromFlag),
			viper.GetString(toFlag),
			viper.GetBool(flattenFlag),
		)

		return err
	},
}

func init() {
	operationRestoreCmd.PersistentFlags().StringP(fromFlag, "f", "", "File or directory on the tape to restore")
	operationRestoreCmd.PersistentFlags().StringP(toFlag, "t", ".", "Directory to restore into")
	operationRestoreCmd.PersistentFlags().BoolP(flattenFlag, "a", false, "Ignore the folder hierarchy on the tape")

	viper.AutomaticEnv()

	operationCmd.AddCommand(operationRestoreCmd)
}
