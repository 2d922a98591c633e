package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	fromFlag = "from"
	toFlag   = "to"
)

var operationArchiveCmd = &cobra.Command{
	Use:     "archive",
	Aliases: []string{"arc", "a", "c"},
	Short:   "Archive a file or directory to the tape",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		ops, err := newOperations()
		if err != nil {
			return err
		}

		_, err = ops.Archive(
			context.Background(),

			viper.GetString(fromFlag),
			viper.GetString(toFlag),
		)

		return err
	},
}

func init() {
	operationArchiveCmd.PersistentFlags().StringP(fromFlag, "f", ".", "File or directory to archive")
	operationArchiveCmd.PersistentFlags().StringP(toFlag, "t", "/", "Directory on the tape to archive into")

	viper.AutomaticEnv()

	operationCmd.AddCommand(operationArchiveCmd)
}
