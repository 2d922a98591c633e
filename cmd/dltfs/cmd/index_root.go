package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var indexCmd = &cobra.Command{
	Use:     "index",
	Aliases: []string{"idx", "i"},
	Short:   "Manage the on-tape index",
}

func init() {
	viper.AutomaticEnv()

	rootCmd.AddCommand(indexCmd)
}
