package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Aliases: []string{"inv", "v"},
	Short:   "Get contents and metadata of the tape from the index",
}

func init() {
	viper.AutomaticEnv()

	rootCmd.AddCommand(inventoryCmd)
}
