package cmd

import (
	"context"
	"fmt"

	"github.com/pojntfx/dltfs/internal/formatting"
	"github.com/pojntfx/dltfs/pkg/persisters"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var snapshotCSV = []string{
	"id", "volumeuuid", "generation", "updatetime", "files", "path", "createdat",
}

var recoverySnapshotsCmd = &cobra.Command{
	Use:     "snapshots",
	Aliases: []string{"sna", "s"},
	Short:   "List the persisted index snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		metadataPersister := persisters.NewMetadataPersister(
			viper.GetString(metadataFlag),
			viper.GetString(snapshotDirFlag),
		)
		if err := metadataPersister.Open(); err != nil {
			return err
		}

		snapshots, err := metadataPersister.GetSnapshots(context.Background())
		if err != nil {
			return err
		}

		if err := formatting.PrintCSV(snapshotCSV); err != nil {
			return err
		}

		for _, snapshot := range snapshots {
			if err := formatting.PrintCSV([]string{
				fmt.Sprintf("%v", snapshot.ID),
				snapshot.VolumeUUID,
				fmt.Sprintf("%v", snapshot.Generation),
				snapshot.UpdateTime,
				fmt.Sprintf("%v", snapshot.FileCount),
				snapshot.Path,
				snapshot.CreatedAt,
			}); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	viper.AutomaticEnv()

	recoveryCmd.AddCommand(recoverySnapshotsCmd)
}
