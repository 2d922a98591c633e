package cmd

import (
	"os"
	"strings"

	"github.com/pojntfx/dltfs/internal/formatting"
	"github.com/pojntfx/dltfs/internal/logging"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/operations"
	"github.com/pojntfx/dltfs/pkg/persisters"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	driveFlag       = "drive"
	metadataFlag    = "metadata"
	snapshotDirFlag = "snapshot-dir"
	verboseFlag     = "verbose"
)

var rootCmd = &cobra.Command{
	Use:   "dltfs",
	Short: "Direct LTFS tape access",
	Long: `Direct LTFS (dltfs) is a CLI to read and write LTFS-formatted tapes
through raw SCSI pass-through, without mounting the tape as a filesystem.

Find more information at:
https://github.com/pojntfx/dltfs`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		viper.SetEnvPrefix("dltfs")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *logging.JSONLogger {
	return logging.NewJSONLogger(viper.GetInt(verboseFlag))
}

var printedHeaderEventCSVHeader = false

func printHeaderEvent(event *operations.HeaderEvent) {
	if !printedHeaderEventCSVHeader {
		if err := formatting.PrintCSV(formatting.HeaderEventCSV); err != nil {
			return
		}

		printedHeaderEventCSVHeader = true
	}

	_ = formatting.PrintCSV(formatting.GetHeaderEventAsCSV(event.Type, event.Path, event.Length, event.Extents))
}

func newOperations() (*operations.Operations, error) {
	metadataPersister := persisters.NewMetadataPersister(
		viper.GetString(metadataFlag),
		viper.GetString(snapshotDirFlag),
	)
	if err := metadataPersister.Open(); err != nil {
		return nil, err
	}

	return operations.NewOperations(
		config.DriveConfig{
			Drive: viper.GetString(driveFlag),
		},
		config.MetadataConfig{
			Metadata: metadataPersister,
		},
		config.FileSystemConfig{
			FileSystem: afero.NewOsFs(),
		},

		printHeaderEvent,

		newLogger(),
	), nil
}

func init() {
	rootCmd.PersistentFlags().StringP(driveFlag, "d", "/dev/sg0", "SCSI generic device node of the tape drive")
	rootCmd.PersistentFlags().StringP(metadataFlag, "m", "dltfs-metadata.sqlite", "Metadata database to use")
	rootCmd.PersistentFlags().StringP(snapshotDirFlag, "s", "dltfs-snapshots", "Directory to persist index snapshots in")
	rootCmd.PersistentFlags().IntP(verboseFlag, "v", 2, "Verbosity level (0 is disabled, default is info, 4 is trace)")

	viper.AutomaticEnv()
}
