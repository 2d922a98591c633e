package config

import (
	"github.com/pojntfx/dltfs/pkg/persisters"
	"github.com/spf13/afero"
)

type DriveConfig struct {
	// Drive is the SCSI generic device node, e.g. /dev/sg3.
	Drive string
}

type MetadataConfig struct {
	Metadata *persisters.MetadataPersister
}

type FileSystemConfig struct {
	FileSystem afero.Fs
}

type LocatorConfig struct {
	// BlockSize used when reading index blocks.
	BlockSize int
	// MaxBlocks caps a single read-until-filemark scan.
	MaxBlocks int
	// FallbackBlocks overrides FallbackIndexBlocks for the final strategy.
	FallbackBlocks []uint64
}
