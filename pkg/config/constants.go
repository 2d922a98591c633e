package config

import "time"

const (
	NoneKey = ""

	// BlockSize is the fixed LTFS data block size written by LTO drives.
	BlockSize = 524288

	IndexPartition uint8 = 0
	DataPartition  uint8 = 1

	PartitionLabelIndex = "a"
	PartitionLabelData  = "b"

	// RootUID is the fixed identifier of the index root directory.
	RootUID uint64 = 1

	// PlaceholderUID marks an entry whose identity has not been allocated
	// yet. Valid identifiers start at RootUID, so it can never collide.
	PlaceholderUID uint64 = 0

	// IndexPartitionFilemark is the filemark on the index partition behind
	// which the current index copy always sits, independent of how many
	// filemarks follow it.
	IndexPartitionFilemark uint64 = 1

	// MaxIndexBlocks bounds a read-until-filemark scan. Reaching it means
	// the head is almost certainly mispositioned, not that the index is
	// this large.
	MaxIndexBlocks = 8192

	LTFSVersion = "2.4.0"

	PositioningTimeout = 10 * time.Minute
	TransferTimeout    = 5 * time.Minute
	ControlTimeout     = 30 * time.Second
)

var (
	// FallbackIndexBlocks are the well-known partition 0 offsets probed by
	// the final locator strategy. Block 0 holds the volume label, which may
	// embed index data. The list is empirical, not from the LTFS standard,
	// and callers may extend it.
	FallbackIndexBlocks = []uint64{0, 5, 6}
)
