package operations

import (
	"bytes"
	"context"

	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
)

// commitIndex closes the data area with a filemark, then writes the next
// index generation behind it and refreshes the index-partition copy.
//
// The data-partition copy is written first so that a crash mid-commit
// leaves the data and its describing index consistent on partition 1; the
// partition 0 copy is a redundant convenience for fast location.
//
// The head must be on the data partition, right after the last data block.
func (o *Operations) commitIndex(ctx context.Context) error {
	idx := o.index

	if err := o.nav.WriteFilemarks(1); err != nil {
		return err
	}

	pos, err := o.nav.ReadPosition()
	if err != nil {
		return err
	}

	previous := idx.Location
	idx.PreviousGenerationLocation = &previous
	idx.GenerationNumber++
	idx.Location = index.Location{
		Partition:  config.PartitionLabelData,
		StartBlock: pos.Block,
	}

	raw, err := index.Serialize(idx)
	if err != nil {
		return err
	}

	if _, _, err := o.engine.WriteFile(ctx, bytes.NewReader(raw)); err != nil {
		return err
	}

	if err := o.nav.WriteFilemarks(1); err != nil {
		return err
	}

	// Identical bytes go behind the fixed filemark on the index partition;
	// writing there truncates the stale copy and everything after it.
	if err := o.nav.LocateToFilemark(config.IndexPartitionFilemark, config.IndexPartition); err != nil {
		return err
	}

	if _, _, err := o.engine.WriteFile(ctx, bytes.NewReader(raw)); err != nil {
		return err
	}

	if err := o.nav.WriteFilemarks(1); err != nil {
		return err
	}

	o.log.Info(
		"Index committed",
		"volumeUUID", idx.VolumeUUID,
		"generation", idx.GenerationNumber,
		"dataPartitionBlock", idx.Location.StartBlock,
	)

	return o.persistSnapshot(ctx, idx, raw)
}
