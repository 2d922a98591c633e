package operations

import (
	"bytes"
	"context"
	"time"

	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
)

// Initialize formats blank media: a volume label at the start of each
// partition, a filemark, and an empty generation 1 index behind the
// filemark on the index partition. The data partition stays empty until
// the first archive appends to it.
func (o *Operations) Initialize(ctx context.Context) (*index.Index, error) {
	o.diskOperationLock.Lock()
	defer o.diskOperationLock.Unlock()

	if err := o.acquire(); err != nil {
		return nil, err
	}
	defer func() {
		if err := o.release(); err != nil {
			o.log.Debug("Could not release drive", "error", err.Error())
		}
	}()

	if err := o.dev.SetVariableBlockMode(); err != nil {
		return nil, err
	}

	now := time.Now()
	idx := index.NewIndex(IndexCreator, now)

	for _, partition := range []uint8{config.DataPartition, config.IndexPartition} {
		label, err := index.SerializeLabel(index.NewLabel(IndexCreator, idx.VolumeUUID, partition, now))
		if err != nil {
			return nil, err
		}

		if err := o.nav.LocateToBlock(partition, 0); err != nil {
			return nil, err
		}

		if _, _, err := o.engine.WriteFile(ctx, bytes.NewReader(label)); err != nil {
			return nil, err
		}

		if err := o.nav.WriteFilemarks(1); err != nil {
			return nil, err
		}
	}

	// The loop leaves the head on the index partition, right after the
	// first filemark, which is exactly where the index body belongs.
	pos, err := o.nav.ReadPosition()
	if err != nil {
		return nil, err
	}

	idx.Location = index.Location{
		Partition:  config.PartitionLabelIndex,
		StartBlock: pos.Block,
	}

	raw, err := index.Serialize(idx)
	if err != nil {
		return nil, err
	}

	if _, _, err := o.engine.WriteFile(ctx, bytes.NewReader(raw)); err != nil {
		return nil, err
	}

	if err := o.nav.WriteFilemarks(1); err != nil {
		return nil, err
	}

	o.index = idx

	o.log.Info("Media initialized", "volumeUUID", idx.VolumeUUID)

	if err := o.persistSnapshot(ctx, idx, raw); err != nil {
		return nil, err
	}

	return idx, nil
}
