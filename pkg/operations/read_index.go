package operations

import (
	"context"

	"github.com/pojntfx/dltfs/pkg/index"
)

// ReadIndex locates, reads and parses the current index from the tape. The
// parsed index becomes the session's working copy and a snapshot of the raw
// XML is persisted for offline recovery.
func (o *Operations) ReadIndex(ctx context.Context) (*index.Index, error) {
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

	return o.readIndex(ctx)
}

// readIndex is the unlocked body, shared with verbs that already hold the
// drive.
func (o *Operations) readIndex(ctx context.Context) (*index.Index, error) {
	if err := o.dev.SetVariableBlockMode(); err != nil {
		return nil, err
	}

	raw, err := o.loc.FindAndReadIndex(ctx)
	if err != nil {
		return nil, err
	}

	idx, err := index.Parse(raw)
	if err != nil {
		return nil, err
	}

	o.index = idx

	o.log.Info(
		"Index read",
		"volumeUUID", idx.VolumeUUID,
		"generation", idx.GenerationNumber,
		"files", idx.CountFiles(),
	)

	if err := o.persistSnapshot(ctx, idx, raw); err != nil {
		return nil, err
	}

	return idx, nil
}

func (o *Operations) persistSnapshot(ctx context.Context, idx *index.Index, raw []byte) error {
	if o.metadata.Metadata == nil {
		return nil
	}

	path, err := o.metadata.Metadata.PersistSnapshot(
		ctx,

		idx.VolumeUUID,
		idx.GenerationNumber,
		idx.UpdateTime,
		idx.CountFiles(),

		raw,
	)
	if err != nil {
		return err
	}

	o.log.Debug("Index snapshot persisted", "path", path)

	return nil
}
