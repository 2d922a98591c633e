package transfer

import (
	"context"
	"io"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
)

// WriteFile streams src into fixed-size blocks at the current tape
// position and returns the extents covering the written bytes. The final
// partial block is zero-padded to the full block size on tape; the
// recorded byte count is the true data length, the padding is a
// storage-layout artifact only.
//
// Cancellation is checked between blocks, never mid-block, so the head is
// always left at a block boundary.
func (e *Engine) WriteFile(ctx context.Context, src io.Reader) ([]index.Extent, uint64, error) {
	start, err := e.nav.ReadPosition()
	if err != nil {
		return nil, 0, err
	}

	buf := make([]byte, e.blockSize)
	written := uint64(0)

	for {
		if err := ctx.Err(); err != nil {
			return nil, written, err
		}

		read, err := io.ReadFull(src, buf)
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return nil, written, errors.Wrapf(config.ErrDeviceIO, "reading source: %v", err)
		}

		if read < len(buf) {
			for i := read; i < len(buf); i++ {
				buf[i] = 0
			}
		}

		if writeErr := e.nav.WriteBlock(buf); writeErr != nil {
			return nil, written, writeErr
		}

		written += uint64(read)

		if err == io.ErrUnexpectedEOF {
			break
		}
	}

	if written == 0 {
		return []index.Extent{}, 0, nil
	}

	return []index.Extent{
		{
			Partition:  index.PartitionLabel(start.Partition),
			StartBlock: start.Block,
			ByteCount:  written,
			FileOffset: 0,
			ByteOffset: 0,
		},
	}, written, nil
}
