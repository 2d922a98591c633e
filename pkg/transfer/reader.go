package transfer

import (
	"context"
	"io"
	"sort"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
)

// ReadFile replays a file's extents in ascending file-offset order and
// writes exactly the file's logical length to dst. Trailing zero padding
// in the final block is trimmed against the extent's byte count rather
// than trusting the device-reported transfer length; drives that flag a
// short final block through the incorrect-length indicator are handled by
// the command layer.
func (e *Engine) ReadFile(ctx context.Context, file *index.File, dst io.Writer) error {
	extents := make([]index.Extent, len(file.Extents))
	copy(extents, file.Extents)
	sort.SliceStable(extents, func(a, b int) bool {
		return extents[a].FileOffset < extents[b].FileOffset
	})

	buf := make([]byte, e.blockSize)

	for _, extent := range extents {
		if err := e.nav.LocateToBlock(index.PartitionIndex(extent.Partition), extent.StartBlock); err != nil {
			return err
		}

		skip := extent.ByteOffset
		remaining := extent.ByteCount

		for remaining > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}

			read, err := e.nav.ReadBlock(buf)
			if err != nil {
				return err
			}
			if read == 0 {
				return errors.Wrapf(
					config.ErrDeviceIO,
					"unexpected filemark or end-of-data with %v bytes remaining in extent at partition %v block %v of %q",
					remaining,
					extent.Partition,
					extent.StartBlock,
					file.Name,
				)
			}

			payload := buf[:read]

			if skip > 0 {
				if uint64(len(payload)) <= skip {
					skip -= uint64(len(payload))

					continue
				}

				payload = payload[skip:]
				skip = 0
			}

			if uint64(len(payload)) > remaining {
				payload = payload[:remaining]
			}

			if _, err := dst.Write(payload); err != nil {
				return errors.Wrapf(config.ErrDeviceIO, "writing destination: %v", err)
			}

			remaining -= uint64(len(payload))
		}
	}

	return nil
}
