// Package position navigates tape media in terms of blocks, filemarks and
// end-of-data, on top of the raw SCSI command layer.
package position

import (
	"context"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/logging"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

// Commander is the slice of the SCSI layer the navigator drives.
type Commander interface {
	Locate(block uint64, partition uint8, dest scsi.DestType) error
	LocateFull(block uint64, partition uint8) error
	Space(unit scsi.SpaceType, count int) error
	ReadPosition() (scsi.TapePosition, error)
	ReadBlock(buf []byte) (int, error)
	WriteBlock(data []byte) error
	WriteFilemarks(count int) error
}

type Navigator struct {
	dev Commander
	log logging.StructuredLogger
}

func NewNavigator(
	dev Commander,

	log logging.StructuredLogger,
) *Navigator {
	return &Navigator{
		dev: dev,
		log: log,
	}
}

func (n *Navigator) ReadPosition() (scsi.TapePosition, error) {
	return n.dev.ReadPosition()
}

// LocateToBlock positions the head and verifies the landing spot with a
// fresh position read. A mismatch gets one bounded retry with the
// full-addressing locate before escalating.
func (n *Navigator) LocateToBlock(partition uint8, block uint64) error {
	if err := n.dev.Locate(block, partition, scsi.DestBlock); err != nil {
		return err
	}

	pos, err := n.dev.ReadPosition()
	if err != nil {
		return err
	}
	if pos.Partition == partition && pos.Block == block {
		return nil
	}

	n.log.Warn(
		"Locate landed off target, retrying with full addressing",
		"wantPartition", partition,
		"wantBlock", block,
		"gotPartition", pos.Partition,
		"gotBlock", pos.Block,
	)

	if err := n.dev.LocateFull(block, partition); err != nil {
		return err
	}

	pos, err = n.dev.ReadPosition()
	if err != nil {
		return err
	}
	if pos.Partition != partition || pos.Block != block {
		return errors.Wrapf(
			config.ErrPositioning,
			"wanted partition %v block %v, landed at partition %v block %v after retry",
			partition,
			block,
			pos.Partition,
			pos.Block,
		)
	}

	return nil
}

func (n *Navigator) LocateToEOD(partition uint8) error {
	return n.dev.Locate(0, partition, scsi.DestEOD)
}

func (n *Navigator) LocateToFilemark(filemark uint64, partition uint8) error {
	return n.dev.Locate(filemark, partition, scsi.DestFilemark)
}

// ReadFilemarkAndBacktrack tests whether the head sits exactly on a
// filemark. A zero-byte read means it does; the filemark has then been
// consumed and no locate is issued. Otherwise a data block was consumed, so
// the head is moved back to the block before the one just read, using the
// full-addressing locate with a freshly computed change-partition flag.
func (n *Navigator) ReadFilemarkAndBacktrack(blockSize int) (bool, error) {
	buf := make([]byte, blockSize)

	read, err := n.dev.ReadBlock(buf)
	if err != nil {
		return false, err
	}

	if read == 0 {
		return true, nil
	}

	pos, err := n.dev.ReadPosition()
	if err != nil {
		return false, err
	}

	if pos.Block == 0 {
		return false, nil
	}

	if err := n.dev.LocateFull(pos.Block-1, pos.Partition); err != nil {
		return false, err
	}

	return false, nil
}

// ReadUntilFilemark reads fixed-size blocks into a growing buffer until a
// zero-length read signals a filemark. maxBlocks is a last-resort guard
// against pathological reads, not a correctness mechanism; reaching it
// returns ErrFilemarkLimitReached along with whatever was read, because the
// head was most likely mispositioned.
func (n *Navigator) ReadUntilFilemark(ctx context.Context, blockSize int, maxBlocks int) ([]byte, error) {
	out := []byte{}
	buf := make([]byte, blockSize)

	for blocks := 0; ; blocks++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if blocks >= maxBlocks {
			pos, err := n.dev.ReadPosition()
			if err == nil {
				n.log.Warn(
					"Filemark not found within the block limit, head is likely mispositioned",
					"maxBlocks", maxBlocks,
					"partition", pos.Partition,
					"block", pos.Block,
					"filemarks", pos.File,
				)
			}

			return out, config.ErrFilemarkLimitReached
		}

		read, err := n.dev.ReadBlock(buf)
		if err != nil {
			return out, err
		}

		if read == 0 {
			return out, nil
		}

		out = append(out, buf[:read]...)
	}
}

func (n *Navigator) ReadBlock(buf []byte) (int, error) {
	return n.dev.ReadBlock(buf)
}

func (n *Navigator) WriteBlock(data []byte) error {
	return n.dev.WriteBlock(data)
}

func (n *Navigator) WriteFilemarks(count int) error {
	return n.dev.WriteFilemarks(count)
}

func (n *Navigator) Space(unit scsi.SpaceType, count int) error {
	return n.dev.Space(unit, count)
}
