package hardware

import (
	"github.com/pojntfx/dltfs/pkg/scsi"
)

type PositionReader interface {
	ReadPosition() (scsi.TapePosition, error)
}

// Tell reports the drive's current partition, block and filemark count.
func Tell(dev PositionReader) (scsi.TapePosition, error) {
	return dev.ReadPosition()
}
