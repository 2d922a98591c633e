// Package transfer moves file content between local byte streams and
// partition-aware tape blocks, tracking extents.
package transfer

import (
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/logging"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

// Tape is the slice of the navigator the engine drives.
type Tape interface {
	LocateToBlock(partition uint8, block uint64) error
	ReadPosition() (scsi.TapePosition, error)
	ReadBlock(buf []byte) (int, error)
	WriteBlock(data []byte) error
}

type Engine struct {
	nav       Tape
	blockSize int
	log       logging.StructuredLogger
}

func NewEngine(
	nav Tape,
	blockSize int,

	log logging.StructuredLogger,
) *Engine {
	if blockSize <= 0 {
		blockSize = config.BlockSize
	}

	return &Engine{
		nav:       nav,
		blockSize: blockSize,
		log:       log,
	}
}
