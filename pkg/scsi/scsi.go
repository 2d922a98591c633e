// Package scsi constructs raw command descriptor blocks for tape drives and
// decodes their sense data. It has no knowledge of LTFS semantics.
package scsi

import (
	"time"

	"github.com/pojntfx/dltfs/pkg/logging"
)

type Direction int

const (
	DirectionNone Direction = iota
	DirectionIn
	DirectionOut
)

// CommandRunner executes one raw SCSI command against an open device handle.
// It returns the SCSI status byte, the raw sense data (empty unless the
// device reported a check condition) and the number of bytes actually
// transferred to or from buf.
type CommandRunner interface {
	Command(cdb []byte, direction Direction, buf []byte, timeout time.Duration) (status byte, sense []byte, transferred int, err error)
}

const (
	StatusGood           = 0x00
	StatusCheckCondition = 0x02
)

// TapePosition is read fresh from the device on demand and is never cached
// across operations that might move the head.
type TapePosition struct {
	Partition uint8
	Block     uint64
	// File counts the filemarks between the beginning of the partition and
	// the current position.
	File uint64

	BeginningOfPartition bool
	EndOfPartition       bool
}

type Device struct {
	runner CommandRunner
	log    logging.StructuredLogger

	// allowPartition selects between the partition-aware LOCATE(16) and the
	// legacy 32-bit LOCATE(10). It is resolved once per session, not probed
	// at each call site.
	allowPartition bool
}

func NewDevice(
	runner CommandRunner,
	allowPartition bool,

	log logging.StructuredLogger,
) *Device {
	return &Device{
		runner: runner,
		log:    log,

		allowPartition: allowPartition,
	}
}

func (d *Device) AllowPartition() bool {
	return d.allowPartition
}
