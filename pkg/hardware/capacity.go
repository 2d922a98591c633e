// Package hardware exposes drive-level utilities: position readout,
// capacity from the cartridge's auxiliary memory, and eject.
package hardware

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

// Medium auxiliary memory attribute identifiers
const (
	attrRemainingCapacity = 0x0220
	attrMaximumCapacity   = 0x0221
)

type AttributeReader interface {
	ReadAttribute(id uint16) (scsi.Attribute, error)
}

type TapeCapacity struct {
	Total     uint64
	Remaining uint64
}

func (c TapeCapacity) Used() uint64 {
	if c.Remaining > c.Total {
		return 0
	}

	return c.Total - c.Remaining
}

func (c TapeCapacity) String() string {
	return fmt.Sprintf(
		"total=%v used=%v remaining=%v",
		formatBytes(c.Total),
		formatBytes(c.Used()),
		formatBytes(c.Remaining),
	)
}

// GetCapacity reads the remaining and maximum partition capacity from the
// cartridge memory. The attributes report kibibytes.
func GetCapacity(dev AttributeReader) (TapeCapacity, error) {
	remaining, err := readCapacityAttribute(dev, attrRemainingCapacity)
	if err != nil {
		return TapeCapacity{}, err
	}

	total, err := readCapacityAttribute(dev, attrMaximumCapacity)
	if err != nil {
		return TapeCapacity{}, err
	}

	return TapeCapacity{
		Total:     total,
		Remaining: remaining,
	}, nil
}

// CheckAvailableSpace is the pre-flight guard run before any data block is
// written.
func CheckAvailableSpace(dev AttributeReader, required uint64) error {
	capacity, err := GetCapacity(dev)
	if err != nil {
		return err
	}

	if capacity.Remaining < required {
		return errors.Wrapf(
			config.ErrInsufficientCapacity,
			"%v bytes required, %v bytes remaining",
			required,
			capacity.Remaining,
		)
	}

	return nil
}

func readCapacityAttribute(dev AttributeReader, id uint16) (uint64, error) {
	attribute, err := dev.ReadAttribute(id)
	if err != nil {
		return 0, err
	}

	switch attribute.Format {
	case scsi.AttributeFormatBinary:
		switch {
		case len(attribute.Data) >= 8:
			return binary.BigEndian.Uint64(attribute.Data[:8]) * 1024, nil
		case len(attribute.Data) >= 4:
			return uint64(binary.BigEndian.Uint32(attribute.Data[:4])) * 1024, nil
		default:
			return 0, errors.Wrapf(config.ErrDeviceIO, "capacity attribute 0x%04x too short", id)
		}
	case scsi.AttributeFormatASCII:
		value, err := strconv.ParseUint(strings.TrimSpace(string(attribute.Data)), 10, 64)
		if err != nil {
			return 0, errors.Wrapf(config.ErrDeviceIO, "capacity attribute 0x%04x unparsable: %v", id, err)
		}

		return value * 1024, nil
	default:
		return 0, errors.Wrapf(config.ErrDeviceIO, "capacity attribute 0x%04x has unsupported format 0x%02x", id, attribute.Format)
	}
}

func formatBytes(v uint64) string {
	const unit = 1024

	if v < unit {
		return fmt.Sprintf("%d B", v)
	}

	div, exp := uint64(unit), 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(v)/float64(div), "KMGTPE"[exp])
}
