package scsi

import (
	"encoding/binary"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
)

const (
	opRead6          = 0x08
	opWrite6         = 0x0a
	opWriteFilemarks = 0x10
	opSpace          = 0x11
	opInquiry        = 0x12
	opModeSelect6    = 0x15
	opStartStopUnit  = 0x1b
	opLocate10       = 0x2b
	opReadPosition   = 0x34
	opReadAttribute  = 0x8c
	opLocate16       = 0x92
)

type DestType byte

const (
	DestBlock    DestType = 0
	DestFilemark DestType = 1
	DestEOD      DestType = 3
)

type SpaceType byte

const (
	SpaceBlocks              SpaceType = 0
	SpaceFilemarks           SpaceType = 1
	SpaceSequentialFilemarks SpaceType = 2
	SpaceEOD                 SpaceType = 3
)

// ReadPosition issues READ POSITION with service action 6 (long form) and
// decodes the 32-byte descriptor.
func (d *Device) ReadPosition() (TapePosition, error) {
	cdb := make([]byte, 10)
	cdb[0] = opReadPosition
	cdb[1] = 0x06

	buf := make([]byte, 32)
	status, sense, _, err := d.runner.Command(cdb, DirectionIn, buf, config.ControlTimeout)
	if err != nil {
		return TapePosition{}, errors.Wrap(config.ErrDeviceIO, err.Error())
	}
	if status != StatusGood {
		return TapePosition{}, errors.Wrapf(config.ErrDeviceIO, "read position failed: %v", ParseSense(sense))
	}

	return TapePosition{
		Partition: uint8(binary.BigEndian.Uint32(buf[4:8])),
		Block:     binary.BigEndian.Uint64(buf[8:16]),
		File:      binary.BigEndian.Uint64(buf[16:24]),

		BeginningOfPartition: buf[0]&0x80 != 0,
		EndOfPartition:       buf[0]&0x40 != 0,
	}, nil
}

// Locate positions the head at a block, filemark or EOD of a partition.
//
// Filemark destinations are reached by locating to the start of the
// partition and spacing forward, which is what tape drives across vendors
// reliably support. Block and EOD destinations use LOCATE(16) whenever the
// device operates in partition-aware mode or must change partitions; the
// legacy LOCATE(10) is used only for same-partition block moves on devices
// without partition addressing.
func (d *Device) Locate(block uint64, partition uint8, dest DestType) error {
	if dest == DestFilemark {
		if err := d.Locate(0, partition, DestBlock); err != nil {
			return err
		}

		return d.Space(SpaceFilemarks, int(block))
	}

	if d.allowPartition || dest != DestBlock {
		// The change-partition flag is set if and only if a fresh position
		// read shows the head on a different partition. Setting it
		// unconditionally makes some drives land one block off.
		cp := byte(0)
		if pos, err := d.ReadPosition(); err == nil && pos.Partition != partition {
			cp = 1
		}

		cdb := make([]byte, 16)
		cdb[0] = opLocate16
		cdb[1] = byte(dest)<<3 | cp<<1
		cdb[3] = partition
		binary.BigEndian.PutUint64(cdb[4:12], block)

		return d.execute("locate(16)", cdb, DirectionNone, nil, config.PositioningTimeout)
	}

	cdb := make([]byte, 10)
	cdb[0] = opLocate10
	binary.BigEndian.PutUint32(cdb[3:7], uint32(block))

	return d.execute("locate(10)", cdb, DirectionNone, nil, config.PositioningTimeout)
}

// LocateFull always issues the 16-byte, partition-aware variant with a
// freshly computed change-partition flag, regardless of the device's
// addressing mode. Backtracks and positioning retries must use it; the
// legacy variant lands one block short or long when a partition change is
// involved.
func (d *Device) LocateFull(block uint64, partition uint8) error {
	cp := byte(0)
	if pos, err := d.ReadPosition(); err == nil && pos.Partition != partition {
		cp = 1
	}

	cdb := make([]byte, 16)
	cdb[0] = opLocate16
	cdb[1] = byte(DestBlock)<<3 | cp<<1
	cdb[3] = partition
	binary.BigEndian.PutUint64(cdb[4:12], block)

	return d.execute("locate(16)", cdb, DirectionNone, nil, config.PositioningTimeout)
}

// Space moves the head by count objects. EOD destinations always use a
// count of one per the SSC standard.
func (d *Device) Space(unit SpaceType, count int) error {
	if unit == SpaceEOD {
		count = 1
	}

	// 24-bit two's complement count
	c := uint32(int32(count)) & 0xffffff

	cdb := []byte{
		opSpace,
		byte(unit),
		byte(c >> 16),
		byte(c >> 8),
		byte(c),
		0x00,
	}

	return d.execute("space(6)", cdb, DirectionNone, nil, config.PositioningTimeout)
}

// ReadBlock reads one block in variable block mode. A return of 0 bytes
// signals a filemark or end-of-data. A short final block reported through
// the incorrect-length indicator with an empty sense key is returned as a
// normal short read.
func (d *Device) ReadBlock(buf []byte) (int, error) {
	cdb := []byte{
		opRead6,
		0x00, // variable block mode
		byte(len(buf) >> 16),
		byte(len(buf) >> 8),
		byte(len(buf)),
		0x00,
	}

	status, rawSense, transferred, err := d.runner.Command(cdb, DirectionIn, buf, config.TransferTimeout)
	if err != nil {
		return 0, errors.Wrap(config.ErrDeviceIO, err.Error())
	}

	if status == StatusGood {
		return transferred, nil
	}

	sense := ParseSense(rawSense)
	switch {
	case sense.Filemark && sense.Informational():
		return 0, nil
	case sense.Key == SenseKeyBlankCheck:
		// end-of-data
		return 0, nil
	case sense.ILI && sense.Informational():
		if sense.Residue < 0 {
			return 0, errors.Wrapf(config.ErrBlockTooLarge, "buffer %v bytes, block %v bytes", len(buf), int64(len(buf))-int64(sense.Residue))
		}

		return len(buf) - int(sense.Residue), nil
	default:
		return 0, errors.Wrapf(config.ErrDeviceIO, "read failed: %v", sense)
	}
}

// WriteBlock writes one block in variable block mode.
func (d *Device) WriteBlock(data []byte) error {
	cdb := []byte{
		opWrite6,
		0x00, // variable block mode
		byte(len(data) >> 16),
		byte(len(data) >> 8),
		byte(len(data)),
		0x00,
	}

	status, rawSense, _, err := d.runner.Command(cdb, DirectionOut, data, config.TransferTimeout)
	if err != nil {
		return errors.Wrap(config.ErrDeviceIO, err.Error())
	}
	if status != StatusGood {
		sense := ParseSense(rawSense)
		if sense.Informational() {
			// early-warning EOM is advisory on write
			return nil
		}

		if sense.Key == SenseKeyVolumeOverflow {
			return errors.Wrapf(config.ErrInsufficientCapacity, "write failed: %v", sense)
		}

		return errors.Wrapf(config.ErrDeviceIO, "write failed: %v", sense)
	}

	return nil
}

func (d *Device) WriteFilemarks(count int) error {
	cdb := []byte{
		opWriteFilemarks,
		0x00,
		byte(count >> 16),
		byte(count >> 8),
		byte(count),
		0x00,
	}

	return d.execute("write filemarks", cdb, DirectionNone, nil, config.TransferTimeout)
}

// SetVariableBlockMode puts the drive into variable block mode (block
// length 0) via MODE SELECT(6). Drives left in fixed mode by other tooling
// would otherwise fail or truncate variable-mode reads.
func (d *Device) SetVariableBlockMode() error {
	parameters := make([]byte, 12)
	// 4-byte mode parameter header, then an 8-byte block descriptor with a
	// zero block length
	parameters[3] = 0x08

	cdb := []byte{
		opModeSelect6,
		0x10, // PF
		0x00,
		0x00,
		byte(len(parameters)),
		0x00,
	}

	return d.execute("mode select(6)", cdb, DirectionOut, parameters, config.ControlTimeout)
}

type InquiryResponse struct {
	PeripheralType byte
	Vendor         string
	Product        string
	Revision       string
}

func (d *Device) Inquiry() (InquiryResponse, error) {
	buf := make([]byte, 36)

	cdb := []byte{
		opInquiry,
		0x00,
		0x00,
		0x00,
		byte(len(buf)),
		0x00,
	}

	if err := d.execute("inquiry", cdb, DirectionIn, buf, config.ControlTimeout); err != nil {
		return InquiryResponse{}, err
	}

	return InquiryResponse{
		PeripheralType: buf[0] & 0x1f,
		Vendor:         trimASCII(buf[8:16]),
		Product:        trimASCII(buf[16:32]),
		Revision:       trimASCII(buf[32:36]),
	}, nil
}

// Attribute is one medium auxiliary memory (MAM) attribute.
type Attribute struct {
	ID     uint16
	Format byte
	Data   []byte
}

const (
	AttributeFormatBinary = 0x00
	AttributeFormatASCII  = 0x01
)

// ReadAttribute fetches a single MAM attribute via READ ATTRIBUTE.
func (d *Device) ReadAttribute(id uint16) (Attribute, error) {
	buf := make([]byte, 512)

	cdb := make([]byte, 16)
	cdb[0] = opReadAttribute
	cdb[1] = 0x00 // service action: VALUES
	cdb[7] = 0x01 // restrict to a single attribute
	binary.BigEndian.PutUint16(cdb[8:10], id)
	binary.BigEndian.PutUint32(cdb[10:14], uint32(len(buf)))

	if err := d.execute("read attribute", cdb, DirectionIn, buf, config.ControlTimeout); err != nil {
		return Attribute{}, err
	}

	available := binary.BigEndian.Uint32(buf[0:4])
	if available < 5 {
		return Attribute{}, errors.Wrapf(config.ErrDeviceIO, "attribute 0x%04x not present", id)
	}

	length := binary.BigEndian.Uint16(buf[7:9])
	if int(9+length) > len(buf) {
		return Attribute{}, errors.Wrapf(config.ErrDeviceIO, "attribute 0x%04x truncated", id)
	}

	return Attribute{
		ID:     binary.BigEndian.Uint16(buf[4:6]),
		Format: buf[6] & 0x03,
		Data:   buf[9 : 9+length],
	}, nil
}

// Eject unloads the medium via START STOP UNIT.
func (d *Device) Eject() error {
	cdb := []byte{
		opStartStopUnit,
		0x00,
		0x00,
		0x00,
		0x02, // LoEj, Start=0
		0x00,
	}

	return d.execute("start stop unit", cdb, DirectionNone, nil, config.PositioningTimeout)
}

func (d *Device) execute(name string, cdb []byte, direction Direction, buf []byte, timeout time.Duration) error {
	status, rawSense, _, err := d.runner.Command(cdb, direction, buf, timeout)
	if err != nil {
		return errors.Wrapf(config.ErrDeviceIO, "%v: %v", name, err)
	}
	if status != StatusGood {
		sense := ParseSense(rawSense)
		if sense.Informational() {
			d.log.Debug("Informational sense", "command", name, "sense", sense.String())

			return nil
		}

		return errors.Wrapf(config.ErrDeviceIO, "%v failed: %v", name, sense)
	}

	return nil
}

func trimASCII(b []byte) string {
	start, end := 0, len(b)
	for start < end && (b[start] == ' ' || b[start] == 0) {
		start++
	}
	for end > start && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}

	return string(b[start:end])
}
