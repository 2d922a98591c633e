// Package mocktape simulates a two-partition tape drive behind the raw
// SCSI command contract, for tests that exercise positioning, transfer and
// index logic without hardware.
package mocktape

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/mattetti/filebuffer"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

// record is one logical object on a partition: either a filemark or a data
// block. Objects share one logical address space, so a record's slice
// index is its block address.
type record struct {
	filemark bool
	buf      *filebuffer.Buffer
}

type Tape struct {
	mu sync.Mutex

	partitions [2][]record

	partition uint8
	position  int

	// RemainingKiB and MaxKiB back the cartridge memory capacity
	// attributes.
	RemainingKiB uint64
	MaxKiB       uint64

	Ejected       bool
	VariableBlock bool
}

func New() *Tape {
	return &Tape{
		RemainingKiB: 1024 * 1024,
		MaxKiB:       1024 * 1024,
	}
}

// Command decodes and executes one CDB against the simulated media.
func (t *Tape) Command(cdb []byte, direction scsi.Direction, buf []byte, timeout time.Duration) (byte, []byte, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch cdb[0] {
	case 0x08:
		return t.read(cdb, buf)
	case 0x0A:
		return t.write(cdb, buf)
	case 0x10:
		return t.writeFilemarks(cdb)
	case 0x11:
		return t.space(cdb)
	case 0x2B:
		return t.locate10(cdb)
	case 0x92:
		return t.locate16(cdb)
	case 0x34:
		return t.readPosition(buf)
	case 0x15:
		t.VariableBlock = true

		return scsi.StatusGood, nil, 0, nil
	case 0x12:
		return t.inquiry(buf)
	case 0x8C:
		return t.readAttribute(cdb, buf)
	case 0x1B:
		if cdb[4]&0x02 != 0 {
			t.Ejected = true
		}

		return scsi.StatusGood, nil, 0, nil
	default:
		// Illegal request, invalid opcode
		return scsi.StatusCheckCondition, makeSense(0x05, 0x20, 0x00, 0, 0), 0, nil
	}
}

func (t *Tape) records() []record {
	return t.partitions[t.partition]
}

func (t *Tape) read(cdb []byte, buf []byte) (byte, []byte, int, error) {
	requested := int(uint32(cdb[2])<<16 | uint32(cdb[3])<<8 | uint32(cdb[4]))
	if len(buf) < requested {
		requested = len(buf)
	}

	records := t.records()

	if t.position >= len(records) {
		// Blank check at end of data
		return scsi.StatusCheckCondition, makeSense(0x08, 0x00, 0x05, 0, int32(requested)), 0, nil
	}

	rec := records[t.position]
	t.position++

	if rec.filemark {
		return scsi.StatusCheckCondition, makeSense(0x00, 0x00, 0x01, senseFilemark, int32(requested)), 0, nil
	}

	data := rec.buf.Buff.Bytes()

	if len(data) < requested {
		n := copy(buf, data)

		// Shorter block than requested, incorrect length with positive
		// residue
		return scsi.StatusCheckCondition, makeSense(0x00, 0x00, 0x00, senseILI, int32(requested-len(data))), n, nil
	}

	if len(data) > requested {
		n := copy(buf[:requested], data)

		return scsi.StatusCheckCondition, makeSense(0x00, 0x00, 0x00, senseILI, int32(requested-len(data))), n, nil
	}

	return scsi.StatusGood, nil, copy(buf, data), nil
}

func (t *Tape) write(cdb []byte, buf []byte) (byte, []byte, int, error) {
	length := int(uint32(cdb[2])<<16 | uint32(cdb[3])<<8 | uint32(cdb[4]))
	if length > len(buf) {
		length = len(buf)
	}

	data := make([]byte, length)
	copy(data, buf[:length])

	// Writing truncates everything after the head
	t.partitions[t.partition] = append(t.records()[:t.position], record{
		buf: filebuffer.New(data),
	})
	t.position = len(t.records())

	return scsi.StatusGood, nil, length, nil
}

func (t *Tape) writeFilemarks(cdb []byte) (byte, []byte, int, error) {
	count := int(uint32(cdb[2])<<16 | uint32(cdb[3])<<8 | uint32(cdb[4]))

	records := t.records()[:t.position]
	for i := 0; i < count; i++ {
		records = append(records, record{filemark: true})
	}

	t.partitions[t.partition] = records
	t.position = len(records)

	return scsi.StatusGood, nil, 0, nil
}

func (t *Tape) space(cdb []byte) (byte, []byte, int, error) {
	code := cdb[1] & 0x07

	count := int32(uint32(cdb[2])<<16 | uint32(cdb[3])<<8 | uint32(cdb[4]))
	if count&0x800000 != 0 {
		count |= ^int32(0xFFFFFF)
	}

	records := t.records()

	switch code {
	case 0x00:
		target := t.position + int(count)
		if target < 0 || target > len(records) {
			return scsi.StatusCheckCondition, makeSense(0x08, 0x00, 0x05, 0, 0), 0, nil
		}

		t.position = target
	case 0x01:
		if count >= 0 {
			crossed := int32(0)
			for t.position < len(records) && crossed < count {
				if records[t.position].filemark {
					crossed++
				}

				t.position++
			}

			if crossed < count {
				return scsi.StatusCheckCondition, makeSense(0x08, 0x00, 0x05, 0, count-crossed), 0, nil
			}
		} else {
			crossed := int32(0)
			for t.position > 0 && crossed > count {
				t.position--

				if records[t.position].filemark {
					crossed--
				}
			}
		}
	case 0x03:
		t.position = len(records)
	default:
		return scsi.StatusCheckCondition, makeSense(0x05, 0x24, 0x00, 0, 0), 0, nil
	}

	return scsi.StatusGood, nil, 0, nil
}

func (t *Tape) locate10(cdb []byte) (byte, []byte, int, error) {
	block := binary.BigEndian.Uint32(cdb[3:7])

	return t.seek(t.partition, uint64(block), 0)
}

func (t *Tape) locate16(cdb []byte) (byte, []byte, int, error) {
	dest := (cdb[1] >> 3) & 0x07
	changePartition := cdb[1]&0x02 != 0
	partition := cdb[3]
	block := binary.BigEndian.Uint64(cdb[4:12])

	target := t.partition
	if changePartition {
		target = partition
	}

	return t.seek(target, block, dest)
}

func (t *Tape) seek(partition uint8, block uint64, dest byte) (byte, []byte, int, error) {
	if int(partition) >= len(t.partitions) {
		return scsi.StatusCheckCondition, makeSense(0x05, 0x24, 0x00, 0, 0), 0, nil
	}

	t.partition = partition
	records := t.records()

	switch dest {
	case 0x00:
		if block > uint64(len(records)) {
			return scsi.StatusCheckCondition, makeSense(0x08, 0x00, 0x05, 0, 0), 0, nil
		}

		t.position = int(block)
	case 0x01:
		crossed := uint64(0)
		t.position = 0
		for t.position < len(records) && crossed < block {
			if records[t.position].filemark {
				crossed++
			}

			t.position++
		}

		if crossed < block {
			return scsi.StatusCheckCondition, makeSense(0x08, 0x00, 0x05, 0, 0), 0, nil
		}
	case 0x03:
		t.position = len(records)
	default:
		return scsi.StatusCheckCondition, makeSense(0x05, 0x24, 0x00, 0, 0), 0, nil
	}

	return scsi.StatusGood, nil, 0, nil
}

func (t *Tape) readPosition(buf []byte) (byte, []byte, int, error) {
	if len(buf) < 32 {
		return scsi.StatusCheckCondition, makeSense(0x05, 0x24, 0x00, 0, 0), 0, nil
	}

	for i := range buf {
		buf[i] = 0
	}

	if t.position == 0 {
		buf[0] |= 0x80
	}
	if t.position >= len(t.records()) && len(t.records()) > 0 {
		buf[0] |= 0x40
	}

	binary.BigEndian.PutUint32(buf[4:8], uint32(t.partition))
	binary.BigEndian.PutUint64(buf[8:16], uint64(t.position))

	filemarks := uint64(0)
	for _, rec := range t.records()[:t.position] {
		if rec.filemark {
			filemarks++
		}
	}
	binary.BigEndian.PutUint64(buf[16:24], filemarks)

	return scsi.StatusGood, nil, 32, nil
}

func (t *Tape) inquiry(buf []byte) (byte, []byte, int, error) {
	data := make([]byte, 36)
	data[0] = 0x01 // Sequential-access device
	copy(data[8:16], []byte("MOCK    "))
	copy(data[16:32], []byte("VTAPE           "))
	copy(data[32:36], []byte("0001"))

	n := copy(buf, data)

	return scsi.StatusGood, nil, n, nil
}

func (t *Tape) readAttribute(cdb []byte, buf []byte) (byte, []byte, int, error) {
	id := binary.BigEndian.Uint16(cdb[8:10])

	var value uint64
	switch id {
	case 0x0220:
		value = t.RemainingKiB
	case 0x0221:
		value = t.MaxKiB
	default:
		return scsi.StatusCheckCondition, makeSense(0x05, 0x24, 0x00, 0, 0), 0, nil
	}

	data := make([]byte, 9+8)
	binary.BigEndian.PutUint32(data[0:4], uint32(len(data)-4))
	binary.BigEndian.PutUint16(data[4:6], id)
	data[6] = 0x00 // Binary format
	binary.BigEndian.PutUint16(data[7:9], 8)
	binary.BigEndian.PutUint64(data[9:17], value)

	n := copy(buf, data)

	return scsi.StatusGood, nil, n, nil
}

const (
	senseFilemark = 0x80
	senseILI      = 0x20
)

// makeSense builds fixed-format sense data.
func makeSense(key byte, asc byte, ascq byte, flags byte, residue int32) []byte {
	sense := make([]byte, 18)
	sense[0] = 0x70
	sense[2] = key&0x0F | flags
	binary.BigEndian.PutUint32(sense[3:7], uint32(residue))
	sense[7] = 10
	sense[12] = asc
	sense[13] = ascq

	return sense
}

// Position reports the simulated head for test assertions.
func (t *Tape) Position() (uint8, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.partition, t.position
}

// RecordCount reports the number of logical objects on a partition.
func (t *Tape) RecordCount(partition uint8) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.partitions[partition])
}
