//go:build linux

// Package sg implements the SCSI command collaborator on top of the Linux
// SCSI generic (sg) driver.
package sg

import (
	"os"
	"time"
	"unsafe"

	"github.com/pojntfx/dltfs/pkg/scsi"
	"golang.org/x/sys/unix"
)

const (
	sgIO = 0x2285

	sgDxferNone    = -1
	sgDxferToDev   = -2
	sgDxferFromDev = -3

	senseLength = 32
)

// sgIOHdr mirrors struct sg_io_hdr from <scsi/sg.h>.
type sgIOHdr struct {
	interfaceID    int32
	dxferDirection int32
	cmdLen         uint8
	mxSBLen        uint8
	iovecCount     uint16
	dxferLen       uint32
	dxferp         uintptr
	cmdp           uintptr
	sbp            uintptr
	timeout        uint32
	flags          uint32
	packID         int32
	usrPtr         uintptr
	status         uint8
	maskedStatus   uint8
	msgStatus      uint8
	sbLenWr        uint8
	hostStatus     uint16
	driverStatus   uint16
	resid          int32
	duration       uint32
	info           uint32
}

type Handle struct {
	f *os.File
}

func Open(path string) (*Handle, error) {
	f, err := os.OpenFile(path, os.O_RDWR, os.ModeCharDevice)
	if err != nil {
		return nil, err
	}

	return &Handle{f}, nil
}

func (h *Handle) Close() error {
	return h.f.Close()
}

func (h *Handle) Command(cdb []byte, direction scsi.Direction, buf []byte, timeout time.Duration) (byte, []byte, int, error) {
	sense := make([]byte, senseLength)

	hdr := sgIOHdr{
		interfaceID: 'S',
		cmdLen:      uint8(len(cdb)),
		mxSBLen:     senseLength,
		cmdp:        uintptr(unsafe.Pointer(&cdb[0])),
		sbp:         uintptr(unsafe.Pointer(&sense[0])),
		timeout:     uint32(timeout / time.Millisecond),
	}

	switch direction {
	case scsi.DirectionIn:
		hdr.dxferDirection = sgDxferFromDev
	case scsi.DirectionOut:
		hdr.dxferDirection = sgDxferToDev
	default:
		hdr.dxferDirection = sgDxferNone
	}

	if len(buf) > 0 && direction != scsi.DirectionNone {
		hdr.dxferLen = uint32(len(buf))
		hdr.dxferp = uintptr(unsafe.Pointer(&buf[0]))
	}

	if _, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		h.f.Fd(),
		sgIO,
		uintptr(unsafe.Pointer(&hdr)),
	); errno != 0 {
		return 0, nil, 0, errno
	}

	transferred := len(buf) - int(hdr.resid)
	if transferred < 0 {
		transferred = 0
	}

	return hdr.status, sense[:hdr.sbLenWr], transferred, nil
}
