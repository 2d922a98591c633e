package operations

import (
	"github.com/pojntfx/dltfs/pkg/hardware"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

// Tell reports the drive's current position without moving the head.
func (o *Operations) Tell() (scsi.TapePosition, error) {
	o.diskOperationLock.Lock()
	defer o.diskOperationLock.Unlock()

	if err := o.acquire(); err != nil {
		return scsi.TapePosition{}, err
	}
	defer func() {
		if err := o.release(); err != nil {
			o.log.Debug("Could not release drive", "error", err.Error())
		}
	}()

	return hardware.Tell(o.dev)
}

// Capacity reads the cartridge's total and remaining capacity.
func (o *Operations) Capacity() (hardware.TapeCapacity, error) {
	o.diskOperationLock.Lock()
	defer o.diskOperationLock.Unlock()

	if err := o.acquire(); err != nil {
		return hardware.TapeCapacity{}, err
	}
	defer func() {
		if err := o.release(); err != nil {
			o.log.Debug("Could not release drive", "error", err.Error())
		}
	}()

	return hardware.GetCapacity(o.dev)
}

// Eject unloads the cartridge.
func (o *Operations) Eject() error {
	o.diskOperationLock.Lock()
	defer o.diskOperationLock.Unlock()

	if err := o.acquire(); err != nil {
		return err
	}
	defer func() {
		if err := o.release(); err != nil {
			o.log.Debug("Could not release drive", "error", err.Error())
		}
	}()

	return hardware.Eject(o.dev)
}

// Identify runs a standard inquiry against the drive.
func (o *Operations) Identify() (scsi.InquiryResponse, error) {
	o.diskOperationLock.Lock()
	defer o.diskOperationLock.Unlock()

	if err := o.acquire(); err != nil {
		return scsi.InquiryResponse{}, err
	}
	defer func() {
		if err := o.release(); err != nil {
			o.log.Debug("Could not release drive", "error", err.Error())
		}
	}()

	return o.dev.Inquiry()
}
