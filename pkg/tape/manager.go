package tape

import (
	"sync"

	"github.com/pojntfx/dltfs/internal/sg"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

// TapeManager serializes access to the one physical drive. A session holds
// the device for its whole lifetime; concurrent sessions queue here instead
// of interleaving commands.
type TapeManager struct {
	drive string

	physicalLock sync.Mutex

	handle *sg.Handle
}

func NewTapeManager(drive string) *TapeManager {
	return &TapeManager{
		drive: drive,
	}
}

func (m *TapeManager) Acquire() (scsi.CommandRunner, error) {
	m.physicalLock.Lock()

	handle, err := sg.Open(m.drive)
	if err != nil {
		m.physicalLock.Unlock()

		return nil, err
	}

	m.handle = handle

	return handle, nil
}

func (m *TapeManager) Release() error {
	defer m.physicalLock.Unlock()

	if m.handle != nil {
		if err := m.handle.Close(); err != nil {
			return err
		}

		m.handle = nil
	}

	return nil
}
