//go:build !linux

package sg

import (
	"time"

	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

type Handle struct{}

func Open(path string) (*Handle, error) {
	return nil, config.ErrUnsupportedPlatform
}

func (h *Handle) Close() error {
	return config.ErrUnsupportedPlatform
}

func (h *Handle) Command(cdb []byte, direction scsi.Direction, buf []byte, timeout time.Duration) (byte, []byte, int, error) {
	return 0, nil, 0, config.ErrUnsupportedPlatform
}
