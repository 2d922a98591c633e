package hardware

import (
	"errors"
	"testing"

	"github.com/pojntfx/dltfs/internal/logging"
	"github.com/pojntfx/dltfs/internal/mocktape"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

func newTestDevice(t *testing.T) (*scsi.Device, *mocktape.Tape) {
	t.Helper()

	tape := mocktape.New()

	return scsi.NewDevice(tape, true, logging.NewJSONLogger(0)), tape
}

func TestGetCapacityScalesKibibytes(t *testing.T) {
	dev, tape := newTestDevice(t)

	tape.MaxKiB = 5 * 1024 * 1024
	tape.RemainingKiB = 2 * 1024 * 1024

	capacity, err := GetCapacity(dev)
	if err != nil {
		t.Fatal(err)
	}

	if want := uint64(5 * 1024 * 1024 * 1024); capacity.Total != want {
		t.Errorf("total = %v, want %v", capacity.Total, want)
	}
	if want := uint64(2 * 1024 * 1024 * 1024); capacity.Remaining != want {
		t.Errorf("remaining = %v, want %v", capacity.Remaining, want)
	}
	if want := uint64(3 * 1024 * 1024 * 1024); capacity.Used() != want {
		t.Errorf("used = %v, want %v", capacity.Used(), want)
	}
}

func TestCheckAvailableSpace(t *testing.T) {
	dev, tape := newTestDevice(t)

	tape.RemainingKiB = 1024 // 1 MiB

	if err := CheckAvailableSpace(dev, 512*1024); err != nil {
		t.Errorf("half the remaining space rejected: %v", err)
	}

	if err := CheckAvailableSpace(dev, 2*1024*1024); !errors.Is(err, config.ErrInsufficientCapacity) {
		t.Errorf("err = %v, want ErrInsufficientCapacity", err)
	}
}

var formatBytesTests = []struct {
	name string
	in   uint64
	want string
}{
	{"Formats bytes", 512, "512 B"},
	{"Formats kibibytes", 2048, "2.0 KiB"},
	{"Formats gibibytes", 5 * 1024 * 1024 * 1024, "5.0 GiB"},
	{"Formats terabyte-class media", 12 * 1024 * 1024 * 1024 * 1024, "12.0 TiB"},
}

func TestFormatBytes(t *testing.T) {
	for _, tt := range formatBytesTests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := formatBytes(tt.in); got != tt.want {
				t.Errorf("formatBytes(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
