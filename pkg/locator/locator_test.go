package locator

import (
	"context"
	"testing"
	"time"

	"github.com/pojntfx/dltfs/internal/logging"
	"github.com/pojntfx/dltfs/internal/mocktape"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
	"github.com/pojntfx/dltfs/pkg/position"
	"github.com/pojntfx/dltfs/pkg/scsi"
	"github.com/stretchr/testify/require"
)

const testBlockSize = 4096

func newTestLocator(t *testing.T) (*Locator, *position.Navigator, *scsi.Device) {
	t.Helper()

	tape := mocktape.New()
	dev := scsi.NewDevice(tape, true, logging.NewJSONLogger(0))
	nav := position.NewNavigator(dev, logging.NewJSONLogger(0))

	return NewLocator(nav, config.LocatorConfig{
		BlockSize: testBlockSize,
		MaxBlocks: 64,
	}, logging.NewJSONLogger(0)), nav, dev
}

func serializedIndex(t *testing.T, generation uint64) []byte {
	t.Helper()

	idx := index.NewIndex("locator-test", time.Now())
	idx.GenerationNumber = generation

	raw, err := index.Serialize(idx)
	require.NoError(t, err)

	return raw
}

// writeIndexAt appends an index block and its closing filemark at the
// current head position.
func writeIndexAt(t *testing.T, dev *scsi.Device, raw []byte) {
	t.Helper()

	require.NoError(t, dev.WriteBlock(raw))
	require.NoError(t, dev.WriteFilemarks(1))
}

func TestFindsIndexOnIndexPartition(t *testing.T) {
	loc, nav, dev := newTestLocator(t)

	// Partition 0: label, filemark, index, filemark
	require.NoError(t, nav.LocateToBlock(config.IndexPartition, 0))
	require.NoError(t, dev.WriteBlock([]byte("volume label")))
	require.NoError(t, dev.WriteFilemarks(1))
	writeIndexAt(t, dev, serializedIndex(t, 7))

	raw, err := loc.FindAndReadIndex(context.Background())
	require.NoError(t, err)

	idx, err := index.Parse(raw)
	require.NoError(t, err)
	require.EqualValues(t, 7, idx.GenerationNumber)
}

func TestIndexPartitionTargetsFixedFilemark(t *testing.T) {
	loc, nav, dev := newTestLocator(t)

	// Several index generations on partition 0; the fixed filemark target
	// must pick the one right behind the first filemark, not a
	// count-relative one.
	require.NoError(t, nav.LocateToBlock(config.IndexPartition, 0))
	require.NoError(t, dev.WriteBlock([]byte("volume label")))
	require.NoError(t, dev.WriteFilemarks(1))
	writeIndexAt(t, dev, serializedIndex(t, 3))
	writeIndexAt(t, dev, serializedIndex(t, 2))

	raw, err := loc.FindAndReadIndex(context.Background())
	require.NoError(t, err)

	idx, err := index.Parse(raw)
	require.NoError(t, err)
	require.EqualValues(t, 3, idx.GenerationNumber)
}

func TestFallsBackToDataPartitionEOD(t *testing.T) {
	loc, nav, dev := newTestLocator(t)

	// Partition 0 carries a label but no index behind a filemark
	require.NoError(t, nav.LocateToBlock(config.IndexPartition, 0))
	require.NoError(t, dev.WriteBlock([]byte("volume label")))
	require.NoError(t, dev.WriteFilemarks(1))

	// Partition 1: data, filemark, index, filemark; the newest index sits
	// behind the next-to-last filemark
	require.NoError(t, nav.LocateToBlock(config.DataPartition, 0))
	require.NoError(t, dev.WriteBlock(make([]byte, testBlockSize)))
	require.NoError(t, dev.WriteFilemarks(1))
	writeIndexAt(t, dev, serializedIndex(t, 5))

	raw, err := loc.FindAndReadIndex(context.Background())
	require.NoError(t, err)

	idx, err := index.Parse(raw)
	require.NoError(t, err)
	require.EqualValues(t, 5, idx.GenerationNumber)
}

func TestDataPartitionTargetsNewestGeneration(t *testing.T) {
	loc, nav, dev := newTestLocator(t)

	// Two append passes on partition 1: each adds data, filemark, index,
	// filemark; the count-relative target must select the newest index
	require.NoError(t, nav.LocateToBlock(config.DataPartition, 0))
	require.NoError(t, dev.WriteBlock(make([]byte, testBlockSize)))
	require.NoError(t, dev.WriteFilemarks(1))
	writeIndexAt(t, dev, serializedIndex(t, 2))
	require.NoError(t, dev.WriteBlock(make([]byte, testBlockSize)))
	require.NoError(t, dev.WriteFilemarks(1))
	writeIndexAt(t, dev, serializedIndex(t, 3))

	raw, err := loc.FindAndReadIndex(context.Background())
	require.NoError(t, err)

	idx, err := index.Parse(raw)
	require.NoError(t, err)
	require.EqualValues(t, 3, idx.GenerationNumber)
}

func TestFallsBackToFixedBlocks(t *testing.T) {
	loc, nav, dev := newTestLocator(t)

	// No filemarks anywhere; the index sits at a well-known block offset
	require.NoError(t, nav.LocateToBlock(config.IndexPartition, 0))
	require.NoError(t, dev.WriteBlock(serializedIndex(t, 9)))

	raw, err := loc.FindAndReadIndex(context.Background())
	require.NoError(t, err)

	idx, err := index.Parse(raw)
	require.NoError(t, err)
	require.EqualValues(t, 9, idx.GenerationNumber)
}

func TestRejectsGarbageCandidates(t *testing.T) {
	loc, nav, dev := newTestLocator(t)

	// A filemark structure that yields unparseable bytes on partition 0,
	// with the real index on partition 1
	require.NoError(t, nav.LocateToBlock(config.IndexPartition, 0))
	require.NoError(t, dev.WriteBlock([]byte("volume label")))
	require.NoError(t, dev.WriteFilemarks(1))
	require.NoError(t, dev.WriteBlock([]byte("<not-an-index>")))
	require.NoError(t, dev.WriteFilemarks(1))

	require.NoError(t, nav.LocateToBlock(config.DataPartition, 0))
	require.NoError(t, dev.WriteBlock(make([]byte, testBlockSize)))
	require.NoError(t, dev.WriteFilemarks(1))
	writeIndexAt(t, dev, serializedIndex(t, 4))

	raw, err := loc.FindAndReadIndex(context.Background())
	require.NoError(t, err)

	idx, err := index.Parse(raw)
	require.NoError(t, err)
	require.EqualValues(t, 4, idx.GenerationNumber)
}

func TestReportsAllStrategiesOnExhaustion(t *testing.T) {
	loc, _, _ := newTestLocator(t)

	_, err := loc.FindAndReadIndex(context.Background())
	require.ErrorIs(t, err, config.ErrNoIndexFound)
	require.Contains(t, err.Error(), "index partition")
	require.Contains(t, err.Error(), "data partition end-of-data")
	require.Contains(t, err.Error(), "fixed-offset fallback")
}

func TestLocatingTwiceIsIdempotent(t *testing.T) {
	loc, nav, dev := newTestLocator(t)

	require.NoError(t, nav.LocateToBlock(config.IndexPartition, 0))
	require.NoError(t, dev.WriteBlock([]byte("volume label")))
	require.NoError(t, dev.WriteFilemarks(1))
	writeIndexAt(t, dev, serializedIndex(t, 6))

	first, err := loc.FindAndReadIndex(context.Background())
	require.NoError(t, err)

	second, err := loc.FindAndReadIndex(context.Background())
	require.NoError(t, err)

	require.Equal(t, first, second)
}
