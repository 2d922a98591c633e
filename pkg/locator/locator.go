// Package locator finds and reads the current LTFS index on a tape. The
// index's true location depends on whether the tape was last written in
// index-partition-only or dual-partition mode, so no single fixed offset
// is reliable; an ordered chain of strategies is tried instead.
package locator

import (
	"context"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
	"github.com/pojntfx/dltfs/pkg/logging"
	"github.com/pojntfx/dltfs/pkg/scsi"
)

// Positioner is the slice of the navigator the locator drives.
type Positioner interface {
	LocateToBlock(partition uint8, block uint64) error
	LocateToEOD(partition uint8) error
	LocateToFilemark(filemark uint64, partition uint8) error
	ReadFilemarkAndBacktrack(blockSize int) (bool, error)
	ReadUntilFilemark(ctx context.Context, blockSize int, maxBlocks int) ([]byte, error)
	ReadPosition() (scsi.TapePosition, error)
}

type Locator struct {
	nav Positioner
	cfg config.LocatorConfig
	log logging.StructuredLogger
}

func NewLocator(
	nav Positioner,
	cfg config.LocatorConfig,

	log logging.StructuredLogger,
) *Locator {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = config.BlockSize
	}
	if cfg.MaxBlocks <= 0 {
		cfg.MaxBlocks = config.MaxIndexBlocks
	}
	if cfg.FallbackBlocks == nil {
		cfg.FallbackBlocks = config.FallbackIndexBlocks
	}

	return &Locator{
		nav: nav,
		cfg: cfg,
		log: log,
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context) ([]byte, error)
}

// FindAndReadIndex tries each strategy in order and returns the first
// candidate that passes XML-shape validation. Strategies that return some
// bytes do not short-circuit the chain; only validated content does. When
// all strategies are exhausted the error names every one that was tried.
func (l *Locator) FindAndReadIndex(ctx context.Context) ([]byte, error) {
	strategies := []strategy{
		{"index partition", l.readFromIndexPartition},
		{"data partition end-of-data", l.readFromDataPartitionEOD},
		{"fixed-offset fallback", l.readFromFallbackBlocks},
	}

	attempted := []string{}
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempted = append(attempted, s.name)

		candidate, err := s.run(ctx)
		if err != nil {
			l.log.Debug("Index search strategy failed", "strategy", s.name, "error", err.Error())

			continue
		}

		if err := index.ValidateShape(candidate); err != nil {
			l.log.Debug("Index search strategy returned unparseable content", "strategy", s.name, "bytes", len(candidate), "error", err.Error())

			continue
		}

		l.log.Info("Index located", "strategy", s.name, "bytes", len(candidate))

		return candidate, nil
	}

	return nil, errors.Wrapf(config.ErrNoIndexFound, "strategies attempted: %v", strings.Join(attempted, ", "))
}

// readFromIndexPartition reads the current index from partition 0. The
// filemark count at end-of-data must exceed one, otherwise the partition
// holds no usable index; the target is the fixed filemark, not a
// count-relative one.
func (l *Locator) readFromIndexPartition(ctx context.Context) ([]byte, error) {
	target, err := l.filemarkTarget(config.IndexPartition)
	if err != nil {
		return nil, err
	}

	return l.readAtFilemark(ctx, config.IndexPartition, target)
}

// readFromDataPartitionEOD reads the most recent index copy preceding the
// final data filemark on partition 1.
func (l *Locator) readFromDataPartitionEOD(ctx context.Context) ([]byte, error) {
	target, err := l.filemarkTarget(config.DataPartition)
	if err != nil {
		return nil, err
	}

	return l.readAtFilemark(ctx, config.DataPartition, target)
}

// filemarkTarget locates to end-of-data and derives the filemark holding
// the newest index for the partition's layout mode.
func (l *Locator) filemarkTarget(partition uint8) (uint64, error) {
	if err := l.nav.LocateToEOD(partition); err != nil {
		return 0, err
	}

	pos, err := l.nav.ReadPosition()
	if err != nil {
		return 0, err
	}

	if pos.File <= 1 {
		return 0, errors.Wrapf(
			config.ErrNoIndexFound,
			"partition %v has %v filemarks at end-of-data, no usable index",
			partition,
			pos.File,
		)
	}

	// On the index partition the current index sits at a fixed, known-good
	// filemark. Only the data partition uses the count-relative target.
	if partition == config.IndexPartition {
		return config.IndexPartitionFilemark, nil
	}

	return pos.File - 1, nil
}

func (l *Locator) readAtFilemark(ctx context.Context, partition uint8, filemark uint64) ([]byte, error) {
	if err := l.nav.LocateToFilemark(filemark, partition); err != nil {
		return nil, err
	}

	// Spacing lands either just before or just after the filemark depending
	// on the drive. If the next read hits the filemark it is consumed; if it
	// hits the first index block the backtrack puts the head right back in
	// front of it. Either way the head now sits at the index body.
	atFilemark, err := l.nav.ReadFilemarkAndBacktrack(l.cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	if !atFilemark {
		l.log.Debug("Head was already past the filemark, backtracked one block", "partition", partition, "filemark", filemark)
	}

	return l.nav.ReadUntilFilemark(ctx, l.cfg.BlockSize, l.cfg.MaxBlocks)
}

// readFromFallbackBlocks probes well-known fixed offsets on the index
// partition, including block 0, whose volume label may embed index data.
func (l *Locator) readFromFallbackBlocks(ctx context.Context) ([]byte, error) {
	var lastErr error

	for _, block := range l.cfg.FallbackBlocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := l.nav.LocateToBlock(config.IndexPartition, block); err != nil {
			lastErr = err

			continue
		}

		candidate, err := l.nav.ReadUntilFilemark(ctx, l.cfg.BlockSize, l.cfg.MaxBlocks)
		if err != nil {
			lastErr = err

			continue
		}

		if err := index.ValidateShape(candidate); err != nil {
			lastErr = err

			continue
		}

		return candidate, nil
	}

	if lastErr == nil {
		lastErr = errors.Wrap(config.ErrNoIndexFound, "no fallback blocks configured")
	}

	return nil, lastErr
}
