package operations

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pojntfx/dltfs/internal/converters"
	"github.com/pojntfx/dltfs/internal/pathext"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/hardware"
	"github.com/pojntfx/dltfs/pkg/index"
	"github.com/spf13/afero"
)

// capacityHeadroomBlocks is added to the pre-flight estimate on top of the
// padded data bytes, covering the filemarks and the two index copies.
const capacityHeadroomBlocks = 8

type archiveEntry struct {
	localPath string
	tapePath  string
	info      os.FileInfo
}

// Archive appends the file or directory tree at from to the tape under the
// to directory, then commits a new index generation. Nothing is written
// unless the remaining capacity covers the whole batch.
func (o *Operations) Archive(ctx context.Context, from string, to string) ([]*HeaderEvent, error) {
	o.diskOperationLock.Lock()
	defer o.diskOperationLock.Unlock()

	if err := o.acquire(); err != nil {
		return nil, err
	}
	defer func() {
		if err := o.release(); err != nil {
			o.log.Debug("Could not release drive", "error", err.Error())
		}
	}()

	if _, err := o.readIndex(ctx); err != nil {
		return nil, err
	}

	entries, required, err := o.collectEntries(from, to)
	if err != nil {
		return nil, err
	}

	if err := hardware.CheckAvailableSpace(o.dev, required); err != nil {
		return nil, err
	}

	if err := o.nav.LocateToEOD(config.DataPartition); err != nil {
		return nil, err
	}

	events := []*HeaderEvent{}
	now := time.Now()

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return events, err
		}

		event, err := o.archiveEntry(ctx, entry, now)
		if err != nil {
			return events, err
		}

		events = append(events, event)

		o.emitHeader(event)
	}

	if err := o.commitIndex(ctx); err != nil {
		return events, err
	}

	return events, nil
}

// collectEntries walks the source tree up front so the capacity pre-flight
// can run before the first byte goes to tape. The estimate counts each
// file's bytes padded to full blocks.
func (o *Operations) collectEntries(from string, to string) ([]archiveEntry, uint64, error) {
	entries := []archiveEntry{}
	required := uint64(0)

	root := filepath.Dir(filepath.Clean(from))

	if err := afero.Walk(o.fs.FileSystem, from, func(localPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, localPath)
		if err != nil {
			return err
		}

		entries = append(entries, archiveEntry{
			localPath: localPath,
			tapePath:  pathext.Normalize(path.Join(to, filepath.ToSlash(rel))),
			info:      info,
		})

		if info.Mode().IsRegular() {
			blocks := (uint64(info.Size()) + config.BlockSize - 1) / config.BlockSize
			required += blocks * config.BlockSize
		}

		return nil
	}); err != nil {
		return nil, 0, err
	}

	return entries, required + capacityHeadroomBlocks*config.BlockSize, nil
}

func (o *Operations) archiveEntry(ctx context.Context, entry archiveEntry, now time.Time) (*HeaderEvent, error) {
	if entry.info.IsDir() {
		if _, err := o.index.EnsureDirectory(entry.tapePath, now); err != nil {
			return nil, err
		}

		return &HeaderEvent{
			Type: "directory",
			Path: entry.tapePath,
		}, nil
	}

	timestamp := converters.FormatLTFSTime(entry.info.ModTime())

	file := index.File{
		CreationTime: timestamp,
		ChangeTime:   timestamp,
		ModifyTime:   timestamp,
		AccessTime:   timestamp,
		BackupTime:   converters.FormatLTFSTime(now),
	}

	if entry.info.Mode()&os.ModeSymlink != 0 {
		reader, ok := o.fs.FileSystem.(afero.LinkReader)
		if !ok {
			o.log.Warn("Skipping symlink, filesystem cannot read link targets", "path", entry.localPath)

			return &HeaderEvent{
				Type: "skipped",
				Path: entry.tapePath,
			}, nil
		}

		target, err := reader.ReadlinkIfPossible(entry.localPath)
		if err != nil {
			return nil, err
		}

		file.Symlink = target

		if err := o.index.AddFile(entry.tapePath, file, now); err != nil {
			return nil, err
		}

		return &HeaderEvent{
			Type: "symlink",
			Path: entry.tapePath,
		}, nil
	}

	if !entry.info.Mode().IsRegular() {
		o.log.Warn("Skipping irregular file", "path", entry.localPath, "mode", entry.info.Mode().String())

		return &HeaderEvent{
			Type: "skipped",
			Path: entry.tapePath,
		}, nil
	}

	src, err := o.fs.FileSystem.Open(entry.localPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	hasher := sha1.New()

	extents, written, err := o.engine.WriteFile(ctx, io.TeeReader(src, hasher))
	if err != nil {
		return nil, err
	}

	file.Length = written
	file.Extents = extents
	file.SetHash(hex.EncodeToString(hasher.Sum(nil)))

	if err := o.index.AddFile(entry.tapePath, file, now); err != nil {
		return nil, err
	}

	if written != uint64(entry.info.Size()) {
		o.log.Debug(
			"Source size changed during archive",
			"path", entry.localPath,
			"statSize", entry.info.Size(),
			"written", written,
		)
	}

	return &HeaderEvent{
		Type:    "file",
		Path:    entry.tapePath,
		Length:  written,
		Extents: len(extents),
	}, nil
}
