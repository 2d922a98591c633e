package operations

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/internal/pathext"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
	"github.com/spf13/afero"
)

// Restore extracts the file or directory tree at the tape path from into
// the local directory to. With flatten set, the entries land directly in
// to instead of under their tape directory structure.
//
// Restored content is hashed while streaming and checked against the hash
// recorded at archive time, when one is present.
func (o *Operations) Restore(ctx context.Context, from string, to string, flatten bool) ([]*HeaderEvent, error) {
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

	from = pathext.Normalize(from)

	file, _, err := o.index.Lookup(from)
	if err != nil {
		return nil, err
	}

	events := []*HeaderEvent{}

	if file != nil {
		event, err := o.restoreFile(ctx, from, file, filepath.Join(to, file.Name))
		if err != nil {
			return events, err
		}

		return append(events, event), nil
	}

	base := path.Dir(from)

	err = o.index.Walk(func(at string, d *index.Directory, f *index.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if at != from && !strings.HasPrefix(at, from+"/") && from != "/" {
			return nil
		}

		dst := o.localDestination(at, base, to, flatten)

		if d != nil {
			if flatten {
				return nil
			}

			return o.fs.FileSystem.MkdirAll(dst, os.ModePerm)
		}

		event, err := o.restoreFile(ctx, at, f, dst)
		if err != nil {
			return err
		}

		events = append(events, event)

		return nil
	})
	if err != nil {
		return events, err
	}

	return events, nil
}

func (o *Operations) localDestination(at string, base string, to string, flatten bool) string {
	if flatten {
		return filepath.Join(to, path.Base(at))
	}

	rel := strings.TrimPrefix(at, base)

	return filepath.Join(to, filepath.FromSlash(rel))
}

func (o *Operations) restoreFile(ctx context.Context, at string, file *index.File, dst string) (*HeaderEvent, error) {
	if file.Symlink != "" {
		linker, ok := o.fs.FileSystem.(afero.Linker)
		if !ok {
			o.log.Warn("Skipping symlink, filesystem cannot create links", "path", at)

			return &HeaderEvent{
				Type: "skipped",
				Path: at,
			}, nil
		}

		if err := linker.SymlinkIfPossible(file.Symlink, dst); err != nil {
			return nil, err
		}

		return &HeaderEvent{
			Type: "symlink",
			Path: at,
		}, nil
	}

	if err := o.fs.FileSystem.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return nil, err
	}

	out, err := o.fs.FileSystem.Create(dst)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	hasher := sha1.New()

	if err := o.engine.ReadFile(ctx, file, io.MultiWriter(out, hasher)); err != nil {
		return nil, err
	}

	if want := file.Hash(); want != "" {
		if got := hex.EncodeToString(hasher.Sum(nil)); got != want {
			return nil, errors.Wrapf(config.ErrHashMismatch, "%q: got %v, recorded %v", at, got, want)
		}
	}

	event := &HeaderEvent{
		Type:    "file",
		Path:    at,
		Length:  file.Length,
		Extents: len(file.Extents),
	}

	o.emitHeader(event)

	return event, nil
}
