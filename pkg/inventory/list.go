package inventory

import (
	"path"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/internal/pathext"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
)

// List returns the direct children of the directory at name.
func List(
	idx *index.Index,

	name string,

	onEntry func(entry *Entry),
) ([]*Entry, error) {
	name = pathext.Normalize(name)

	_, dir, err := idx.Lookup(name)
	if err != nil {
		return []*Entry{}, err
	}
	if dir == nil {
		return []*Entry{}, errors.Wrapf(config.ErrNotADirectory, "%q", name)
	}

	entries := []*Entry{}

	for d := range dir.Contents.Directories {
		child := &dir.Contents.Directories[d]

		entry := &Entry{
			Path:      path.Join(name, child.Name),
			Directory: child,
		}

		if onEntry != nil {
			onEntry(entry)
		}

		entries = append(entries, entry)
	}

	for f := range dir.Contents.Files {
		child := &dir.Contents.Files[f]

		entry := &Entry{
			Path: path.Join(name, child.Name),
			File: child,
		}

		if onEntry != nil {
			onEntry(entry)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
