package inventory

import (
	"github.com/pojntfx/dltfs/internal/pathext"
	"github.com/pojntfx/dltfs/pkg/index"
)

// Stat resolves one path to its entry.
func Stat(
	idx *index.Index,

	name string,

	onEntry func(entry *Entry),
) (*Entry, error) {
	name = pathext.Normalize(name)

	file, dir, err := idx.Lookup(name)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Path:      name,
		Directory: dir,
		File:      file,
	}

	if onEntry != nil {
		onEntry(entry)
	}

	return entry, nil
}
