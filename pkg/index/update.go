package index

import (
	"time"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/internal/converters"
	"github.com/pojntfx/dltfs/internal/pathext"
	"github.com/pojntfx/dltfs/pkg/config"
)

// allocateUID hands out the next identifier from the shared counter.
func (i *Index) allocateUID() uint64 {
	i.HighestFileUID++

	return i.HighestFileUID
}

// AddFile inserts a file record at the given tape path, creating missing
// parent directories.
//
// Identity allocation is two-phase: the record enters with the placeholder
// UID, the parent directory chain is created first (each new directory
// draws a fresh UID from the shared counter), and only once the record's
// position in the tree is final does it receive its own UID. Allocating
// the file's UID up front would let a directory created afterwards draw
// the same number.
func (i *Index) AddFile(path string, file File, now time.Time) error {
	parentPath, name := pathext.Split(path)
	if name == "" {
		return errors.Wrap(config.ErrStructuralInvalid, "a file cannot be the root")
	}

	file.Name = name
	file.UID = config.PlaceholderUID

	parent, err := i.EnsureDirectory(parentPath, now)
	if err != nil {
		return err
	}

	for f := range parent.Contents.Files {
		if parent.Contents.Files[f].Name == name {
			// Replacing keeps the existing identity
			file.UID = parent.Contents.Files[f].UID
			parent.Contents.Files[f] = file

			i.touch(now)

			return nil
		}
	}

	file.UID = i.allocateUID()
	parent.Contents.Files = append(parent.Contents.Files, file)

	parent.ModifyTime = converters.FormatLTFSTime(now)
	parent.ChangeTime = parent.ModifyTime

	i.touch(now)

	return nil
}

// EnsureDirectory walks the path, creating missing directories in order.
// Each newly created directory allocates its UID at creation time, parents
// strictly before children.
func (i *Index) EnsureDirectory(path string, now time.Time) (*Directory, error) {
	current := &i.Root

	for _, component := range pathext.Components(path) {
		next := findDirectory(current, component)
		if next == nil {
			if findFile(current, component) != nil {
				return nil, errors.Wrapf(config.ErrNotADirectory, "%q exists as a file", component)
			}

			timestamp := converters.FormatLTFSTime(now)
			current.Contents.Directories = append(current.Contents.Directories, Directory{
				Name: component,
				UID:  i.allocateUID(),

				CreationTime: timestamp,
				ChangeTime:   timestamp,
				ModifyTime:   timestamp,
				AccessTime:   timestamp,
				BackupTime:   timestamp,
			})

			next = &current.Contents.Directories[len(current.Contents.Directories)-1]

			i.touch(now)
		}

		current = next
	}

	return current, nil
}

// Lookup resolves a tape path to the file or directory it names.
func (i *Index) Lookup(path string) (*File, *Directory, error) {
	if pathext.IsRoot(path, true) {
		return nil, &i.Root, nil
	}

	components := pathext.Components(path)

	current := &i.Root
	for c, component := range components {
		last := c == len(components)-1

		if last {
			if file := findFile(current, component); file != nil {
				return file, nil, nil
			}
		}

		next := findDirectory(current, component)
		if next == nil {
			return nil, nil, errors.Wrapf(config.ErrNotFound, "%q", path)
		}

		current = next
	}

	return nil, current, nil
}

func (i *Index) touch(now time.Time) {
	i.UpdateTime = converters.FormatLTFSTime(now)
}

func findDirectory(parent *Directory, name string) *Directory {
	for d := range parent.Contents.Directories {
		if parent.Contents.Directories[d].Name == name {
			return &parent.Contents.Directories[d]
		}
	}

	return nil
}

func findFile(parent *Directory, name string) *File {
	for f := range parent.Contents.Files {
		if parent.Contents.Files[f].Name == name {
			return &parent.Contents.Files[f]
		}
	}

	return nil
}
