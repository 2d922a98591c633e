package index

import (
	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/internal/converters"
	"github.com/pojntfx/dltfs/pkg/config"
)

// Validate checks the structural invariants of an index tree: identifier
// uniqueness, the allocation counter bound, extent tiling, partition
// labels and timestamp formats. Violations report the specific entity
// involved.
func Validate(index *Index) error {
	if index.GenerationNumber == 0 {
		return errors.Wrap(config.ErrStructuralInvalid, "generation number is missing")
	}

	if index.Root.Name != "" {
		return errors.Wrapf(config.ErrStructuralInvalid, "root directory must have an empty name, got %q", index.Root.Name)
	}

	if index.Root.UID != config.RootUID {
		return errors.Wrapf(config.ErrStructuralInvalid, "root directory must have UID %v, got %v", config.RootUID, index.Root.UID)
	}

	seen := map[uint64]string{}
	maxUID := uint64(0)

	var walk func(directory *Directory, path string) error
	walk = func(directory *Directory, path string) error {
		if err := checkUID(seen, directory.UID, path); err != nil {
			return err
		}
		if directory.UID > maxUID {
			maxUID = directory.UID
		}

		if err := checkTimestamps(path, directory.CreationTime, directory.ChangeTime, directory.ModifyTime, directory.AccessTime, directory.BackupTime); err != nil {
			return err
		}

		for i := range directory.Contents.Files {
			file := &directory.Contents.Files[i]
			filePath := path + "/" + file.Name

			if err := checkUID(seen, file.UID, filePath); err != nil {
				return err
			}
			if file.UID > maxUID {
				maxUID = file.UID
			}

			if err := checkTimestamps(filePath, file.CreationTime, file.ChangeTime, file.ModifyTime, file.AccessTime, file.BackupTime); err != nil {
				return err
			}

			if err := checkExtents(file, filePath); err != nil {
				return err
			}
		}

		for i := range directory.Contents.Directories {
			child := &directory.Contents.Directories[i]
			if err := walk(child, path+"/"+child.Name); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(&index.Root, ""); err != nil {
		return err
	}

	if index.HighestFileUID < maxUID {
		return errors.Wrapf(config.ErrStructuralInvalid, "highest file UID %v is below the largest UID %v in the tree", index.HighestFileUID, maxUID)
	}

	return nil
}

func checkUID(seen map[uint64]string, uid uint64, path string) error {
	if uid == config.PlaceholderUID {
		return errors.Wrapf(config.ErrStructuralInvalid, "%q carries the placeholder UID", path)
	}

	if previous, ok := seen[uid]; ok {
		return errors.Wrapf(config.ErrStructuralInvalid, "UID %v is assigned to both %q and %q", uid, previous, path)
	}
	seen[uid] = path

	return nil
}

func checkTimestamps(path string, timestamps ...string) error {
	for _, timestamp := range timestamps {
		if _, err := converters.ParseLTFSTime(timestamp); err != nil {
			return errors.Wrapf(config.ErrStructuralInvalid, "%q: %v", path, err)
		}
	}

	return nil
}

// checkExtents verifies that the extents, ordered by file offset, tile
// [0, length) with no gaps or overlaps.
func checkExtents(file *File, path string) error {
	expectedOffset := uint64(0)

	for i, extent := range file.Extents {
		if extent.Partition != config.PartitionLabelIndex && extent.Partition != config.PartitionLabelData {
			return errors.Wrapf(config.ErrStructuralInvalid, "%q: extent %v has unknown partition label %q", path, i, extent.Partition)
		}

		if extent.FileOffset != expectedOffset {
			return errors.Wrapf(
				config.ErrStructuralInvalid,
				"%q: extent %v starts at file offset %v, expected %v (gap or overlap)",
				path,
				i,
				extent.FileOffset,
				expectedOffset,
			)
		}

		expectedOffset += extent.ByteCount
	}

	if expectedOffset != file.Length {
		return errors.Wrapf(
			config.ErrStructuralInvalid,
			"%q: extents cover %v bytes, file length is %v",
			path,
			expectedOffset,
			file.Length,
		)
	}

	return nil
}
