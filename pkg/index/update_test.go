package index

import (
	"errors"
	"testing"
	"time"

	"github.com/pojntfx/dltfs/pkg/config"
)

var updateNow = time.Date(2021, 11, 27, 14, 0, 0, 0, time.UTC)

func newFile(length uint64) File {
	timestamp := "2021-11-27T14:00:00.000000000Z"

	return File{
		Length: length,

		CreationTime: timestamp,
		ChangeTime:   timestamp,
		ModifyTime:   timestamp,
		AccessTime:   timestamp,
		BackupTime:   timestamp,

		Extents: []Extent{
			{Partition: "b", StartBlock: 0, ByteCount: length},
		},
	}
}

func TestAddFileAllocatesParentsBeforeChildren(t *testing.T) {
	idx := NewIndex("update-test", updateNow)

	if err := idx.AddFile("/a/b/c.txt", newFile(10), updateNow); err != nil {
		t.Fatal(err)
	}

	dirA := findDirectory(&idx.Root, "a")
	if dirA == nil {
		t.Fatal("directory /a was not created")
	}
	dirB := findDirectory(dirA, "b")
	if dirB == nil {
		t.Fatal("directory /a/b was not created")
	}
	file := findFile(dirB, "c.txt")
	if file == nil {
		t.Fatal("file /a/b/c.txt was not created")
	}

	// Identifiers must be strictly increasing down the chain: the file's
	// identifier is allocated only after its position in the tree is final
	if !(idx.Root.UID < dirA.UID && dirA.UID < dirB.UID && dirB.UID < file.UID) {
		t.Errorf(
			"identifiers not strictly increasing: root=%v a=%v b=%v file=%v",
			idx.Root.UID, dirA.UID, dirB.UID, file.UID,
		)
	}

	if idx.HighestFileUID != file.UID {
		t.Errorf("highest file UID = %v, want %v", idx.HighestFileUID, file.UID)
	}

	if err := Validate(idx); err != nil {
		t.Errorf("index invalid after adding a nested file: %v", err)
	}
}

func TestAddFileReplacementKeepsIdentity(t *testing.T) {
	idx := NewIndex("update-test", updateNow)

	if err := idx.AddFile("/data.bin", newFile(10), updateNow); err != nil {
		t.Fatal(err)
	}

	original, _, err := idx.Lookup("/data.bin")
	if err != nil {
		t.Fatal(err)
	}
	originalUID := original.UID

	if err := idx.AddFile("/data.bin", newFile(20), updateNow); err != nil {
		t.Fatal(err)
	}

	replaced, _, err := idx.Lookup("/data.bin")
	if err != nil {
		t.Fatal(err)
	}

	if replaced.UID != originalUID {
		t.Errorf("replacement changed the UID from %v to %v", originalUID, replaced.UID)
	}
	if replaced.Length != 20 {
		t.Errorf("length = %v, want 20", replaced.Length)
	}
	if err := Validate(idx); err != nil {
		t.Errorf("index invalid after replacing a file: %v", err)
	}
}

func TestAddFileRejectsRootPath(t *testing.T) {
	idx := NewIndex("update-test", updateNow)

	if err := idx.AddFile("/", newFile(10), updateNow); !errors.Is(err, config.ErrStructuralInvalid) {
		t.Errorf("err = %v, want ErrStructuralInvalid", err)
	}
}

func TestEnsureDirectoryRejectsFileConflict(t *testing.T) {
	idx := NewIndex("update-test", updateNow)

	if err := idx.AddFile("/archive", newFile(10), updateNow); err != nil {
		t.Fatal(err)
	}

	if _, err := idx.EnsureDirectory("/archive/sub", updateNow); !errors.Is(err, config.ErrNotADirectory) {
		t.Errorf("err = %v, want ErrNotADirectory", err)
	}
}

func TestEnsureDirectoryIsIdempotent(t *testing.T) {
	idx := NewIndex("update-test", updateNow)

	first, err := idx.EnsureDirectory("/a/b", updateNow)
	if err != nil {
		t.Fatal(err)
	}
	firstUID := first.UID

	second, err := idx.EnsureDirectory("/a/b", updateNow)
	if err != nil {
		t.Fatal(err)
	}

	if second.UID != firstUID {
		t.Errorf("repeated ensure allocated a new UID %v, want %v", second.UID, firstUID)
	}
	if got := idx.HighestFileUID; got != firstUID {
		t.Errorf("highest file UID = %v, want %v", got, firstUID)
	}
}

func TestLookupResolvesFilesAndDirectories(t *testing.T) {
	idx := NewIndex("update-test", updateNow)

	if err := idx.AddFile("/docs/readme.txt", newFile(10), updateNow); err != nil {
		t.Fatal(err)
	}

	file, dir, err := idx.Lookup("/docs/readme.txt")
	if err != nil {
		t.Fatal(err)
	}
	if file == nil || dir != nil {
		t.Error("file path did not resolve to a file")
	}

	file, dir, err = idx.Lookup("/docs")
	if err != nil {
		t.Fatal(err)
	}
	if dir == nil || file != nil {
		t.Error("directory path did not resolve to a directory")
	}

	if _, _, err := idx.Lookup("/missing"); !errors.Is(err, config.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestWalkVisitsDirectoriesBeforeContents(t *testing.T) {
	idx := NewIndex("update-test", updateNow)

	if err := idx.AddFile("/a/one.txt", newFile(1), updateNow); err != nil {
		t.Fatal(err)
	}
	if err := idx.AddFile("/a/b/two.txt", newFile(2), updateNow); err != nil {
		t.Fatal(err)
	}

	visited := []string{}
	if err := idx.Walk(func(at string, dir *Directory, file *File) error {
		visited = append(visited, at)

		return nil
	}); err != nil {
		t.Fatal(err)
	}

	positions := map[string]int{}
	for i, at := range visited {
		positions[at] = i
	}

	for _, pair := range [][2]string{
		{"/", "/a"},
		{"/a", "/a/one.txt"},
		{"/a", "/a/b"},
		{"/a/b", "/a/b/two.txt"},
	} {
		parent, child := pair[0], pair[1]
		if positions[parent] >= positions[child] {
			t.Errorf("%q visited at %v, after %q at %v", parent, positions[parent], child, positions[child])
		}
	}

	if got := idx.CountFiles(); got != 2 {
		t.Errorf("CountFiles() = %v, want 2", got)
	}
}
