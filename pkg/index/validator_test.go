package index

import (
	"errors"
	"testing"
	"time"

	"github.com/pojntfx/dltfs/pkg/config"
)

func validIndex(t *testing.T) *Index {
	t.Helper()

	idx := NewIndex("validator-test", time.Date(2021, 11, 27, 14, 0, 0, 0, time.UTC))

	file := newFile(100)
	file.Extents = []Extent{
		{Partition: "b", StartBlock: 0, ByteCount: 60, FileOffset: 0},
		{Partition: "b", StartBlock: 1, ByteCount: 40, FileOffset: 60},
	}

	if err := idx.AddFile("/spanned.bin", file, updateNow); err != nil {
		t.Fatal(err)
	}

	return idx
}

var validateTests = []struct {
	name    string
	mutate  func(idx *Index)
	wantErr bool
}{
	{
		"Accepts a well-formed index",
		func(idx *Index) {},
		false,
	},
	{
		"Rejects a missing generation number",
		func(idx *Index) { idx.GenerationNumber = 0 },
		true,
	},
	{
		"Rejects a named root directory",
		func(idx *Index) { idx.Root.Name = "root" },
		true,
	},
	{
		"Rejects a root directory with the wrong UID",
		func(idx *Index) { idx.Root.UID = 42 },
		true,
	},
	{
		"Rejects duplicate UIDs",
		func(idx *Index) { idx.Root.Contents.Files[0].UID = idx.Root.UID },
		true,
	},
	{
		"Rejects the placeholder UID",
		func(idx *Index) { idx.Root.Contents.Files[0].UID = config.PlaceholderUID },
		true,
	},
	{
		"Rejects an allocation counter below the largest UID",
		func(idx *Index) { idx.HighestFileUID = 1 },
		true,
	},
	{
		"Rejects an extent gap",
		func(idx *Index) { idx.Root.Contents.Files[0].Extents[1].FileOffset = 70 },
		true,
	},
	{
		"Rejects overlapping extents",
		func(idx *Index) { idx.Root.Contents.Files[0].Extents[1].FileOffset = 50 },
		true,
	},
	{
		"Rejects extents not covering the file length",
		func(idx *Index) { idx.Root.Contents.Files[0].Length = 200 },
		true,
	},
	{
		"Rejects an unknown partition label",
		func(idx *Index) { idx.Root.Contents.Files[0].Extents[0].Partition = "c" },
		true,
	},
	{
		"Rejects a malformed timestamp",
		func(idx *Index) { idx.Root.Contents.Files[0].ModifyTime = "2021-11-27T14:00:00Z" },
		true,
	},
	{
		"Rejects a truncated fractional second",
		func(idx *Index) { idx.Root.Contents.Files[0].ModifyTime = "2021-11-27T14:00:00.000Z" },
		true,
	},
}

func TestValidate(t *testing.T) {
	for _, tt := range validateTests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			idx := validIndex(t)
			tt.mutate(idx)

			err := Validate(idx)
			if tt.wantErr {
				if !errors.Is(err, config.ErrStructuralInvalid) {
					t.Errorf("err = %v, want ErrStructuralInvalid", err)
				}
			} else if err != nil {
				t.Errorf("err = %v, want nil", err)
			}
		})
	}
}

func TestValidateEmptyFileNeedsNoExtents(t *testing.T) {
	idx := NewIndex("validator-test", time.Date(2021, 11, 27, 14, 0, 0, 0, time.UTC))

	file := newFile(0)
	file.Extents = nil

	if err := idx.AddFile("/empty.txt", file, updateNow); err != nil {
		t.Fatal(err)
	}

	if err := Validate(idx); err != nil {
		t.Errorf("empty file rejected: %v", err)
	}
}
