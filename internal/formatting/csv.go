package formatting

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/pojntfx/dltfs/pkg/index"
)

var (
	IndexEntryCSV = []string{
		"type", "path", "fileuid", "length", "modifytime", "extents", "startpartition", "startblock", "sha1sum",
	}

	HeaderEventCSV = []string{
		"type", "path", "length", "extents",
	}
)

func PrintCSV(input []string) error {
	w := csv.NewWriter(os.Stdout)

	return w.WriteAll([][]string{input})
}

func GetHeaderEventAsCSV(eventType string, path string, length uint64, extents int) []string {
	return []string{
		eventType, path, fmt.Sprintf("%v", length), fmt.Sprintf("%v", extents),
	}
}

func GetDirectoryAsCSV(path string, dir *index.Directory) []string {
	return []string{
		"directory", path, fmt.Sprintf("%v", dir.UID), "0", dir.ModifyTime, "0", "", "", "",
	}
}

func GetFileAsCSV(path string, file *index.File) []string {
	startPartition, startBlock := "", ""
	if len(file.Extents) > 0 {
		startPartition = file.Extents[0].Partition
		startBlock = fmt.Sprintf("%v", file.Extents[0].StartBlock)
	}

	entryType := "file"
	if file.Symlink != "" {
		entryType = "symlink"
	}

	return []string{
		entryType, path, fmt.Sprintf("%v", file.UID), fmt.Sprintf("%v", file.Length), file.ModifyTime, fmt.Sprintf("%v", len(file.Extents)), startPartition, startBlock, file.Hash(),
	}
}
