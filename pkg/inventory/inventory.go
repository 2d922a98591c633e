// Package inventory answers questions about a loaded index without
// touching the drive.
package inventory

import (
	"github.com/pojntfx/dltfs/pkg/index"
)

// Entry is one inventory result, a file or directory with its tape
// placement.
type Entry struct {
	Path      string
	Directory *index.Directory
	File      *index.File
}
