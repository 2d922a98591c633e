package inventory

import (
	"regexp"

	"github.com/pojntfx/dltfs/pkg/index"
)

// Find returns every entry whose path matches the regular expression.
func Find(
	idx *index.Index,

	expression string,

	onEntry func(entry *Entry),
) ([]*Entry, error) {
	matcher, err := regexp.Compile(expression)
	if err != nil {
		return []*Entry{}, err
	}

	entries := []*Entry{}

	if err := idx.Walk(func(at string, dir *index.Directory, file *index.File) error {
		if !matcher.MatchString(at) {
			return nil
		}

		entry := &Entry{
			Path:      at,
			Directory: dir,
			File:      file,
		}

		if onEntry != nil {
			onEntry(entry)
		}

		entries = append(entries, entry)

		return nil
	}); err != nil {
		return []*Entry{}, err
	}

	return entries, nil
}
