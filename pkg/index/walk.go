package index

import "path"

// Walk visits every entry of the tree in depth-first order, directories
// before their contents. Exactly one of dir and file is non-nil per call.
// The root directory itself is visited as "/".
func (i *Index) Walk(fn func(path string, dir *Directory, file *File) error) error {
	return walkDirectory("/", &i.Root, fn)
}

func walkDirectory(at string, dir *Directory, fn func(path string, dir *Directory, file *File) error) error {
	if err := fn(at, dir, nil); err != nil {
		return err
	}

	for d := range dir.Contents.Directories {
		child := &dir.Contents.Directories[d]
		if err := walkDirectory(path.Join(at, child.Name), child, fn); err != nil {
			return err
		}
	}

	for f := range dir.Contents.Files {
		file := &dir.Contents.Files[f]
		if err := fn(path.Join(at, file.Name), nil, file); err != nil {
			return err
		}
	}

	return nil
}

// CountFiles returns the number of file entries in the tree.
func (i *Index) CountFiles() int64 {
	count := int64(0)

	_ = i.Walk(func(_ string, _ *Directory, file *File) error {
		if file != nil {
			count++
		}

		return nil
	})

	return count
}
