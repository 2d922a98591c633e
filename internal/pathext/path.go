package pathext

import (
	"path"
	"strings"
)

func IsRoot(p string, trim bool) bool {
	if trim && len(strings.TrimSpace(p)) == 0 {
		return true
	}

	return p == "" || p == "." || p == "/" || p == "./"
}

// Normalize turns a tape path into a clean, slash-separated, absolute path
// without a trailing slash. Backslashes from Windows-produced tooling are
// accepted.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return path.Clean(p)
}

// Split returns the parent path and the final component of a normalized
// path.
func Split(p string) (string, string) {
	p = Normalize(p)
	if IsRoot(p, true) {
		return "/", ""
	}

	return path.Dir(p), path.Base(p)
}

// Components returns the path elements of a normalized path, root excluded.
func Components(p string) []string {
	p = Normalize(p)
	if IsRoot(p, true) {
		return []string{}
	}

	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
