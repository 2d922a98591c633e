package pathext

import (
	"reflect"
	"testing"
)

var normalizeTests = []struct {
	name string
	in   string
	want string
}{
	{"Keeps a clean absolute path", "/a/b", "/a/b"},
	{"Makes relative paths absolute", "a/b", "/a/b"},
	{"Accepts backslash separators", "\\a\\b", "/a/b"},
	{"Collapses duplicate separators", "/a//b/", "/a/b"},
	{"Resolves dot segments", "/a/./b/../c", "/a/c"},
	{"Normalizes the empty path to root", "", "/"},
	{"Normalizes dot to root", ".", "/"},
}

func TestNormalize(t *testing.T) {
	for _, tt := range normalizeTests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

var splitTests = []struct {
	name       string
	in         string
	wantParent string
	wantBase   string
}{
	{"Splits a nested path", "/a/b/c.txt", "/a/b", "c.txt"},
	{"Splits a top-level path", "/a", "/", "a"},
	{"Splits the root into an empty base", "/", "/", ""},
}

func TestSplit(t *testing.T) {
	for _, tt := range splitTests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			parent, base := Split(tt.in)
			if parent != tt.wantParent || base != tt.wantBase {
				t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", tt.in, parent, base, tt.wantParent, tt.wantBase)
			}
		})
	}
}

var componentsTests = []struct {
	name string
	in   string
	want []string
}{
	{"Splits a nested path into components", "/a/b/c", []string{"a", "b", "c"}},
	{"Root has no components", "/", []string{}},
	{"Empty path has no components", "", []string{}},
}

func TestComponents(t *testing.T) {
	for _, tt := range componentsTests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := Components(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Components(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

var isRootTests = []struct {
	name string
	in   string
	trim bool
	want bool
}{
	{"Slash is root", "/", false, true},
	{"Dot is root", ".", false, true},
	{"Empty is root", "", false, true},
	{"Whitespace is root when trimmed", "   ", true, true},
	{"Whitespace is not root untrimmed", "   ", false, false},
	{"A path is not root", "/a", true, false},
}

func TestIsRoot(t *testing.T) {
	for _, tt := range isRootTests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := IsRoot(tt.in, tt.trim); got != tt.want {
				t.Errorf("IsRoot(%q, %v) = %v, want %v", tt.in, tt.trim, got, tt.want)
			}
		})
	}
}
