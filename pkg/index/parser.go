package index

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
)

const (
	indexOpenTag  = "<ltfsindex"
	indexCloseTag = "</ltfsindex>"
)

// Some third-party writers wrap every directory and file element in an
// extra pass-through tag pair, an artifact of XML serialization libraries
// that need explicit collection markers. The wrappers carry no semantic
// content and are stripped textually before structural parsing. They are
// never re-emitted on serialization.
var legacyWrapperTags = []string{
	"<_directory>",
	"</_directory>",
	"<_file>",
	"</_file>",
}

// Parse decodes and validates raw index XML as read from tape. The raw
// bytes may carry a leading volume label section; only the index section
// is parsed.
func Parse(raw []byte) (*Index, error) {
	section, err := extractIndexSection(raw)
	if err != nil {
		return nil, err
	}

	section = stripLegacyWrappers(section)

	index := &Index{}
	if err := xml.Unmarshal(section, index); err != nil {
		return nil, errors.Wrapf(config.ErrStructuralInvalid, "index XML does not parse: %v", err)
	}

	// Keep parsed and hand-built indexes structurally comparable
	index.XMLName = xml.Name{}

	if err := Validate(index); err != nil {
		return nil, err
	}

	return index, nil
}

// ValidateShape cheaply checks that a candidate byte blob looks like a
// well-formed index document, without building the tree. The locator uses
// it to reject garbage reads before committing to a strategy.
func ValidateShape(raw []byte) error {
	section, err := extractIndexSection(raw)
	if err != nil {
		return err
	}

	section = stripLegacyWrappers(section)

	decoder := xml.NewDecoder(bytes.NewReader(section))
	for {
		if _, err := decoder.Token(); err != nil {
			if err == io.EOF {
				return nil
			}

			return errors.Wrapf(config.ErrStructuralInvalid, "index XML is not well-formed: %v", err)
		}
	}
}

func extractIndexSection(raw []byte) ([]byte, error) {
	start := bytes.Index(raw, []byte(indexOpenTag))
	if start < 0 {
		return nil, errors.Wrap(config.ErrStructuralInvalid, "missing ltfsindex root element")
	}

	end := bytes.Index(raw[start:], []byte(indexCloseTag))
	if end < 0 {
		return nil, errors.Wrap(config.ErrStructuralInvalid, "ltfsindex element is not closed")
	}

	return raw[start : start+end+len(indexCloseTag)], nil
}

func stripLegacyWrappers(section []byte) []byte {
	s := string(section)
	for _, tag := range legacyWrapperTags {
		s = strings.ReplaceAll(s, tag, "")
	}

	return []byte(s)
}
