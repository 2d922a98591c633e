package index

import (
	"encoding/xml"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
)

// Serialize encodes an index for writing to tape. The output never
// contains the legacy wrapper tags that Parse strips; the transformation
// is deliberately asymmetric.
func Serialize(index *Index) ([]byte, error) {
	if err := Validate(index); err != nil {
		return nil, err
	}

	body, err := xml.MarshalIndent(index, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(config.ErrStructuralInvalid, "index does not serialize: %v", err)
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}
