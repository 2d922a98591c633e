package index

import (
	"encoding/xml"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/internal/converters"
	"github.com/pojntfx/dltfs/pkg/config"
)

// Label is the ltfslabel document written at the start of each partition
// when media is initialized. It identifies the volume and the partition
// layout; the index proper lives behind the first filemark.
type Label struct {
	XMLName xml.Name `xml:"ltfslabel"`
	Version string   `xml:"version,attr"`

	Creator    string `xml:"creator"`
	FormatTime string `xml:"formattime"`
	VolumeUUID string `xml:"volumeuuid"`

	Location LabelLocation `xml:"location"`

	Partitions LabelPartitions `xml:"partitions"`

	BlockSize   uint64 `xml:"blocksize"`
	Compression bool   `xml:"compression"`
}

type LabelLocation struct {
	Partition string `xml:"partition"`
}

type LabelPartitions struct {
	Index string `xml:"index"`
	Data  string `xml:"data"`
}

// NewLabel builds the label for one partition of a freshly formatted
// volume.
func NewLabel(creator string, volumeUUID string, partition uint8, now time.Time) *Label {
	return &Label{
		Version: config.LTFSVersion,

		Creator:    creator,
		FormatTime: converters.FormatLTFSTime(now),
		VolumeUUID: volumeUUID,

		Location: LabelLocation{
			Partition: PartitionLabel(partition),
		},

		Partitions: LabelPartitions{
			Index: config.PartitionLabelIndex,
			Data:  config.PartitionLabelData,
		},

		BlockSize: config.BlockSize,
	}
}

func SerializeLabel(label *Label) ([]byte, error) {
	body, err := xml.MarshalIndent(label, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(config.ErrStructuralInvalid, "label does not serialize: %v", err)
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}
