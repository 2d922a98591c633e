// Package index models the LTFS index, the XML document describing a
// tape's directory tree and file-to-block mappings.
package index

import (
	"encoding/xml"
	"time"

	"github.com/google/uuid"
	"github.com/pojntfx/dltfs/internal/converters"
	"github.com/pojntfx/dltfs/pkg/config"
)

// HashAttributeKey is the extended attribute carrying a file's content
// hash, compatible with existing LTFS tooling.
const HashAttributeKey = "ltfs.hash.sha1sum"

type Index struct {
	XMLName xml.Name `xml:"ltfsindex"`
	Version string   `xml:"version,attr"`

	Creator    string `xml:"creator"`
	VolumeUUID string `xml:"volumeuuid"`
	// GenerationNumber increments every time the index is rewritten to
	// tape.
	GenerationNumber uint64 `xml:"generationnumber"`
	UpdateTime       string `xml:"updatetime"`

	// Location describes where this index generation itself resides.
	Location                   Location  `xml:"location"`
	PreviousGenerationLocation *Location `xml:"previousgenerationlocation,omitempty"`

	AllowPolicyUpdate bool `xml:"allowpolicyupdate"`

	// HighestFileUID is the allocation counter; it is always at least the
	// largest identifier present anywhere in the tree.
	HighestFileUID uint64 `xml:"highestfileuid"`

	Root Directory `xml:"directory"`
}

type Location struct {
	Partition  string `xml:"partition"`
	StartBlock uint64 `xml:"startblock"`
}

type Directory struct {
	Name string `xml:"name"`
	UID  uint64 `xml:"fileuid"`

	CreationTime string `xml:"creationtime"`
	ChangeTime   string `xml:"changetime"`
	ModifyTime   string `xml:"modifytime"`
	AccessTime   string `xml:"accesstime"`
	BackupTime   string `xml:"backuptime"`

	ReadOnly bool `xml:"readonly"`

	Contents Contents `xml:"contents"`
}

type Contents struct {
	Directories []Directory `xml:"directory"`
	Files       []File      `xml:"file"`
}

type File struct {
	Name string `xml:"name"`
	UID  uint64 `xml:"fileuid"`

	Length uint64 `xml:"length"`

	CreationTime string `xml:"creationtime"`
	ChangeTime   string `xml:"changetime"`
	ModifyTime   string `xml:"modifytime"`
	AccessTime   string `xml:"accesstime"`
	BackupTime   string `xml:"backuptime"`

	ReadOnly bool `xml:"readonly"`

	Symlink string `xml:"symlink,omitempty"`

	// Extents ordered by file offset tile [0, Length) contiguously.
	Extents []Extent `xml:"extentinfo"`

	ExtendedAttributes *ExtendedAttributes `xml:"extendedattributes,omitempty"`
}

type Extent struct {
	// Partition is the one-letter partition label, "a" or "b".
	Partition  string `xml:"partition"`
	StartBlock uint64 `xml:"startblock"`
	// ByteCount is the true data length of this extent, never the padded
	// block size.
	ByteCount uint64 `xml:"bytecount"`
	// FileOffset is the offset within the file this extent continues from.
	FileOffset uint64 `xml:"fileoffset"`
	// ByteOffset is the offset within the start block where the data
	// begins.
	ByteOffset uint64 `xml:"byteoffset"`
}

type ExtendedAttributes struct {
	Attributes []ExtendedAttribute `xml:"xattr"`
}

type ExtendedAttribute struct {
	Key   string `xml:"key"`
	Value string `xml:"value"`
}

// PartitionLabel maps a partition index to its one-letter label.
func PartitionLabel(partition uint8) string {
	if partition == config.DataPartition {
		return config.PartitionLabelData
	}

	return config.PartitionLabelIndex
}

// PartitionIndex maps a one-letter label back to the partition index.
func PartitionIndex(label string) uint8 {
	if label == config.PartitionLabelData {
		return config.DataPartition
	}

	return config.IndexPartition
}

// NewIndex formats a fresh, empty index for blank media.
func NewIndex(creator string, now time.Time) *Index {
	timestamp := converters.FormatLTFSTime(now)

	return &Index{
		Version: config.LTFSVersion,

		Creator:          creator,
		VolumeUUID:       uuid.New().String(),
		GenerationNumber: 1,
		UpdateTime:       timestamp,

		Location: Location{
			Partition:  config.PartitionLabelIndex,
			StartBlock: 0,
		},

		HighestFileUID: config.RootUID,

		Root: Directory{
			Name: "",
			UID:  config.RootUID,

			CreationTime: timestamp,
			ChangeTime:   timestamp,
			ModifyTime:   timestamp,
			AccessTime:   timestamp,
			BackupTime:   timestamp,
		},
	}
}

func (f *File) Hash() string {
	if f.ExtendedAttributes == nil {
		return ""
	}

	for _, attribute := range f.ExtendedAttributes.Attributes {
		if attribute.Key == HashAttributeKey {
			return attribute.Value
		}
	}

	return ""
}

func (f *File) SetHash(hash string) {
	if f.ExtendedAttributes == nil {
		f.ExtendedAttributes = &ExtendedAttributes{}
	}

	for i, attribute := range f.ExtendedAttributes.Attributes {
		if attribute.Key == HashAttributeKey {
			f.ExtendedAttributes.Attributes[i].Value = hash

			return
		}
	}

	f.ExtendedAttributes.Attributes = append(f.ExtendedAttributes.Attributes, ExtendedAttribute{
		Key:   HashAttributeKey,
		Value: hash,
	})
}
