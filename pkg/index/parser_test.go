package index

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/pojntfx/dltfs/pkg/config"
)

func testIndex(t *testing.T) *Index {
	t.Helper()

	now := time.Date(2021, 11, 27, 14, 0, 0, 0, time.UTC)

	idx := NewIndex("parser-test", now)
	if err := idx.AddFile("/movies/film.mkv", File{
		Length: 1000,

		CreationTime: "2021-11-27T14:00:00.000000000Z",
		ChangeTime:   "2021-11-27T14:00:00.000000000Z",
		ModifyTime:   "2021-11-27T14:00:00.000000000Z",
		AccessTime:   "2021-11-27T14:00:00.000000000Z",
		BackupTime:   "2021-11-27T14:00:00.000000000Z",

		Extents: []Extent{
			{Partition: "b", StartBlock: 2, ByteCount: 1000, FileOffset: 0, ByteOffset: 0},
		},
	}, now); err != nil {
		t.Fatal(err)
	}

	return idx
}

func TestSerializeParseRoundTrip(t *testing.T) {
	idx := testIndex(t)

	raw, err := Serialize(idx)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	reserialized, err := Serialize(parsed)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(raw, reserialized) {
		t.Error("index changed across a serialize/parse round trip")
	}
}

func TestParseStripsLegacyWrapperTags(t *testing.T) {
	raw := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<ltfsindex version="2.4.0">
  <creator>legacy-writer</creator>
  <volumeuuid>0f8fad5b-d9cb-469f-a165-70867728950e</volumeuuid>
  <generationnumber>4</generationnumber>
  <updatetime>2021-11-27T14:00:00.000000000Z</updatetime>
  <location><partition>a</partition><startblock>2</startblock></location>
  <allowpolicyupdate>false</allowpolicyupdate>
  <highestfileuid>3</highestfileuid>
  <directory>
    <name></name>
    <fileuid>1</fileuid>
    <creationtime>2021-11-27T14:00:00.000000000Z</creationtime>
    <changetime>2021-11-27T14:00:00.000000000Z</changetime>
    <modifytime>2021-11-27T14:00:00.000000000Z</modifytime>
    <accesstime>2021-11-27T14:00:00.000000000Z</accesstime>
    <backuptime>2021-11-27T14:00:00.000000000Z</backuptime>
    <readonly>false</readonly>
    <contents>
      <_directory><directory>
        <name>docs</name>
        <fileuid>2</fileuid>
        <creationtime>2021-11-27T14:00:00.000000000Z</creationtime>
        <changetime>2021-11-27T14:00:00.000000000Z</changetime>
        <modifytime>2021-11-27T14:00:00.000000000Z</modifytime>
        <accesstime>2021-11-27T14:00:00.000000000Z</accesstime>
        <backuptime>2021-11-27T14:00:00.000000000Z</backuptime>
        <readonly>false</readonly>
        <contents>
          <_file><file>
            <name>readme.txt</name>
            <fileuid>3</fileuid>
            <length>5</length>
            <creationtime>2021-11-27T14:00:00.000000000Z</creationtime>
            <changetime>2021-11-27T14:00:00.000000000Z</changetime>
            <modifytime>2021-11-27T14:00:00.000000000Z</modifytime>
            <accesstime>2021-11-27T14:00:00.000000000Z</accesstime>
            <backuptime>2021-11-27T14:00:00.000000000Z</backuptime>
            <readonly>false</readonly>
            <extentinfo>
              <partition>b</partition>
              <startblock>7</startblock>
              <bytecount>5</bytecount>
              <fileoffset>0</fileoffset>
              <byteoffset>0</byteoffset>
            </extentinfo>
          </file></_file>
        </contents>
      </directory></_directory>
    </contents>
  </directory>
</ltfsindex>`)

	idx, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	file, _, err := idx.Lookup("/docs/readme.txt")
	if err != nil {
		t.Fatal(err)
	}
	if file.Length != 5 {
		t.Errorf("length = %v, want 5", file.Length)
	}
}

func TestSerializeNeverEmitsWrapperTags(t *testing.T) {
	raw, err := Serialize(testIndex(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, tag := range legacyWrapperTags {
		if bytes.Contains(raw, []byte(tag)) {
			t.Errorf("serialized index contains legacy wrapper tag %q", tag)
		}
	}
}

func TestParseToleratesLeadingVolumeLabel(t *testing.T) {
	idx := testIndex(t)

	raw, err := Serialize(idx)
	if err != nil {
		t.Fatal(err)
	}

	prefixed := append([]byte("VOL1 LTFS volume label padding\x00\x00\x00"), raw...)

	parsed, err := Parse(prefixed)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.GenerationNumber != idx.GenerationNumber {
		t.Errorf("generation = %v, want %v", parsed.GenerationNumber, idx.GenerationNumber)
	}
}

func TestParseRejectsMissingRootElement(t *testing.T) {
	if _, err := Parse([]byte("no index here")); !errors.Is(err, config.ErrStructuralInvalid) {
		t.Errorf("err = %v, want ErrStructuralInvalid", err)
	}
}

func TestValidateShapeRejectsTruncatedDocument(t *testing.T) {
	raw, err := Serialize(testIndex(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := ValidateShape(raw[:len(raw)/2]); !errors.Is(err, config.ErrStructuralInvalid) {
		t.Errorf("err = %v, want ErrStructuralInvalid", err)
	}
}
