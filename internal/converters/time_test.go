package converters

import (
	"testing"
	"time"
)

func TestFormatLTFSTimeHasNineFractionalDigits(t *testing.T) {
	in := time.Date(2021, 11, 27, 14, 5, 6, 123, time.UTC)

	got := FormatLTFSTime(in)
	want := "2021-11-27T14:05:06.000000123Z"

	if got != want {
		t.Errorf("FormatLTFSTime() = %q, want %q", got, want)
	}
}

func TestFormatLTFSTimeConvertsToUTC(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2021, 11, 27, 16, 0, 0, 0, zone)

	got := FormatLTFSTime(in)
	want := "2021-11-27T14:00:00.000000000Z"

	if got != want {
		t.Errorf("FormatLTFSTime() = %q, want %q", got, want)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	in := time.Date(2021, 11, 27, 14, 5, 6, 999999999, time.UTC)

	parsed, err := ParseLTFSTime(FormatLTFSTime(in))
	if err != nil {
		t.Fatal(err)
	}

	if !parsed.Equal(in) {
		t.Errorf("round trip changed %v to %v", in, parsed)
	}
}

var parseRejectionTests = []struct {
	name string
	in   string
}{
	{"Rejects a missing fraction", "2021-11-27T14:00:00Z"},
	{"Rejects a short fraction", "2021-11-27T14:00:00.000Z"},
	{"Rejects a long fraction", "2021-11-27T14:00:00.0000000000Z"},
	{"Rejects a missing zone", "2021-11-27T14:00:00.000000000"},
	{"Rejects a numeric zone offset", "2021-11-27T14:00:00.000000000+02:00"},
	{"Rejects an empty string", ""},
	{"Rejects an impossible date", "2021-13-41T14:00:00.000000000Z"},
}

func TestParseLTFSTimeRejections(t *testing.T) {
	for _, tt := range parseRejectionTests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLTFSTime(tt.in); err == nil {
				t.Errorf("ParseLTFSTime(%q) accepted an invalid timestamp", tt.in)
			}
		})
	}
}
