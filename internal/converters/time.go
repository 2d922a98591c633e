package converters

import (
	"regexp"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
)

// LTFS timestamps are UTC with exactly nine fractional digits, e.g.
// 2022-01-02T15:04:05.000000000Z.
const ltfsTimeLayout = "2006-01-02T15:04:05.000000000"

var ltfsTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{9}Z$`)

func FormatLTFSTime(t time.Time) string {
	return t.UTC().Format(ltfsTimeLayout) + "Z"
}

func ParseLTFSTime(timestamp string) (time.Time, error) {
	if !ltfsTimePattern.MatchString(timestamp) {
		return time.Time{}, errors.Wrapf(config.ErrStructuralInvalid, "timestamp %q does not match the LTFS format", timestamp)
	}

	t, err := time.Parse(ltfsTimeLayout, strings.TrimSuffix(timestamp, "Z"))
	if err != nil {
		return time.Time{}, errors.Wrapf(config.ErrStructuralInvalid, "timestamp %q does not parse: %v", timestamp, err)
	}

	return t.UTC(), nil
}
