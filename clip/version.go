package clip

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Version is a schema version in hundredths: 43 is "0.43".
type Version int

const (
	// VersionLegacyArena is the first version that stores the flat arena.
	VersionLegacyArena Version = 43
	// CurrentVersion is the version every upgrade ends at.
	CurrentVersion Version = 46
)

// ParseVersion reads the decimal form used in documents ("0.43").
func ParseVersion(s string) (Version, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("clip: parse version %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("clip: negative version %q", s)
	}
	return Version(math.Round(f * 100)), nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%02d", int(v)/100, int(v)%100)
}

func (v Version) Float() float64 {
	return float64(v) / 100
}
