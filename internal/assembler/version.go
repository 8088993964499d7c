package assembler

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Version is an assembler version. The zero value is NoVersion.
type Version struct {
	Major int
	Minor int
	Patch int

	valid bool
}

// NoVersion is the version of an assembler that could not be detected,
// it sorts lower than any valid version.
var NoVersion = Version{}

var errInvalidVersion = errors.New("invalid version")

// NewVersion returns a valid version.
func NewVersion(major, minor, patch int) Version {
	return Version{
		Major: major,
		Minor: minor,
		Patch: patch,
		valid: true,
	}
}

// ParseVersion parses a version string like "2.18" or "0.96.4". A leading
// 'v' and trailing text after the numeric part are ignored.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")

	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	numeric := strings.TrimSuffix(s[:end], ".")
	if numeric == "" {
		return NoVersion, fmt.Errorf("%w '%s'", errInvalidVersion, s)
	}

	parts := strings.Split(numeric, ".")
	if len(parts) > 3 {
		return NoVersion, fmt.Errorf("%w '%s'", errInvalidVersion, s)
	}

	var numbers [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return NoVersion, fmt.Errorf("parsing version part '%s': %w", part, err)
		}
		numbers[i] = n
	}
	return NewVersion(numbers[0], numbers[1], numbers[2]), nil
}

// IsValid returns whether the version is known.
func (v Version) IsValid() bool {
	return v.valid
}

// Compare returns -1, 0 or +1 depending on whether v is lower, equal or
// higher than the other version.
func (v Version) Compare(other Version) int {
	if v.valid != other.valid {
		if v.valid {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, other.Patch)
}

// Less returns whether v is lower than the other version.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) String() string {
	if !v.valid {
		return "unknown"
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
