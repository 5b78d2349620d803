package semtag

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blang/semver"
)

var versionRe = regexp.MustCompile(`^(\d+\.){2}\d+(\.[A-Za-z]+\.\d+)?$`)

// First is the version assigned when a repository has no release tag yet.
var First = NewVersion(0, 1, 0)

// Version is an immutable major.minor.patch version with an optional
// prerelease channel and number, rendered as "1.2.3" or "1.2.3.dev.4".
type Version struct {
	major      uint16
	minor      uint16
	patch      uint16
	prerelease bool
	channel    string
	number     uint16
}

// NewVersion creates a release version.
func NewVersion(major, minor, patch uint16) Version {
	return Version{major: major, minor: minor, patch: patch}
}

// NewPrereleaseVersion creates a prerelease version on the given channel.
func NewPrereleaseVersion(major, minor, patch uint16, channel string, number uint16) (Version, error) {
	if strings.TrimSpace(channel) == "" {
		return Version{}, fmt.Errorf("prerelease channel: %w", ErrBlankInput)
	}
	if number == 0 {
		return Version{}, ErrPrereleaseNumberZero
	}

	return Version{
		major:      major,
		minor:      minor,
		patch:      patch,
		prerelease: true,
		channel:    channel,
		number:     number,
	}, nil
}

// ParseVersion parses "major.minor.patch" or "major.minor.patch.channel.number".
func ParseVersion(value string) (Version, error) {
	if strings.TrimSpace(value) == "" {
		return Version{}, fmt.Errorf("version: %w", ErrBlankInput)
	}
	if !versionRe.MatchString(value) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}

	parts := strings.Split(value, ".")

	var nums [3]uint16
	for i := range nums {
		n, err := parseComponent(parts[i])
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, value, err)
		}
		nums[i] = n
	}

	if len(parts) == 3 {
		return NewVersion(nums[0], nums[1], nums[2]), nil
	}

	number, err := parseComponent(parts[4])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, value, err)
	}

	v, err := NewPrereleaseVersion(nums[0], nums[1], nums[2], parts[3], number)
	if err != nil {
		return Version{}, fmt.Errorf("parsing %q: %w", value, err)
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(value string) Version {
	v, err := ParseVersion(value)
	if err != nil {
		panic(err)
	}
	return v
}

func parseComponent(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}

func (v Version) Major() uint16 { return v.major }

func (v Version) Minor() uint16 { return v.minor }

func (v Version) Patch() uint16 { return v.patch }

// IsPrerelease reports whether the version carries a prerelease channel.
func (v Version) IsPrerelease() bool { return v.prerelease }

// PrereleaseChannel returns the channel, or "" for release versions.
func (v Version) PrereleaseChannel() string { return v.channel }

// PrereleaseNumber returns the prerelease number, or 0 for release versions.
func (v Version) PrereleaseNumber() uint16 { return v.number }

// Bump returns the version incremented according to severity. A prerelease
// keeps its channel and restarts at number 1, even for SeverityNone.
func (v Version) Bump(severity Severity) Version {
	next := v

	switch severity {
	case SeverityMajor:
		next.major++
		next.minor = 0
		next.patch = 0
	case SeverityMinor:
		next.minor++
		next.patch = 0
	case SeverityPatch:
		next.patch++
	}

	if next.prerelease {
		next.number = 1
	}

	return next
}

// BumpPrerelease returns the version with its prerelease number incremented.
func (v Version) BumpPrerelease() (Version, error) {
	if !v.prerelease {
		return Version{}, fmt.Errorf("%w: %s", ErrNotAPrerelease, v)
	}

	next := v
	next.number++
	return next, nil
}

// SameRelease reports whether both versions share major, minor and patch.
func (v Version) SameRelease(other Version) bool {
	return v.major == other.major && v.minor == other.minor && v.patch == other.patch
}

// Compare orders versions by major, minor and patch, then by prerelease
// channel and number. A prerelease sorts before the release of the same
// major.minor.patch.
func (v Version) Compare(other Version) int {
	if c := compareUint16(v.major, other.major); c != 0 {
		return c
	}
	if c := compareUint16(v.minor, other.minor); c != 0 {
		return c
	}
	if c := compareUint16(v.patch, other.patch); c != 0 {
		return c
	}

	switch {
	case v.prerelease && !other.prerelease:
		return -1
	case !v.prerelease && other.prerelease:
		return 1
	case !v.prerelease:
		return 0
	}

	if c := strings.Compare(v.channel, other.channel); c != 0 {
		return c
	}
	return compareUint16(v.number, other.number)
}

// Equal reports whether both versions have identical fields.
func (v Version) Equal(other Version) bool {
	return v == other
}

func (v Version) String() string {
	if v.prerelease {
		return fmt.Sprintf("%d.%d.%d.%s.%d", v.major, v.minor, v.patch, v.channel, v.number)
	}
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// SemVer converts the version into a semver 2.0 value, mapping the
// prerelease channel and number to prerelease identifiers (1.2.4-dev.2).
func (v Version) SemVer() semver.Version {
	sv := semver.Version{
		Major: uint64(v.major),
		Minor: uint64(v.minor),
		Patch: uint64(v.patch),
	}

	if v.prerelease {
		sv.Pre = []semver.PRVersion{
			{VersionStr: v.channel},
			{VersionNum: uint64(v.number), IsNum: true},
		}
	}

	return sv
}

func compareUint16(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
