package semtag

import (
	"fmt"
	"strings"
)

// Tag is a git tag name made of an optional prefix, a Version and an
// optional suffix, e.g. "v1.2.3" or "v1.2.4.dev.1-linux".
type Tag struct {
	Version Version
	Prefix  string
	Suffix  string
}

// NewTag creates a tag for version.
func NewTag(version *Version, prefix, suffix string) (Tag, error) {
	if version == nil {
		return Tag{}, ErrNullVersion
	}
	return Tag{Version: *version, Prefix: prefix, Suffix: suffix}, nil
}

// ParseTag parses a tag name, stripping prefix and suffix when they are set.
// The suffix is located at its first occurrence after the prefix.
func ParseTag(name, prefix, suffix string) (Tag, error) {
	if strings.TrimSpace(name) == "" {
		return Tag{}, fmt.Errorf("tag: %w", ErrBlankInput)
	}

	hasPrefix := strings.TrimSpace(prefix) != ""
	hasSuffix := strings.TrimSpace(suffix) != ""

	if hasPrefix && !strings.HasPrefix(name, prefix) {
		return Tag{}, fmt.Errorf("%w %q: %q", ErrMissingPrefix, prefix, name)
	}
	if hasSuffix && !strings.HasSuffix(name, suffix) {
		return Tag{}, fmt.Errorf("%w %q: %q", ErrMissingSuffix, suffix, name)
	}

	rest := name
	if hasPrefix {
		rest = rest[len(prefix):]
	}
	if hasSuffix {
		if i := strings.Index(rest, suffix); i >= 0 {
			rest = rest[:i]
		}
	}

	version, err := ParseVersion(rest)
	if err != nil {
		return Tag{}, fmt.Errorf("parsing tag %q: %w", name, err)
	}

	return Tag{Version: version, Prefix: prefix, Suffix: suffix}, nil
}

// Bump returns the tag with its version bumped by severity.
func (t Tag) Bump(severity Severity) Tag {
	t.Version = t.Version.Bump(severity)
	return t
}

// BumpPrerelease returns the tag with its prerelease number incremented.
func (t Tag) BumpPrerelease() (Tag, error) {
	version, err := t.Version.BumpPrerelease()
	if err != nil {
		return Tag{}, err
	}
	t.Version = version
	return t, nil
}

// Compare orders tags by prefix, then version, then suffix. Any tag is
// greater than a nil tag.
func (t Tag) Compare(other *Tag) int {
	if other == nil {
		return 1
	}
	if c := strings.Compare(t.Prefix, other.Prefix); c != 0 {
		return c
	}
	if c := t.Version.Compare(other.Version); c != 0 {
		return c
	}
	return strings.Compare(t.Suffix, other.Suffix)
}

// Equal reports whether both tags have the same prefix, version and suffix.
func (t Tag) Equal(other Tag) bool {
	return t == other
}

// String renders the tag name.
func (t Tag) String() string {
	return t.Prefix + t.Version.String() + t.Suffix
}
