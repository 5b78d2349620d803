package semtag

import "errors"

// Errors returned by version and tag parsing, construction and bumping.
var (
	// ErrBlankInput indicates a required string was empty or whitespace.
	ErrBlankInput = errors.New("value cannot be blank")

	// ErrInvalidFormat indicates a string did not match the version grammar.
	ErrInvalidFormat = errors.New("invalid version format")

	// ErrMissingPrefix indicates a tag name did not start with the configured prefix.
	ErrMissingPrefix = errors.New("tag is missing prefix")

	// ErrMissingSuffix indicates a tag name did not end with the configured suffix.
	ErrMissingSuffix = errors.New("tag is missing suffix")

	// ErrNotAPrerelease indicates a prerelease bump was requested on a release version.
	ErrNotAPrerelease = errors.New("version is not a prerelease")

	// ErrPrereleaseNumberZero indicates a prerelease number of zero.
	ErrPrereleaseNumberZero = errors.New("prerelease number must be at least 1")

	// ErrNullVersion indicates a tag was created without a version.
	ErrNullVersion = errors.New("version is required")
)
