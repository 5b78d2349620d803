// Package semtag computes the next semantic version of a Git repository from
// its conventional commit history and renders it as a tag name.
package semtag

// Options configures how tags are selected and how the next tag is named
type Options struct {
	// Prerelease computes the next prerelease tag on Channel instead of a release tag
	Prerelease bool

	// Channel is the prerelease channel (e.g., "dev"), usually the branch name
	Channel string

	// Prefix is prepended to the version in tag names (e.g., "v")
	Prefix string

	// Suffix is appended to the version in tag names
	Suffix string

	// TagFilter allows filtering which tags to consider
	TagFilter func(string) bool

	// TagPattern is a regex pattern to filter tags (alternative to TagFilter)
	TagPattern string

	// SkipInvalidTags ignores annotated tags that don't parse with Prefix and Suffix
	// instead of failing
	SkipInvalidTags bool
}

// Commit is a commit as read from the repository log
type Commit struct {
	SHA string
	// Message is the first line of the commit message
	Message string
	// MessageFull is the complete commit message including body and footers
	MessageFull string
}

// TagRef is a tag as found in the repository
type TagRef struct {
	Name      string
	Annotated bool
	// Target is the SHA of the tagged commit
	Target string
}

// Snapshot holds the commits reachable from HEAD, newest first, and all
// tags of a repository
type Snapshot struct {
	Commits []Commit
	Tags    []TagRef
}
