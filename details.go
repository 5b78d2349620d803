package semtag

import (
	"fmt"
	"regexp"
	"strings"
)

// Details holds the release state of a repository: the latest release tag,
// the latest prerelease tag on the configured channel, and the commits made
// since the reference tag.
type Details struct {
	opts       Options
	latest     *Tag
	latestPre  *Tag
	commits    []Commit
	tagsByHash map[string][]TagRef
}

// NewDetails computes release details from a repository snapshot.
func NewDetails(snapshot Snapshot, opts Options) (*Details, error) {
	if opts.Prerelease && strings.TrimSpace(opts.Channel) == "" {
		return nil, fmt.Errorf("prerelease channel: %w", ErrBlankInput)
	}

	// Apply tag pattern filter if specified
	if opts.TagPattern != "" && opts.TagFilter == nil {
		re, err := regexp.Compile(opts.TagPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid tag pattern: %w", err)
		}
		opts.TagFilter = func(tag string) bool {
			return re.MatchString(tag)
		}
	}

	d := &Details{
		opts:       opts,
		tagsByHash: make(map[string][]TagRef),
	}
	for _, ref := range snapshot.Tags {
		d.tagsByHash[ref.Target] = append(d.tagsByHash[ref.Target], ref)
	}

	tags, err := parseAnnotatedTags(snapshot.Tags, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing tags: %w", err)
	}

	d.latest = maxTag(tags, func(t Tag) bool {
		return !t.Version.IsPrerelease()
	})

	reference := d.latest
	if opts.Prerelease {
		d.latestPre = maxTag(tags, func(t Tag) bool {
			return t.Version.IsPrerelease() && t.Version.PrereleaseChannel() == opts.Channel
		})
		reference = d.latestPre
	}

	d.commits = d.commitsSince(snapshot.Commits, reference)

	return d, nil
}

func parseAnnotatedTags(refs []TagRef, opts Options) ([]Tag, error) {
	var tags []Tag
	for _, ref := range refs {
		if !ref.Annotated {
			continue
		}
		if opts.TagFilter != nil && !opts.TagFilter(ref.Name) {
			continue
		}

		tag, err := ParseTag(ref.Name, opts.Prefix, opts.Suffix)
		if err != nil {
			if opts.SkipInvalidTags {
				continue
			}
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func maxTag(tags []Tag, keep func(Tag) bool) *Tag {
	var best *Tag
	for i := range tags {
		if !keep(tags[i]) {
			continue
		}
		if tags[i].Compare(best) > 0 {
			best = &tags[i]
		}
	}
	return best
}

// commitsSince walks commits newest first and stops at the commit carrying
// the reference tag, which is excluded.
func (d *Details) commitsSince(commits []Commit, reference *Tag) []Commit {
	if reference == nil {
		return commits
	}

	name := reference.String()
	for i, c := range commits {
		for _, ref := range d.tagsByHash[c.SHA] {
			if ref.Annotated && ref.Name == name {
				return commits[:i]
			}
		}
	}
	return commits
}

// Options returns the options the details were computed with.
func (d *Details) Options() Options { return d.opts }

// LatestTag returns the highest release tag, or nil if there is none.
func (d *Details) LatestTag() *Tag { return d.latest }

// LatestPrereleaseTag returns the highest prerelease tag on the configured
// channel, or nil if there is none or prerelease mode is off.
func (d *Details) LatestPrereleaseTag() *Tag { return d.latestPre }

// Commits returns the commits made since the reference tag, newest first.
func (d *Details) Commits() []Commit { return d.commits }

// Severity returns the highest severity among Commits.
func (d *Details) Severity() Severity { return Aggregate(d.commits) }

// BumpTag returns the next tag, or nil when no commit since the latest
// release warrants one.
func (d *Details) BumpTag() (*Tag, error) {
	if d.opts.Prerelease {
		return d.bumpPrereleaseTag()
	}

	if d.latest == nil {
		return &Tag{Version: First, Prefix: d.opts.Prefix, Suffix: d.opts.Suffix}, nil
	}

	severity := d.Severity()
	if severity == SeverityNone {
		return nil, nil
	}

	next := d.latest.Bump(severity)
	return &next, nil
}

func (d *Details) bumpPrereleaseTag() (*Tag, error) {
	base := First
	if d.latest != nil {
		base = d.latest.Version
	}

	if d.latestPre == nil {
		version, err := ParseVersion(fmt.Sprintf("%s.%s.1", base, d.opts.Channel))
		if err != nil {
			return nil, fmt.Errorf("starting prerelease on channel %q: %w", d.opts.Channel, err)
		}
		return &Tag{Version: version, Prefix: d.opts.Prefix, Suffix: d.opts.Suffix}, nil
	}

	severity := d.Severity()

	target := First
	if d.latest != nil {
		target = d.latest.Version.Bump(severity)
	}

	if severity != SeverityNone && target.SameRelease(d.latestPre.Version) {
		next, err := d.latestPre.BumpPrerelease()
		if err != nil {
			return nil, err
		}
		return &next, nil
	}

	next := d.latestPre.Bump(severity)
	return &next, nil
}
