package semtag

import (
	"regexp"
	"strings"
)

// Severity is the size of release implied by one or more commits.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityPatch
	SeverityMinor
	SeverityMajor
)

func (s Severity) String() string {
	switch s {
	case SeverityPatch:
		return "patch"
	case SeverityMinor:
		return "minor"
	case SeverityMajor:
		return "major"
	default:
		return "none"
	}
}

const breakingFooter = "\n\nBREAKING CHANGE: "

var (
	breakingSubjectRe = regexp.MustCompile(`^[A-Za-z]+(\(.+\))?!:\s`)
	typedSubjectRe    = regexp.MustCompile(`^[A-Za-z]+(\(.+\))?:\s`)
	commitTypeRe      = regexp.MustCompile(`^[A-Za-z]+`)
)

// commitTypes maps conventional commit types to the release they imply.
// Types not listed here imply no release.
var commitTypes = map[string]Severity{
	"feat":     SeverityMinor,
	"fix":      SeverityPatch,
	"revert":   SeverityPatch,
	"docs":     SeverityPatch,
	"refactor": SeverityPatch,
	"perf":     SeverityPatch,
	"build":    SeverityPatch,
	"ci":       SeverityPatch,
	"style":    SeverityNone,
	"test":     SeverityNone,
	"chore":    SeverityNone,
}

// IsBreaking reports whether the commit is marked breaking, either with "!"
// before the colon of its subject or with a BREAKING CHANGE footer.
func IsBreaking(c Commit) bool {
	return breakingSubjectRe.MatchString(c.Message) || strings.Contains(c.MessageFull, breakingFooter)
}

// CommitType extracts the conventional commit type from a subject line,
// dropping any scope. It returns "" when the subject is not conventional.
func CommitType(subject string) string {
	match := typedSubjectRe.FindString(subject)
	if match == "" {
		return ""
	}
	return commitTypeRe.FindString(match)
}

// Classify returns the release severity implied by a single commit.
func Classify(c Commit) Severity {
	if IsBreaking(c) {
		return SeverityMajor
	}
	return commitTypes[CommitType(c.Message)]
}

// Aggregate returns the highest severity across commits.
func Aggregate(commits []Commit) Severity {
	highest := SeverityNone
	for _, c := range commits {
		if s := Classify(c); s > highest {
			highest = s
			if highest == SeverityMajor {
				break
			}
		}
	}
	return highest
}
