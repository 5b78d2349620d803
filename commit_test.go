package semtag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func commit(message string) Commit {
	return Commit{SHA: message, Message: shortMessage(message), MessageFull: message}
}

func TestCommitType(t *testing.T) {
	tests := []struct {
		subject  string
		expected string
	}{
		{"feat: add thing", "feat"},
		{"fix(parser): handle nil", "fix"},
		{"refactor(a)(b): nested", "refactor"},
		{"feat!: breaking", ""},
		{"feat:missing space", ""},
		{"Merge branch 'main'", ""},
		{"", ""},
		{"(scope): no type", ""},
		{"feat2: digits", ""},
	}

	for _, test := range tests {
		t.Run(test.subject, func(t *testing.T) {
			require.Equal(t, test.expected, CommitType(test.subject))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		message  string
		expected Severity
	}{
		{"feat: add api", SeverityMinor},
		{"feat(cli): add flag", SeverityMinor},
		{"fix: typo", SeverityPatch},
		{"revert: feat: add api", SeverityPatch},
		{"docs: readme", SeverityPatch},
		{"refactor: split", SeverityPatch},
		{"perf: faster", SeverityPatch},
		{"build: bump go", SeverityPatch},
		{"ci: cache", SeverityPatch},
		{"style: gofmt", SeverityNone},
		{"test: cover", SeverityNone},
		{"chore: tidy", SeverityNone},
		{"wip: something", SeverityNone},
		{"Initial Commit", SeverityNone},
		{"Feat: capitalised", SeverityNone},
		{"feat!: change api", SeverityMajor},
		{"chore(deps)!: drop go 1.20", SeverityMajor},
		{"fix: x\n\nBREAKING CHANGE: config renamed", SeverityMajor},
		{"chore: x\n\nbody\n\nBREAKING CHANGE: removed flag", SeverityMajor},
		{"fix: x\nBREAKING CHANGE: not a footer", SeverityPatch},
		{"fix: x\n\nBREAKING CHANGE:missing space", SeverityPatch},
	}

	for _, test := range tests {
		t.Run(test.message, func(t *testing.T) {
			require.Equal(t, test.expected, Classify(commit(test.message)))
		})
	}
}

func TestAggregate(t *testing.T) {
	require.Equal(t, SeverityNone, Aggregate(nil))

	tests := []struct {
		name     string
		messages []string
		expected Severity
	}{
		{"only chores", []string{"chore: x", "test: y"}, SeverityNone},
		{"fix wins over chore", []string{"chore: x", "fix: y"}, SeverityPatch},
		{"feat wins over fix", []string{"fix: y", "feat: z", "docs: w"}, SeverityMinor},
		{"breaking wins", []string{"feat: z", "fix!: y", "feat: a"}, SeverityMajor},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var commits []Commit
			for _, m := range test.messages {
				commits = append(commits, commit(m))
			}
			require.Equal(t, test.expected, Aggregate(commits))
		})
	}
}

func TestSeverityOrder(t *testing.T) {
	require.Less(t, SeverityNone, SeverityPatch)
	require.Less(t, SeverityPatch, SeverityMinor)
	require.Less(t, SeverityMinor, SeverityMajor)
	require.Equal(t, "none", Severity(42).String())
}
