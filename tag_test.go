package semtag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTag(t *testing.T) {
	_, err := NewTag(nil, "v", "")
	require.ErrorIs(t, err, ErrNullVersion)

	v := MustParseVersion("1.2.3")
	tag, err := NewTag(&v, "v", "-linux")
	require.NoError(t, err)
	require.Equal(t, "v1.2.3-linux", tag.String())
	require.Equal(t, v, tag.Version)
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		suffix  string
		version string
	}{
		{"v1.2.3", "v", "", "1.2.3"},
		{"1.2.3", "", "", "1.2.3"},
		{"release-1.2.3", "release-", "", "1.2.3"},
		{"v1.2.4.dev.3", "v", "", "1.2.4.dev.3"},
		{"v1.2.3-linux", "v", "-linux", "1.2.3"},
		{"sdk/v2.0.0.rc.1+build", "sdk/v", "+build", "2.0.0.rc.1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tag, err := ParseTag(test.name, test.prefix, test.suffix)
			require.NoError(t, err)
			require.Equal(t, test.version, tag.Version.String())
			require.Equal(t, test.prefix, tag.Prefix)
			require.Equal(t, test.suffix, tag.Suffix)
			require.Equal(t, test.name, tag.String())
		})
	}
}

func TestParseTagErrors(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		suffix   string
		expected error
	}{
		{"", "v", "", ErrBlankInput},
		{"  ", "v", "", ErrBlankInput},
		{"1.2.3", "v", "", ErrMissingPrefix},
		{"v1.2.3", "v", "-linux", ErrMissingSuffix},
		{"v1.2", "v", "", ErrInvalidFormat},
		{"v1.2.3", "", "", ErrInvalidFormat},
		{"vlatest", "v", "", ErrInvalidFormat},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseTag(test.name, test.prefix, test.suffix)
			require.ErrorIs(t, err, test.expected)
		})
	}
}

func TestParseTagSuffixFirstOccurrence(t *testing.T) {
	// The suffix is cut at its first occurrence, so a suffix that also
	// appears inside the version text splits it early.
	tag, err := ParseTag("v1.2.3.dev.1.dev", "v", ".dev")
	require.NoError(t, err)
	require.Equal(t, "1.2.3", tag.Version.String())
	require.NotEqual(t, "v1.2.3.dev.1.dev", tag.String())

	tag, err = ParseTag("v1.2.3.dev.1-x", "v", "-x")
	require.NoError(t, err)
	require.Equal(t, "1.2.3.dev.1", tag.Version.String())
}

func TestTagRoundTrip(t *testing.T) {
	prefixes := []string{"", "v", "release/"}
	suffixes := []string{"", "-linux", "+meta"}
	versions := []string{"0.1.0", "1.2.3", "4.5.6.beta.7"}

	for _, prefix := range prefixes {
		for _, suffix := range suffixes {
			for _, s := range versions {
				v := MustParseVersion(s)
				tag, err := NewTag(&v, prefix, suffix)
				require.NoError(t, err)

				parsed, err := ParseTag(tag.String(), prefix, suffix)
				require.NoError(t, err)
				require.True(t, tag.Equal(parsed), "%s", tag)
			}
		}
	}
}

func TestTagBump(t *testing.T) {
	tag, err := ParseTag("v1.2.3-x", "v", "-x")
	require.NoError(t, err)

	require.Equal(t, "v1.3.0-x", tag.Bump(SeverityMinor).String())
	require.Equal(t, "v1.2.3-x", tag.String())

	_, err = tag.BumpPrerelease()
	require.ErrorIs(t, err, ErrNotAPrerelease)

	pre, err := ParseTag("v1.2.4.dev.1-x", "v", "-x")
	require.NoError(t, err)
	next, err := pre.BumpPrerelease()
	require.NoError(t, err)
	require.Equal(t, "v1.2.4.dev.2-x", next.String())
}

func TestTagCompare(t *testing.T) {
	mustTag := func(name, prefix, suffix string) Tag {
		tag, err := ParseTag(name, prefix, suffix)
		require.NoError(t, err)
		return tag
	}

	ordered := []Tag{
		mustTag("1.0.0", "", ""),
		mustTag("2.0.0", "", ""),
		mustTag("a1.0.0", "a", ""),
		mustTag("v0.9.0", "v", ""),
		mustTag("v1.0.0", "v", ""),
		mustTag("v1.0.0-a", "v", "-a"),
		mustTag("v1.0.0-b", "v", "-b"),
		mustTag("v1.1.0.dev.1", "v", ""),
		mustTag("v1.1.0", "v", ""),
	}

	for i := range ordered {
		for j := range ordered {
			expected := 0
			if i < j {
				expected = -1
			} else if i > j {
				expected = 1
			}
			require.Equal(t, expected, ordered[i].Compare(&ordered[j]), "%s vs %s", ordered[i], ordered[j])
		}
		require.Equal(t, 1, ordered[i].Compare(nil))
	}
}
