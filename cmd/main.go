package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/jaxxstorm/semtag"
)

// Version will be set by build process
var Version = "dev"

// NoBump is printed when no commit since the latest release warrants a new tag.
const NoBump = "No Bump"

const (
	exitError   = 1
	exitInvalid = 2
)

type CLI struct {
	Convert         string `arg:"" optional:"" help:"Version string to convert instead of reading the repository"`
	Repo            string `short:"r" env:"SEMTAG_REPO" help:"Repository path (default: current directory)"`
	Prerelease      bool   `short:"p" env:"SEMTAG_PRERELEASE" help:"Compute the next prerelease tag instead of a release tag"`
	Channel         string `short:"c" env:"SEMTAG_CHANNEL" help:"Prerelease channel (default: current branch)"`
	Prefix          string `default:"v" env:"SEMTAG_PREFIX" help:"Tag prefix"`
	Suffix          string `env:"SEMTAG_SUFFIX" help:"Tag suffix"`
	TagPattern      string `env:"SEMTAG_TAG_PATTERN" help:"Regex pattern to filter tags (e.g., '^v')"`
	SkipInvalidTags bool   `env:"SEMTAG_SKIP_INVALID_TAGS" help:"Ignore annotated tags that don't match the prefix, suffix and version format"`
	Apply           bool   `short:"a" env:"SEMTAG_APPLY" help:"Create the new tag at HEAD"`
	Push            bool   `env:"SEMTAG_PUSH" help:"Push the new tag to the remote (implies --apply)"`
	Remote          string `default:"origin" env:"SEMTAG_REMOTE" help:"Remote to push to"`
	PushToken       string `env:"SEMTAG_PUSH_TOKEN" help:"Token for pushing over HTTP(S)"`
	Output          string `short:"o" type:"path" env:"SEMTAG_OUTPUT" help:"Write the new version to this file"`
	JSON            bool   `short:"j" help:"Output as JSON"`
	LogLevel        string `default:"warn" enum:"debug,info,warn,error" env:"SEMTAG_LOG_LEVEL" help:"Log level"`
	LogFormat       string `default:"text" enum:"text,json,logfmt" env:"SEMTAG_LOG_FORMAT" help:"Log format"`
	ShowVersion     bool   `help:"Show version information" name:"version"`

	Config kong.ConfigFlag `help:"YAML configuration file"`

	stdout io.Writer
	logger *log.Logger
}

// Result is the JSON output of a run
type Result struct {
	Version  string `json:"version,omitempty"`
	Tag      string `json:"tag,omitempty"`
	SemVer   string `json:"semver,omitempty"`
	Previous string `json:"previous,omitempty"`
	Severity string `json:"severity"`
	Bumped   bool   `json:"bumped"`
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("semtag"),
		kong.Description("Compute the next semantic version tag from conventional commits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(YAML, ".semtag.yaml", "~/.config/semtag/config.yaml"),
		kong.Vars{
			"version": Version,
		},
	)

	err := cli.Run()
	if err != nil {
		cli.log().Error("semtag failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps input and format errors to exitInvalid, anything else to exitError.
func exitCode(err error) int {
	for _, target := range []error{
		semtag.ErrBlankInput,
		semtag.ErrInvalidFormat,
		semtag.ErrMissingPrefix,
		semtag.ErrMissingSuffix,
		semtag.ErrNotAPrerelease,
		semtag.ErrPrereleaseNumberZero,
		semtag.ErrNullVersion,
	} {
		if errors.Is(err, target) {
			return exitInvalid
		}
	}
	return exitError
}

func (c *CLI) out() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

func (c *CLI) log() *log.Logger {
	if c.logger != nil {
		return c.logger
	}

	c.logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "semtag",
	})

	switch c.LogFormat {
	case "json":
		c.logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		c.logger.SetFormatter(log.LogfmtFormatter)
	default:
		c.logger.SetFormatter(log.TextFormatter)
	}

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	c.logger.SetLevel(level)

	return c.logger
}

func (c *CLI) Run() error {
	// Handle version flag
	if c.ShowVersion {
		return c.showVersion()
	}

	if c.Convert != "" {
		return c.convertVersion()
	}

	return c.bumpVersion(context.Background())
}

func (c *CLI) showVersion() error {
	versionInfo := map[string]string{
		"version": Version,
		"name":    "semtag",
	}

	if c.JSON {
		return json.NewEncoder(c.out()).Encode(versionInfo)
	}

	fmt.Fprintf(c.out(), "semtag version %s\n", Version)
	return nil
}

func (c *CLI) convertVersion() error {
	version, err := semtag.ParseVersion(strings.TrimPrefix(c.Convert, c.Prefix))
	if err != nil {
		return fmt.Errorf("converting version: %w", err)
	}

	if c.JSON {
		return json.NewEncoder(c.out()).Encode(Result{
			Version:  version.String(),
			SemVer:   version.SemVer().String(),
			Severity: semtag.SeverityNone.String(),
		})
	}

	fmt.Fprintln(c.out(), version.SemVer().String())
	return nil
}

func (c *CLI) bumpVersion(ctx context.Context) error {
	repoPath := c.Repo
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := semtag.OpenRepository(repoPath)
	if err != nil {
		return fmt.Errorf("opening repository %s: %w", repoPath, err)
	}

	opts := semtag.Options{
		Prerelease:      c.Prerelease,
		Channel:         c.Channel,
		Prefix:          c.Prefix,
		Suffix:          c.Suffix,
		TagPattern:      c.TagPattern,
		SkipInvalidTags: c.SkipInvalidTags,
	}

	if opts.Prerelease && opts.Channel == "" {
		branch, err := semtag.CurrentBranch(repo)
		if err != nil {
			return fmt.Errorf("resolving prerelease channel: %w", err)
		}
		opts.Channel = branch
		c.log().Debug("using branch as prerelease channel", "channel", branch)
	}

	details, err := semtag.Calculate(repo, opts)
	if err != nil {
		return fmt.Errorf("calculating release: %w", err)
	}

	c.log().Debug("release details",
		"latest", tagName(details.LatestTag()),
		"latest_prerelease", tagName(details.LatestPrereleaseTag()),
		"commits", len(details.Commits()),
		"severity", details.Severity().String(),
	)

	tag, err := details.BumpTag()
	if err != nil {
		return fmt.Errorf("bumping tag: %w", err)
	}

	result := Result{Severity: details.Severity().String()}
	switch {
	case details.LatestPrereleaseTag() != nil:
		result.Previous = details.LatestPrereleaseTag().String()
	case details.LatestTag() != nil:
		result.Previous = details.LatestTag().String()
	}

	if tag == nil {
		c.log().Info("no commits warrant a release", "since", result.Previous)
		return c.print(result)
	}

	result.Bumped = true
	result.Tag = tag.String()
	result.Version = tag.Version.String()
	result.SemVer = tag.Version.SemVer().String()

	if c.Apply || c.Push {
		if err := semtag.ApplyTag(repo, result.Tag); err != nil {
			return err
		}
		c.log().Info("applied tag", "tag", result.Tag)
	}

	if c.Push {
		err := semtag.PushTag(ctx, repo, result.Tag, semtag.PushOptions{
			Remote: c.Remote,
			Token:  c.PushToken,
		})
		if err != nil {
			return err
		}
		c.log().Info("pushed tag", "tag", result.Tag, "remote", c.Remote)
	}

	if c.Output != "" {
		if err := semtag.WriteVersionFile(c.Output, result.Version); err != nil {
			return err
		}
		c.log().Debug("wrote version file", "path", c.Output)
	}

	return c.print(result)
}

func (c *CLI) print(result Result) error {
	if c.JSON {
		return json.NewEncoder(c.out()).Encode(result)
	}

	if !result.Bumped {
		fmt.Fprintln(c.out(), NoBump)
		return nil
	}

	fmt.Fprintln(c.out(), result.Version)
	return nil
}

func tagName(tag *semtag.Tag) string {
	if tag == nil {
		return ""
	}
	return tag.String()
}
