package semtag

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// OpenRepository opens a Git repository at the specified path
func OpenRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// LoadSnapshot reads the commits reachable from HEAD, newest first, and all
// tags of the repository. A repository without commits yields an empty
// commit list.
func LoadSnapshot(repo *git.Repository) (Snapshot, error) {
	var snapshot Snapshot

	commits, err := loadCommits(repo)
	if err != nil {
		return snapshot, err
	}
	snapshot.Commits = commits

	tags, err := loadTags(repo)
	if err != nil {
		return snapshot, err
	}
	snapshot.Tags = tags

	return snapshot, nil
}

// Calculate loads the repository snapshot and computes its release details.
func Calculate(repo *git.Repository, opts Options) (*Details, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}

	snapshot, err := LoadSnapshot(repo)
	if err != nil {
		return nil, fmt.Errorf("loading repository: %w", err)
	}

	return NewDetails(snapshot, opts)
}

func loadCommits(repo *git.Repository) ([]Commit, error) {
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, Commit{
			SHA:         c.Hash.String(),
			Message:     shortMessage(c.Message),
			MessageFull: c.Message,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking log: %w", err)
	}

	return commits, nil
}

func shortMessage(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimRight(subject, "\r")
}

func loadTags(repo *git.Repository) ([]TagRef, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var refs []TagRef
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		tag := TagRef{Name: ref.Name().Short()}

		obj, err := repo.TagObject(ref.Hash())
		switch err {
		case nil:
			// Annotated tag
			commit, err := obj.Commit()
			if errors.Is(err, object.ErrUnsupportedObject) {
				// Tags of trees or blobs are never release markers
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolving tag %s: %w", tag.Name, err)
			}
			tag.Annotated = true
			tag.Target = commit.Hash.String()
		case plumbing.ErrObjectNotFound:
			// Lightweight tag
			tag.Target = ref.Hash().String()
		default:
			return err
		}

		refs = append(refs, tag)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}

	return refs, nil
}

// CurrentBranch returns the short name of the branch HEAD points to.
func CurrentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:8])
	}
	return head.Name().Short(), nil
}

// ApplyTag creates an annotated tag named name at HEAD. The tagger is read
// from the git configuration; when none is configured the HEAD committer is
// used.
func ApplyTag(repo *git.Repository, name string) error {
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}

	opts := &git.CreateTagOptions{Message: name}
	_, err = repo.CreateTag(name, head.Hash(), opts)
	if errors.Is(err, git.ErrMissingTagger) {
		commit, cerr := repo.CommitObject(head.Hash())
		if cerr != nil {
			return fmt.Errorf("getting commit object: %w", cerr)
		}
		opts.Tagger = &object.Signature{
			Name:  commit.Committer.Name,
			Email: commit.Committer.Email,
			When:  time.Now(),
		}
		_, err = repo.CreateTag(name, head.Hash(), opts)
	}
	if err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}

	return nil
}

// PushOptions configures PushTag
type PushOptions struct {
	// Remote is the remote to push to (default: "origin")
	Remote string

	// Token authenticates HTTP(S) remotes with basic auth when set
	Token string
}

// PushTag pushes the tag named name to the remote.
func PushTag(ctx context.Context, repo *git.Repository, name string, opts PushOptions) error {
	remote := opts.Remote
	if remote == "" {
		remote = git.DefaultRemoteName
	}

	refSpec := config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))

	var auth transport.AuthMethod
	if opts.Token != "" {
		auth = &http.BasicAuth{Username: "git", Password: opts.Token}
	}

	err := repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing tag %s to %s: %w", name, remote, err)
	}

	return nil
}

// WriteVersionFile writes version to the file at path, creating parent
// directories as needed.
func WriteVersionFile(path, version string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fs := osfs.New(filepath.Dir(abs))
	if err := util.WriteFile(fs, filepath.Base(abs), []byte(version), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
