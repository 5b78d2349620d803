package semtag

import (
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testRepoCommit writes a new file and commits it with the given message
func testRepoCommit(repo *git.Repository, message string) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	files, err := workTree.Filesystem.ReadDir("/")
	if err != nil {
		return plumbing.ZeroHash, err
	}

	filename := fmt.Sprintf("file_%d.txt", len(files))
	err = writeFile(workTree.Filesystem, filename, message)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	_, err = workTree.Add(filename)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit(message, &git.CommitOptions{Author: testSignature})
}

// testRepoAnnotatedTag creates an annotated tag pointing at hash
func testRepoAnnotatedTag(repo *git.Repository, name string, hash plumbing.Hash) error {
	_, err := repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  testSignature,
		Message: name,
	})
	return err
}

// testRepoHistory commits each message in order, tagging a commit with an
// annotated tag when tags maps its message to a tag name
func testRepoHistory(repo *git.Repository, messages []string, tags map[string]string) error {
	for _, message := range messages {
		hash, err := testRepoCommit(repo, message)
		if err != nil {
			return err
		}

		if name, ok := tags[message]; ok {
			if err := testRepoAnnotatedTag(repo, name, hash); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}
