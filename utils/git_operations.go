package utils

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// ErrNotGitRepository is returned when the working directory is outside any
// git repository.
var ErrNotGitRepository = errors.New("not a git repository")

const shortHashLength = 7

// GitOperations reads repository metadata for a scan root. It never writes to
// the repository.
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

// CheckGitRepo checks if the working directory is inside a git repository
func (g *GitOperations) CheckGitRepo() error {
	_, err := g.open()
	return err
}

// Revision describes HEAD as "<branch>@<short hash>", or "detached@<short
// hash>" when HEAD does not point at a branch.
func (g *GitOperations) Revision() (string, error) {
	repo, err := g.open()
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	branch := "detached"
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}
	return fmt.Sprintf("%s@%s", branch, head.Hash().String()[:shortHashLength]), nil
}

func (g *GitOperations) open() (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(g.workingDir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotGitRepository
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return repo, nil
}
