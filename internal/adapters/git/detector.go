// Package git tags completion records with the branch and commit of the
// directory the timer was started from, using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/xvierd/chronozen/internal/ports"
)

// ErrNotRepository is returned when no repository encloses the directory.
var ErrNotRepository = errors.New("not a git repository")

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct {
	dir string
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// NewDetector creates a detector rooted at dir. An empty dir means the
// current working directory.
func NewDetector(dir string) *Detector {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return &Detector{dir: dir}
}

func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return repo, nil
}

// Detect reads HEAD and the worktree state of the enclosing repository.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if workingDir == "" {
		workingDir = d.dir
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := open(workingDir)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	info := &ports.GitInfo{
		Branch: head.Name().Short(),
		Commit: ShortCommit(head.Hash().String()),
	}
	if !head.Name().IsBranch() {
		info.Branch = "HEAD detached"
	}

	if remotes, err := repo.Remotes(); err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			info.Repository = RepoName(urls[0])
		}
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			info.Dirty = !status.IsClean()
		}
	}

	return info, nil
}

// IsAvailable reports whether the detector's directory is in a repository.
func (d *Detector) IsAvailable() bool {
	_, err := open(d.dir)
	return err == nil
}

// RepoName extracts "owner/repo" from an SSH or HTTPS remote URL.
func RepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	if strings.HasPrefix(url, "git@") {
		if i := strings.LastIndex(url, ":"); i >= 0 {
			return url[i+1:]
		}
	}

	if strings.HasPrefix(url, "http") {
		parts := strings.Split(url, "/")
		if len(parts) >= 2 {
			return parts[len(parts)-2] + "/" + parts[len(parts)-1]
		}
	}

	return url
}

// ShortCommit returns the seven character form of a commit hash.
func ShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
