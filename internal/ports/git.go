package ports

import (
	"context"
)

// GitInfo is the repository context attached to completion records.
type GitInfo struct {
	Branch     string
	Commit     string
	Dirty      bool
	Repository string
}

// GitDetector finds the git context of a working directory.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect returns the git context of workingDir, or of the detector's
	// own directory when workingDir is empty.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)

	// IsAvailable reports whether the detector's directory is inside a
	// repository.
	IsAvailable() bool
}
