package git

import (
	"context"
)

// GitClient provides an abstraction over git operations for testability.
// Every operation takes the directory it runs in.
type GitClient interface {
	// Init creates an empty repository in dir
	Init(dir string) error

	// IsGitRepo reports whether dir is inside a work tree
	IsGitRepo(dir string) (bool, error)

	// Version returns the output of git --version
	Version() (string, error)

	WithContext(ctx context.Context) GitClient
}
