package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/sammy/internal/execshell"
)

const (
	// OriginRemoteNameConstant identifies the remote every checkout is compared against.
	OriginRemoteNameConstant = "origin"
	// GitMetadataDirectoryNameConstant names the entry that marks a tracked checkout.
	GitMetadataDirectoryNameConstant = ".git"
)

// FileSystem exposes the filesystem operations used by discovery and repository handles.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Abs(path string) (string, error)
}

// ConfirmationPrompter asks the operator to approve a mutating batch.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// GitExecutor runs version-control backend commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryDiscoverer lists tracked checkouts directly under a root directory.
type RepositoryDiscoverer interface {
	CollectRepositories(rootDirectory string, nameFilter string) ([]string, error)
}
