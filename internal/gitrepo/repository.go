package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/temirov/sammy/internal/execshell"
	"github.com/temirov/sammy/internal/repos/shared"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	fileSystemMissingMessageConstant            = "filesystem not configured"
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	invalidNameMessageConstant                  = "repository path has no valid final segment"
	invalidNameErrorTemplateConstant            = "%w: %q"
	divergenceParseErrorTemplateConstant        = "unable to parse divergence count %q: %w"
	divergenceQueryErrorTemplateConstant        = "unable to count local-only commits on %q: %w"
	currentBranchErrorTemplateConstant          = "unable to determine current branch: %w"
	pendingChangesErrorTemplateConstant         = "unable to inspect working tree: %w"
	gitLSRemoteSubcommandConstant               = "ls-remote"
	gitHeadsFlagConstant                        = "--heads"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitVerifyFlagConstant                       = "--verify"
	gitQuietFlagConstant                        = "--quiet"
	gitAbbrevRefFlagConstant                    = "--abbrev-ref"
	gitHeadReferenceConstant                    = "HEAD"
	gitRevListSubcommandConstant                = "rev-list"
	gitCountFlagConstant                        = "--count"
	gitLeftOnlyFlagConstant                     = "--left-only"
	gitSymmetricDifferenceTemplateConstant      = "%s...%s/%s"
	gitStatusSubcommandConstant                 = "status"
	gitPorcelainFlagConstant                    = "--porcelain"
	gitFetchSubcommandConstant                  = "fetch"
	gitPruneFlagConstant                        = "--prune"
	gitCheckoutSubcommandConstant               = "checkout"
	gitPullSubcommandConstant                   = "pull"
	gitFastForwardOnlyFlagConstant              = "--ff-only"
	localBranchReferencePrefixConstant          = "refs/heads/"
	lsRemoteFieldSeparatorConstant              = "\t"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrInvalidName indicates the repository path has no usable display name.
var ErrInvalidName = errors.New(invalidNameMessageConstant)

// Dependencies enumerates the collaborators a Repository talks to.
type Dependencies struct {
	GitExecutor shared.GitExecutor
	FileSystem  shared.FileSystem
}

// Repository is a handle on one checkout identified by its filesystem path.
type Repository struct {
	path       string
	executor   shared.GitExecutor
	fileSystem shared.FileSystem
}

// NewRepository constructs a handle for the checkout at path.
func NewRepository(path string, dependencies Dependencies) (*Repository, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if len(strings.TrimSpace(path)) == 0 {
		return nil, ErrRepositoryPathRequired
	}
	return &Repository{path: path, executor: dependencies.GitExecutor, fileSystem: dependencies.FileSystem}, nil
}

// Path returns the checkout location.
func (repository *Repository) Path() string {
	return repository.path
}

// Name returns the final path segment.
func (repository *Repository) Name() (string, error) {
	return NameFromPath(repository.path)
}

// NameFromPath returns the final segment of path, or ErrInvalidName when there is none or it is not valid UTF-8.
func NameFromPath(path string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf(invalidNameErrorTemplateConstant, ErrInvalidName, path)
	}
	baseName := filepath.Base(path)
	switch baseName {
	case ".", "..", string(filepath.Separator):
		return "", fmt.Errorf(invalidNameErrorTemplateConstant, ErrInvalidName, path)
	}
	if !utf8.ValidString(baseName) {
		return "", fmt.Errorf(invalidNameErrorTemplateConstant, ErrInvalidName, path)
	}
	return baseName, nil
}

// IsTrackedCheckout reports whether the path is a directory directly containing git metadata.
func (repository *Repository) IsTrackedCheckout() bool {
	return IsTrackedCheckout(repository.fileSystem, repository.path)
}

// IsTrackedCheckout reports whether path is a directory with a .git entry directly inside it.
// A .git file is accepted as well so linked worktrees qualify.
func IsTrackedCheckout(fileSystem shared.FileSystem, path string) bool {
	directoryInfo, statError := fileSystem.Stat(path)
	if statError != nil || !directoryInfo.IsDir() {
		return false
	}
	_, metadataError := fileSystem.Stat(filepath.Join(path, shared.GitMetadataDirectoryNameConstant))
	return metadataError == nil
}

// CurrentBranch returns what the backend reports as the abbreviated HEAD reference.
func (repository *Repository) CurrentBranch(executionContext context.Context) (string, error) {
	output, executionError := repository.executeGit(executionContext, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, executionError)
	}
	return output, nil
}

// RemoteHead returns the commit the origin remote records for branch.
// The second result is false when the remote lacks the branch or the query fails.
func (repository *Repository) RemoteHead(executionContext context.Context, branch string) (string, bool) {
	output, executionError := repository.executeGit(executionContext, gitLSRemoteSubcommandConstant, gitHeadsFlagConstant, shared.OriginRemoteNameConstant, branch)
	if executionError != nil {
		return "", false
	}

	expectedReference := localBranchReferencePrefixConstant + branch
	for _, line := range strings.Split(output, "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), lsRemoteFieldSeparatorConstant, 2)
		if len(fields) != 2 {
			continue
		}
		if strings.TrimSpace(fields[1]) == expectedReference && len(fields[0]) > 0 {
			return fields[0], true
		}
	}
	return "", false
}

// LocalHead returns the commit recorded for the local branch, false when the branch does not exist.
func (repository *Repository) LocalHead(executionContext context.Context, branch string) (string, bool) {
	output, executionError := repository.executeGit(executionContext, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, localBranchReferencePrefixConstant+branch)
	if executionError != nil || len(output) == 0 {
		return "", false
	}
	return output, true
}

// DivergenceCount counts commits reachable from the local branch but not from its origin counterpart.
func (repository *Repository) DivergenceCount(executionContext context.Context, branch string) (int, error) {
	revisionRange := fmt.Sprintf(gitSymmetricDifferenceTemplateConstant, branch, shared.OriginRemoteNameConstant, branch)
	output, executionError := repository.executeGit(executionContext, gitRevListSubcommandConstant, gitCountFlagConstant, gitLeftOnlyFlagConstant, revisionRange)
	if executionError != nil {
		return 0, fmt.Errorf(divergenceQueryErrorTemplateConstant, branch, executionError)
	}
	count, parseError := strconv.Atoi(output)
	if parseError != nil {
		return 0, fmt.Errorf(divergenceParseErrorTemplateConstant, output, parseError)
	}
	return count, nil
}

// HasPendingChanges reports whether the working tree has tracked or untracked modifications.
func (repository *Repository) HasPendingChanges(executionContext context.Context) (bool, error) {
	output, executionError := repository.executeGit(executionContext, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return false, fmt.Errorf(pendingChangesErrorTemplateConstant, executionError)
	}
	return len(output) > 0, nil
}

// Fetch downloads objects and references from the remotes.
func (repository *Repository) Fetch(executionContext context.Context) error {
	_, executionError := repository.executeGit(executionContext, gitFetchSubcommandConstant, gitPruneFlagConstant)
	return executionError
}

// Checkout switches the working tree to branch.
func (repository *Repository) Checkout(executionContext context.Context, branch string) error {
	_, executionError := repository.executeGit(executionContext, gitCheckoutSubcommandConstant, branch)
	return executionError
}

// Pull integrates the upstream of the current branch without creating merge commits.
func (repository *Repository) Pull(executionContext context.Context) error {
	_, executionError := repository.executeGit(executionContext, gitPullSubcommandConstant, gitFastForwardOnlyFlagConstant)
	return executionError
}

func (repository *Repository) executeGit(executionContext context.Context, arguments ...string) (string, error) {
	executionResult, executionError := repository.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repository.path,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimRight(executionResult.StandardOutput, " \t\r\n"), nil
}
