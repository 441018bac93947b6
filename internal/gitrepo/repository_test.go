package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sammy/internal/execshell"
	"github.com/temirov/sammy/internal/gitrepo"
	"github.com/temirov/sammy/internal/repos/filesystem"
)

const (
	testRepositoryPathConstant = "/workspace/alpha"
	testBranchNameConstant     = "develop"
	testRemoteCommitConstant   = "4c1f5e2a9b7d3e6f8a0b1c2d3e4f5a6b7c8d9e0f"
	testLocalCommitConstant    = "0f9e8d7c6b5a4f3e2d1c0b9a8f7e6d5c4b3a2f1e"
)

type scriptedGitExecutor struct {
	mutex            sync.Mutex
	outputs          map[string]string
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	executor.recordedCommands = append(executor.recordedCommands, details)
	key := strings.Join(details.Arguments, " ")
	if failure, exists := executor.failures[key]; exists {
		return execshell.ExecutionResult{}, failure
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[key]}, nil
}

func newTestRepository(testInstance *testing.T, executor *scriptedGitExecutor) *gitrepo.Repository {
	testInstance.Helper()
	repository, creationError := gitrepo.NewRepository(testRepositoryPathConstant, gitrepo.Dependencies{
		GitExecutor: executor,
		FileSystem:  filesystem.OSFileSystem{},
	})
	require.NoError(testInstance, creationError)
	return repository
}

func exitFailure(arguments ...string) error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}},
		Result:  execshell.ExecutionResult{ExitCode: 1},
	}
}

func TestNewRepositoryValidatesDependencies(testInstance *testing.T) {
	_, missingExecutorError := gitrepo.NewRepository(testRepositoryPathConstant, gitrepo.Dependencies{FileSystem: filesystem.OSFileSystem{}})
	require.ErrorIs(testInstance, missingExecutorError, gitrepo.ErrGitExecutorNotConfigured)

	_, missingFileSystemError := gitrepo.NewRepository(testRepositoryPathConstant, gitrepo.Dependencies{GitExecutor: &scriptedGitExecutor{}})
	require.ErrorIs(testInstance, missingFileSystemError, gitrepo.ErrFileSystemNotConfigured)

	_, missingPathError := gitrepo.NewRepository(" ", gitrepo.Dependencies{GitExecutor: &scriptedGitExecutor{}, FileSystem: filesystem.OSFileSystem{}})
	require.ErrorIs(testInstance, missingPathError, gitrepo.ErrRepositoryPathRequired)
}

func TestNameFromPath(testInstance *testing.T) {
	testCases := []struct {
		name         string
		path         string
		expectedName string
		expectError  bool
	}{
		{name: "final_segment", path: "/workspace/alpha", expectedName: "alpha"},
		{name: "trailing_separator", path: "/workspace/beta/", expectedName: "beta"},
		{name: "root", path: "/", expectError: true},
		{name: "empty", path: "", expectError: true},
		{name: "dot", path: ".", expectError: true},
		{name: "invalid_utf8", path: "/workspace/\xff\xfe", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			name, nameError := gitrepo.NameFromPath(testCase.path)
			if testCase.expectError {
				require.ErrorIs(testInstance, nameError, gitrepo.ErrInvalidName)
				return
			}
			require.NoError(testInstance, nameError)
			require.Equal(testInstance, testCase.expectedName, name)
		})
	}
}

func TestIsTrackedCheckout(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	trackedDirectory := filepath.Join(rootDirectory, "tracked")
	worktreeDirectory := filepath.Join(rootDirectory, "worktree")
	nestedDirectory := filepath.Join(rootDirectory, "nested")
	plainFile := filepath.Join(rootDirectory, "notes.txt")

	require.NoError(testInstance, os.MkdirAll(filepath.Join(trackedDirectory, ".git"), 0o755))
	require.NoError(testInstance, os.MkdirAll(worktreeDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(worktreeDirectory, ".git"), []byte("gitdir: /elsewhere\n"), 0o644))
	require.NoError(testInstance, os.MkdirAll(filepath.Join(nestedDirectory, "inner", ".git"), 0o755))
	require.NoError(testInstance, os.WriteFile(plainFile, []byte("notes"), 0o644))

	fileSystem := filesystem.OSFileSystem{}
	require.True(testInstance, gitrepo.IsTrackedCheckout(fileSystem, trackedDirectory))
	require.True(testInstance, gitrepo.IsTrackedCheckout(fileSystem, worktreeDirectory))
	require.False(testInstance, gitrepo.IsTrackedCheckout(fileSystem, nestedDirectory))
	require.False(testInstance, gitrepo.IsTrackedCheckout(fileSystem, plainFile))
	require.False(testInstance, gitrepo.IsTrackedCheckout(fileSystem, filepath.Join(rootDirectory, "missing")))
}

func TestRemoteHead(testInstance *testing.T) {
	lsRemoteKey := "ls-remote --heads origin develop"
	testCases := []struct {
		name           string
		output         string
		failure        error
		expectedCommit string
		expectedFound  bool
	}{
		{
			name:           "branch_present",
			output:         testRemoteCommitConstant + "\trefs/heads/develop\n",
			expectedCommit: testRemoteCommitConstant,
			expectedFound:  true,
		},
		{
			name:           "ignores_suffix_matches",
			output:         "1111111111111111111111111111111111111111\trefs/heads/feature/develop\n" + testRemoteCommitConstant + "\trefs/heads/develop\n",
			expectedCommit: testRemoteCommitConstant,
			expectedFound:  true,
		},
		{
			name:   "branch_absent",
			output: "",
		},
		{
			name:    "query_failure",
			failure: exitFailure("ls-remote"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{
				outputs:  map[string]string{lsRemoteKey: testCase.output},
				failures: map[string]error{},
			}
			if testCase.failure != nil {
				executor.failures[lsRemoteKey] = testCase.failure
			}
			repository := newTestRepository(testInstance, executor)

			commit, found := repository.RemoteHead(context.Background(), testBranchNameConstant)
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedCommit, commit)
		})
	}
}

func TestLocalHeadAndDivergenceCount(testInstance *testing.T) {
	executor := &scriptedGitExecutor{
		outputs: map[string]string{
			"rev-parse --verify --quiet refs/heads/develop":         testLocalCommitConstant + "\n",
			"rev-list --count --left-only develop...origin/develop": "2\n",
		},
		failures: map[string]error{
			"rev-parse --verify --quiet refs/heads/main": exitFailure("rev-parse"),
		},
	}
	repository := newTestRepository(testInstance, executor)

	commit, found := repository.LocalHead(context.Background(), testBranchNameConstant)
	require.True(testInstance, found)
	require.Equal(testInstance, testLocalCommitConstant, commit)

	_, mainFound := repository.LocalHead(context.Background(), "main")
	require.False(testInstance, mainFound)

	count, countError := repository.DivergenceCount(context.Background(), testBranchNameConstant)
	require.NoError(testInstance, countError)
	require.Equal(testInstance, 2, count)
}

func TestMutationsAndPendingChanges(testInstance *testing.T) {
	executor := &scriptedGitExecutor{
		outputs: map[string]string{
			"status --porcelain":          " M README.md\n?? notes.txt\n",
			"rev-parse --abbrev-ref HEAD": "feature/login\n",
		},
		failures: map[string]error{
			"pull --ff-only": exitFailure("pull"),
		},
	}
	repository := newTestRepository(testInstance, executor)
	executionContext := context.Background()

	pending, pendingError := repository.HasPendingChanges(executionContext)
	require.NoError(testInstance, pendingError)
	require.True(testInstance, pending)

	currentBranch, branchError := repository.CurrentBranch(executionContext)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, "feature/login", currentBranch)

	require.NoError(testInstance, repository.Fetch(executionContext))
	require.NoError(testInstance, repository.Checkout(executionContext, testBranchNameConstant))
	require.Error(testInstance, repository.Pull(executionContext))

	require.Len(testInstance, executor.recordedCommands, 5)
	for _, recordedCommand := range executor.recordedCommands {
		require.Equal(testInstance, testRepositoryPathConstant, recordedCommand.WorkingDirectory)
		require.Equal(testInstance, "0", recordedCommand.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
	}
	require.Equal(testInstance, []string{"fetch", "--prune"}, executor.recordedCommands[2].Arguments)
	require.Equal(testInstance, []string{"checkout", testBranchNameConstant}, executor.recordedCommands[3].Arguments)
}

func TestCleanWorkingTreeHasNoPendingChanges(testInstance *testing.T) {
	executor := &scriptedGitExecutor{outputs: map[string]string{"status --porcelain": ""}}
	repository := newTestRepository(testInstance, executor)

	pending, pendingError := repository.HasPendingChanges(context.Background())
	require.NoError(testInstance, pendingError)
	require.False(testInstance, pending)
}
