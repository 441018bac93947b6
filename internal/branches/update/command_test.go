package update_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sammy/internal/branches/update"
	"github.com/temirov/sammy/internal/execshell"
	"github.com/temirov/sammy/internal/repos/prompt"
)

type scriptedGitExecutor struct {
	mutex    sync.Mutex
	outputs  map[string]string
	failures map[string]bool
	calls    []string
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	key := filepath.Base(details.WorkingDirectory) + ": " + strings.Join(details.Arguments, " ")
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	executor.calls = append(executor.calls, key)
	if executor.failures[key] {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Result:  execshell.ExecutionResult{ExitCode: 1},
		}
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[key]}, nil
}

func (executor *scriptedGitExecutor) mutatingCalls() []string {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	mutating := make([]string, 0, len(executor.calls))
	for _, call := range executor.calls {
		if strings.Contains(call, ": fetch") || strings.Contains(call, ": checkout") || strings.Contains(call, ": pull") {
			mutating = append(mutating, call)
		}
	}
	return mutating
}

func newExecutor() *scriptedGitExecutor {
	return &scriptedGitExecutor{
		outputs: map[string]string{
			"billing: rev-parse --abbrev-ref HEAD": "feature\n",
			"billing: status --porcelain":          " M README.md\n",
			"orders: rev-parse --abbrev-ref HEAD":  "bugfix\n",
		},
		failures: map[string]bool{},
	}
}

func createWorkspace(testInstance *testing.T, names ...string) string {
	testInstance.Helper()
	root := testInstance.TempDir()
	for _, name := range names {
		require.NoError(testInstance, os.MkdirAll(filepath.Join(root, name, ".git"), 0o755))
	}
	return root
}

func executeUpdate(testInstance *testing.T, builder *update.CommandBuilder, input string, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetIn(strings.NewReader(input))
	command.SetOut(output)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(append(arguments, "--color", "never"))
	executionError := command.Execute()
	return output.String(), executionError
}

func TestUpdateCommandDeclinedConfirmation(testInstance *testing.T) {
	root := createWorkspace(testInstance, "orders", "billing")
	executor := newExecutor()

	output, executionError := executeUpdate(testInstance, &update.CommandBuilder{GitExecutor: executor}, "maybe\nn\n", "--root", root)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "Are you sure you want to update 2 repositories: [billing, orders]\n"+
		"Confirm (yes/no): Confirm (yes/no): Update cancelled\n", output)
	require.Empty(testInstance, executor.calls)
}

func TestUpdateCommandConfirmedRun(testInstance *testing.T) {
	root := createWorkspace(testInstance, "orders", "billing")
	executor := newExecutor()

	output, executionError := executeUpdate(testInstance, &update.CommandBuilder{GitExecutor: executor}, "yes\n", "--root", root)

	require.NoError(testInstance, executionError)
	require.True(testInstance, strings.HasSuffix(output, strings.Join([]string{
		"billing                            develop   | pending changes",
		"orders                             develop   | updated successfully",
	}, "\n")+"\n"))
	require.Equal(testInstance, []string{"orders: fetch --prune", "orders: checkout develop", "orders: pull --ff-only"}, executor.mutatingCalls())
}

func TestUpdateCommandOptions(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		failures        []string
		expectedOutput  string
		expectedCalls   []string
		expectedFailure string
	}{
		{
			name:           "assume_yes_with_branch_override",
			arguments:      []string{"--yes", "--filter", "ord", "--branch", "release"},
			expectedOutput: "orders                             release   | updated successfully\n",
			expectedCalls:  []string{"orders: fetch --prune", "orders: checkout release", "orders: pull --ff-only"},
		},
		{
			name:           "stay_restores_branch",
			arguments:      []string{"-y", "--stay", "--filter", "orders"},
			expectedOutput: "orders                             develop   | updated successfully\n",
			expectedCalls:  []string{"orders: fetch --prune", "orders: checkout develop", "orders: pull --ff-only", "orders: checkout bugfix"},
		},
		{
			name:           "fetch_failure",
			arguments:      []string{"--yes", "--filter", "orders"},
			failures:       []string{"orders: fetch --prune"},
			expectedOutput: "orders                             develop   | unable to fetch\n",
			expectedCalls:  []string{"orders: fetch --prune"},
		},
		{
			name:           "checkout_failure",
			arguments:      []string{"--yes", "--filter", "orders"},
			failures:       []string{"orders: checkout develop"},
			expectedOutput: "orders                             develop   | unable to checkout 'develop'\n",
			expectedCalls:  []string{"orders: fetch --prune", "orders: checkout develop"},
		},
		{
			name:            "restore_failure",
			arguments:       []string{"--yes", "--stay", "--filter", "orders"},
			failures:        []string{"orders: checkout bugfix"},
			expectedCalls:   []string{"orders: fetch --prune", "orders: checkout develop", "orders: pull --ff-only", "orders: checkout bugfix"},
			expectedFailure: "unable to switch orders back to \"bugfix\"",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			root := createWorkspace(testInstance, "orders", "billing")
			executor := newExecutor()
			for _, failure := range testCase.failures {
				executor.failures[failure] = true
			}

			output, executionError := executeUpdate(testInstance, &update.CommandBuilder{GitExecutor: executor}, "", append(testCase.arguments, "--root", root)...)

			if len(testCase.expectedFailure) > 0 {
				require.ErrorContains(testInstance, executionError, testCase.expectedFailure)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.expectedOutput, output)
			}
			require.Equal(testInstance, testCase.expectedCalls, executor.mutatingCalls())
		})
	}
}

func TestUpdateCommandConfigurationAssumesYes(testInstance *testing.T) {
	root := createWorkspace(testInstance, "orders")
	executor := newExecutor()
	configuration := update.DefaultCommandConfiguration()
	configuration.Root = root
	configuration.AssumeYes = true

	builder := &update.CommandBuilder{
		GitExecutor:           executor,
		ConfigurationProvider: func() update.CommandConfiguration { return configuration },
	}
	output, executionError := executeUpdate(testInstance, builder, "")

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "orders                             develop   | updated successfully\n", output)
}

func TestUpdateCommandExhaustedConfirmationIsFatal(testInstance *testing.T) {
	root := createWorkspace(testInstance, "orders")
	executor := newExecutor()

	_, executionError := executeUpdate(testInstance, &update.CommandBuilder{GitExecutor: executor}, "sure\nok\nfine\n", "--root", root)

	require.ErrorIs(testInstance, executionError, prompt.ErrConfirmationAttemptsExhausted)
	require.Empty(testInstance, executor.mutatingCalls())
}

func TestUpdateCommandReportsEmptyWorkspace(testInstance *testing.T) {
	root := createWorkspace(testInstance)

	output, executionError := executeUpdate(testInstance, &update.CommandBuilder{GitExecutor: newExecutor()}, "", "--root", root)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "No repositories found\n", output)
}
