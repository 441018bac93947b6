// Package dependencies supplies default collaborators for repository commands.
package dependencies

import (
	"io"

	"go.uber.org/zap"

	"github.com/temirov/sammy/internal/execshell"
	"github.com/temirov/sammy/internal/repos/discovery"
	"github.com/temirov/sammy/internal/repos/filesystem"
	"github.com/temirov/sammy/internal/repos/prompt"
	"github.com/temirov/sammy/internal/repos/shared"
	"github.com/temirov/sammy/internal/ui"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer, fileSystem shared.FileSystem) (shared.RepositoryDiscoverer, error) {
	if existing != nil {
		return existing, nil
	}
	discoverer, creationError := discovery.NewFilesystemRepositoryDiscoverer(ResolveFileSystem(fileSystem))
	if creationError != nil {
		return nil, creationError
	}
	return discoverer, nil
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// When humanReadable is set, command events are additionally rendered through ui.ConsoleCommandEventLogger.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadable bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	var observer execshell.CommandEventObserver
	if humanReadable {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}

	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveConfirmationPrompter returns the provided prompter or one reading input and writing prompts to output.
func ResolveConfirmationPrompter(existing shared.ConfirmationPrompter, input io.Reader, output io.Writer) shared.ConfirmationPrompter {
	if existing != nil {
		return existing
	}
	return prompt.NewIOConfirmationPrompter(input, output)
}
