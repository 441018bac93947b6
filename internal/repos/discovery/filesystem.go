package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/sammy/internal/gitrepo"
	"github.com/temirov/sammy/internal/repos/shared"
)

const (
	fileSystemMissingMessageConstant     = "filesystem not configured"
	rootResolveErrorTemplateConstant     = "unable to resolve root directory %q: %w"
	rootReadErrorTemplateConstant        = "unable to read root directory %q: %w"
	rootDirectoryRequiredMessageConstant = "root directory must be provided"
)

// ErrFileSystemNotConfigured indicates the discoverer was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRootDirectoryRequired indicates an empty root directory.
var ErrRootDirectoryRequired = errors.New(rootDirectoryRequiredMessageConstant)

// FilesystemRepositoryDiscoverer lists tracked checkouts that are immediate children of a root directory.
type FilesystemRepositoryDiscoverer struct {
	fileSystem shared.FileSystem
}

// NewFilesystemRepositoryDiscoverer constructs a discoverer backed by fileSystem.
func NewFilesystemRepositoryDiscoverer(fileSystem shared.FileSystem) (*FilesystemRepositoryDiscoverer, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &FilesystemRepositoryDiscoverer{fileSystem: fileSystem}, nil
}

// CollectRepositories returns absolute paths of the tracked checkouts directly under rootDirectory
// whose directory name contains nameFilter. An empty filter keeps every checkout.
// Paths follow the filesystem listing order; failing to read the root is an error.
func (discoverer *FilesystemRepositoryDiscoverer) CollectRepositories(rootDirectory string, nameFilter string) ([]string, error) {
	if len(strings.TrimSpace(rootDirectory)) == 0 {
		return nil, ErrRootDirectoryRequired
	}

	absoluteRoot, resolveError := discoverer.fileSystem.Abs(rootDirectory)
	if resolveError != nil {
		return nil, fmt.Errorf(rootResolveErrorTemplateConstant, rootDirectory, resolveError)
	}

	entries, readError := discoverer.fileSystem.ReadDir(absoluteRoot)
	if readError != nil {
		return nil, fmt.Errorf(rootReadErrorTemplateConstant, absoluteRoot, readError)
	}

	repositories := make([]string, 0, len(entries))
	for _, entry := range entries {
		if len(nameFilter) > 0 && !strings.Contains(entry.Name(), nameFilter) {
			continue
		}
		candidatePath := filepath.Join(absoluteRoot, entry.Name())
		if !gitrepo.IsTrackedCheckout(discoverer.fileSystem, candidatePath) {
			continue
		}
		repositories = append(repositories, candidatePath)
	}
	return repositories, nil
}
