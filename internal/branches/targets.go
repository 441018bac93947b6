package branches

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/sammy/internal/gitrepo"
	"github.com/temirov/sammy/internal/repos/shared"
)

const (
	discovererMissingMessageConstant = "repository discoverer not configured"
	discoveryErrorTemplateConstant   = "repository discovery failed: %w"
)

// ErrDiscovererNotConfigured indicates a service was constructed without a repository discoverer.
var ErrDiscovererNotConfigured = errors.New(discovererMissingMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ResolveLogger returns the provider's logger or a no-op logger.
func ResolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Target is a discovered checkout together with its display name.
type Target struct {
	Path string
	Name string
}

// CollectTargets discovers checkouts under root and derives their names.
// Discovery failures and paths without a valid name are returned as errors.
func CollectTargets(discoverer shared.RepositoryDiscoverer, root string, filter string) ([]Target, error) {
	if discoverer == nil {
		return nil, ErrDiscovererNotConfigured
	}

	paths, discoveryError := discoverer.CollectRepositories(root, filter)
	if discoveryError != nil {
		return nil, fmt.Errorf(discoveryErrorTemplateConstant, discoveryError)
	}

	targets := make([]Target, 0, len(paths))
	for _, path := range paths {
		name, nameError := gitrepo.NameFromPath(path)
		if nameError != nil {
			return nil, nameError
		}
		targets = append(targets, Target{Path: path, Name: name})
	}
	return targets, nil
}

// TargetNames lists target names in discovery order.
func TargetNames(targets []Target) []string {
	names := make([]string, 0, len(targets))
	for _, target := range targets {
		names = append(names, target.Name)
	}
	return names
}
