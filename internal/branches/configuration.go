package branches

import "strings"

const currentDirectoryRootConstant = "."

// SelectionConfiguration captures where repositories are looked up and how many are processed at once.
type SelectionConfiguration struct {
	Root string `mapstructure:"root" yaml:"root"`
	Jobs int    `mapstructure:"jobs" yaml:"jobs"`
}

// DefaultSelectionConfiguration scans the working directory with no concurrency bound.
func DefaultSelectionConfiguration() SelectionConfiguration {
	return SelectionConfiguration{Root: currentDirectoryRootConstant, Jobs: 0}
}

// Sanitize trims the root, restores the default root when empty, and clamps negative job counts to zero.
func (configuration SelectionConfiguration) Sanitize() SelectionConfiguration {
	sanitized := configuration
	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = currentDirectoryRootConstant
	}
	if sanitized.Jobs < 0 {
		sanitized.Jobs = 0
	}
	return sanitized
}
