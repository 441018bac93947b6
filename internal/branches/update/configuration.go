package update

import "github.com/temirov/sammy/internal/branches"

// CommandConfiguration captures configuration values for the update command.
type CommandConfiguration struct {
	branches.SelectionConfiguration `mapstructure:",squash" yaml:",inline"`
	Stay                            bool `mapstructure:"stay" yaml:"stay"`
	AssumeYes                       bool `mapstructure:"assume_yes" yaml:"assume_yes"`
}

// DefaultCommandConfiguration scans the working directory and asks for confirmation.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{SelectionConfiguration: branches.DefaultSelectionConfiguration()}
}

// Sanitize normalizes the shared selection values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.SelectionConfiguration = configuration.SelectionConfiguration.Sanitize()
	return sanitized
}
