package status

import "github.com/temirov/sammy/internal/branches"

// CommandConfiguration captures configuration values for the check command.
type CommandConfiguration struct {
	branches.SelectionConfiguration `mapstructure:",squash" yaml:",inline"`
	ShowCurrent                     bool `mapstructure:"show_current" yaml:"show_current"`
}

// DefaultCommandConfiguration scans the working directory and shows the current branch.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		SelectionConfiguration: branches.DefaultSelectionConfiguration(),
		ShowCurrent:            true,
	}
}

// Sanitize normalizes the shared selection values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.SelectionConfiguration = configuration.SelectionConfiguration.Sanitize()
	return sanitized
}
