// Package flags provides helpers for binding standardized flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
)

const (
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Skip the confirmation prompt"
	// JobsFlagName exposes the shared concurrency flag name.
	JobsFlagName = "jobs"
	// JobsFlagShorthand provides the shorthand for the concurrency flag.
	JobsFlagShorthand = "j"
	// JobsFlagUsage describes the shared concurrency flag purpose.
	JobsFlagUsage = "Maximum repositories processed at once (0 processes all of them at once)"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	AssumeYes bool
	Jobs      int
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	AssumeYes ExecutionFlagDefinition
	Jobs      ExecutionFlagDefinition
}

// ExecutionFlagValues stores execution flag values.
type ExecutionFlagValues struct {
	AssumeYes bool
	Jobs      int
}

// BindExecutionFlags attaches the enabled execution flags to the command's local flag set.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) *ExecutionFlagValues {
	values := &ExecutionFlagValues{AssumeYes: defaults.AssumeYes, Jobs: defaults.Jobs}
	if command == nil {
		return values
	}

	flagSet := command.Flags()
	if definitions.AssumeYes.Enabled && len(definitions.AssumeYes.Name) > 0 {
		AddToggleFlag(flagSet, &values.AssumeYes, definitions.AssumeYes.Name, definitions.AssumeYes.Shorthand, defaults.AssumeYes, definitions.AssumeYes.Usage)
	}
	if definitions.Jobs.Enabled && len(definitions.Jobs.Name) > 0 {
		flagSet.IntVarP(&values.Jobs, definitions.Jobs.Name, definitions.Jobs.Shorthand, defaults.Jobs, definitions.Jobs.Usage)
	}
	return values
}

// StandardExecutionFlagDefinitions returns the assume-yes and jobs definitions with their shared names.
func StandardExecutionFlagDefinitions(includeAssumeYes bool) ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		AssumeYes: ExecutionFlagDefinition{Name: AssumeYesFlagName, Shorthand: AssumeYesFlagShorthand, Usage: AssumeYesFlagUsage, Enabled: includeAssumeYes},
		Jobs:      ExecutionFlagDefinition{Name: JobsFlagName, Shorthand: JobsFlagShorthand, Usage: JobsFlagUsage, Enabled: true},
	}
}
