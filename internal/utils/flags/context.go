package flags

import "github.com/spf13/cobra"

const (
	// RootFlagName exposes the shared repository root flag name.
	RootFlagName = "root"
	// RootFlagUsage describes the shared repository root flag purpose.
	RootFlagUsage = "Directory whose immediate children are scanned for repositories"
	// FilterFlagName exposes the shared name filter flag name.
	FilterFlagName = "filter"
	// FilterFlagUsage describes the shared name filter flag purpose.
	FilterFlagUsage = "Only include repositories whose name contains this text"
	// BranchFlagName exposes the shared branch flag name.
	BranchFlagName = "branch"
	// BranchFlagUsage describes the shared branch flag purpose.
	BranchFlagUsage = "Target branch used instead of the configured one"
)

// SelectionFlagDefinition captures configuration for one repository selection flag.
type SelectionFlagDefinition struct {
	Name    string
	Usage   string
	Enabled bool
}

// SelectionFlagDefinitions groups repository selection flag definitions.
type SelectionFlagDefinitions struct {
	Root   SelectionFlagDefinition
	Filter SelectionFlagDefinition
	Branch SelectionFlagDefinition
}

// SelectionFlagValues stores repository selection flag values.
type SelectionFlagValues struct {
	Root   string
	Filter string
	Branch string
}

// BindSelectionFlags attaches the enabled selection flags to the command's local flag set.
func BindSelectionFlags(command *cobra.Command, defaults SelectionFlagValues, definitions SelectionFlagDefinitions) *SelectionFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	flagSet := command.Flags()
	bind := func(target *string, definition SelectionFlagDefinition, defaultValue string) {
		if !definition.Enabled || len(definition.Name) == 0 || flagSet.Lookup(definition.Name) != nil {
			return
		}
		flagSet.StringVar(target, definition.Name, defaultValue, definition.Usage)
	}

	bind(&values.Root, definitions.Root, defaults.Root)
	bind(&values.Filter, definitions.Filter, defaults.Filter)
	bind(&values.Branch, definitions.Branch, defaults.Branch)
	return &values
}

// StandardSelectionFlagDefinitions returns root and filter definitions, plus branch when requested.
func StandardSelectionFlagDefinitions(includeBranch bool) SelectionFlagDefinitions {
	return SelectionFlagDefinitions{
		Root:   SelectionFlagDefinition{Name: RootFlagName, Usage: RootFlagUsage, Enabled: true},
		Filter: SelectionFlagDefinition{Name: FilterFlagName, Usage: FilterFlagUsage, Enabled: true},
		Branch: SelectionFlagDefinition{Name: BranchFlagName, Usage: BranchFlagUsage, Enabled: includeBranch},
	}
}

// FlagChanged reports whether the named flag was set explicitly on the command line.
func FlagChanged(command *cobra.Command, name string) bool {
	if command == nil {
		return false
	}
	flag := command.Flags().Lookup(name)
	return flag != nil && flag.Changed
}
