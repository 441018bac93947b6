package status

import (
	"github.com/spf13/cobra"

	"github.com/temirov/sammy/internal/branches"
	"github.com/temirov/sammy/internal/projects"
	"github.com/temirov/sammy/internal/report"
	"github.com/temirov/sammy/internal/repos/dependencies"
	"github.com/temirov/sammy/internal/repos/shared"
	"github.com/temirov/sammy/internal/utils/flags"
	pathutils "github.com/temirov/sammy/internal/utils/path"
)

const (
	commandUseConstant              = "check"
	commandShortDescriptionConstant = "Report how each repository's target branch relates to origin"
	commandLongDescriptionConstant  = "check inspects every repository directly under the root directory and reports whether its target branch is up to date with origin, behind it, ahead of it, or missing on either side."
	showCurrentFlagNameConstant     = "show-current"
	showCurrentFlagShorthand        = "c"
	showCurrentFlagUsageConstant    = "Include the current branch of each repository"
	colorFlagNameConstant           = "color"
	colorFlagUsageConstant          = "Color status messages"
	noRepositoriesMessageConstant   = "No repositories found\n"
)

// CommandBuilder assembles the check command.
type CommandBuilder struct {
	LoggerProvider               branches.LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	ProjectsProvider             func() projects.Configuration
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	Discoverer                   shared.RepositoryDiscoverer
	HumanReadableLoggingProvider func() bool
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flags.BindSelectionFlags(command, flags.SelectionFlagValues{Root: defaults.Root}, flags.StandardSelectionFlagDefinitions(false))
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{Jobs: defaults.Jobs}, flags.StandardExecutionFlagDefinitions(false))

	var showCurrent bool
	flags.AddToggleFlag(command.Flags(), &showCurrent, showCurrentFlagNameConstant, showCurrentFlagShorthand, defaults.ShowCurrent, showCurrentFlagUsageConstant)
	command.Flags().String(colorFlagNameConstant, string(report.ColorModeAuto), flags.FormatChoiceUsage(string(report.ColorModeAuto), report.ColorModeChoices(), colorFlagUsageConstant))

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, colorMode, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := branches.ResolveLogger(builder.LoggerProvider)
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	discoverer, discovererError := dependencies.ResolveRepositoryDiscoverer(builder.Discoverer, fileSystem)
	if discovererError != nil {
		return discovererError
	}
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(Dependencies{
		Logger:           logger,
		Discoverer:       discoverer,
		RepositoryOpener: NewGitRepositoryOpener(gitExecutor, fileSystem),
		Branches:         builder.resolveProjects(),
	})
	if serviceError != nil {
		return serviceError
	}

	renderer, rendererError := report.NewRenderer(command.OutOrStdout(), colorMode)
	if rendererError != nil {
		return rendererError
	}

	reports, checkError := service.Check(command.Context(), options, renderer)
	if checkError != nil {
		return checkError
	}
	if len(reports) == 0 {
		shared.NewWriterReporter(command.OutOrStdout()).Printf(noRepositoriesMessageConstant)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, report.ColorMode, error) {
	configuration := builder.resolveConfiguration()

	root := configuration.Root
	if flags.FlagChanged(command, flags.RootFlagName) {
		root, _ = command.Flags().GetString(flags.RootFlagName)
	}
	jobs := configuration.Jobs
	if flags.FlagChanged(command, flags.JobsFlagName) {
		jobs, _ = command.Flags().GetInt(flags.JobsFlagName)
	}
	showCurrent := configuration.ShowCurrent
	if flags.FlagChanged(command, showCurrentFlagNameConstant) {
		showCurrent, _ = command.Flags().GetBool(showCurrentFlagNameConstant)
	}
	filter, _ := command.Flags().GetString(flags.FilterFlagName)

	colorValue, _ := command.Flags().GetString(colorFlagNameConstant)
	colorMode, colorError := flags.ValidateChoice(colorFlagNameConstant, colorValue, report.ColorModeChoices())
	if colorError != nil {
		return Options{}, "", colorError
	}

	options := Options{
		Root:        pathutils.NewHomeExpander().ResolveRoot(root),
		Filter:      filter,
		Jobs:        max(jobs, 0),
		ShowCurrent: showCurrent,
	}
	return options, report.ColorMode(colorMode), nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveProjects() projects.Configuration {
	if builder.ProjectsProvider == nil {
		return projects.NewConfiguration(nil)
	}
	return builder.ProjectsProvider()
}
