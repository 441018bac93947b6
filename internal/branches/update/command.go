package update

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
	commandUseConstant              = "update"
	commandShortDescriptionConstant = "Fast-forward the target branch of every repository"
	commandLongDescriptionConstant  = "update fetches, checks out the target branch, and pulls it with --ff-only in every repository directly under the root directory. Repositories with uncommitted changes are skipped."
	stayFlagNameConstant            = "stay"
	stayFlagShorthandConstant       = "s"
	stayFlagUsageConstant           = "Return each repository to the branch it was on before the update"
	colorFlagNameConstant           = "color"
	colorFlagUsageConstant          = "Color status messages"
	noRepositoriesMessageConstant   = "No repositories found\n"
	updateCancelledMessageConstant  = "Update cancelled\n"
)

// CommandBuilder assembles the update command.
type CommandBuilder struct {
	LoggerProvider               branches.LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	ProjectsProvider             func() projects.Configuration
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	Discoverer                   shared.RepositoryDiscoverer
	Prompter                     shared.ConfirmationPrompter
	HumanReadableLoggingProvider func() bool
}

// Build constructs the update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flags.BindSelectionFlags(command, flags.SelectionFlagValues{Root: defaults.Root}, flags.StandardSelectionFlagDefinitions(true))
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{AssumeYes: defaults.AssumeYes, Jobs: defaults.Jobs}, flags.StandardExecutionFlagDefinitions(true))

	var stay bool
	flags.AddToggleFlag(command.Flags(), &stay, stayFlagNameConstant, stayFlagShorthandConstant, defaults.Stay, stayFlagUsageConstant)
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

	reporter := shared.NewWriterReporter(command.OutOrStdout())
	service, serviceError := NewService(Dependencies{
		Logger:           logger,
		Discoverer:       discoverer,
		RepositoryOpener: NewGitRepositoryOpener(gitExecutor, fileSystem),
		Branches:         builder.resolveProjects(),
		Prompter:         dependencies.ResolveConfirmationPrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout()),
		Reporter:         reporter,
	})
	if serviceError != nil {
		return serviceError
	}

	renderer, rendererError := report.NewRenderer(command.OutOrStdout(), colorMode)
	if rendererError != nil {
		return rendererError
	}

	result, updateError := service.Update(command.Context(), options, renderer)
	if updateError != nil {
		return updateError
	}

	switch {
	case result.Cancelled:
		reporter.Printf(updateCancelledMessageConstant)
	case len(result.Reports) == 0:
		reporter.Printf(noRepositoriesMessageConstant)
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
	stay := configuration.Stay
	if flags.FlagChanged(command, stayFlagNameConstant) {
		stay, _ = command.Flags().GetBool(stayFlagNameConstant)
	}
	assumeYes := configuration.AssumeYes
	if flags.FlagChanged(command, flags.AssumeYesFlagName) {
		assumeYes, _ = command.Flags().GetBool(flags.AssumeYesFlagName)
	}
	filter, _ := command.Flags().GetString(flags.FilterFlagName)
	branch, _ := command.Flags().GetString(flags.BranchFlagName)

	colorValue, _ := command.Flags().GetString(colorFlagNameConstant)
	colorMode, colorError := flags.ValidateChoice(colorFlagNameConstant, colorValue, report.ColorModeChoices())
	if colorError != nil {
		return Options{}, "", colorError
	}

	options := Options{
		Root:               pathutils.NewHomeExpander().ResolveRoot(root),
		Filter:             filter,
		Branch:             branch,
		Stay:               stay,
		Jobs:               max(jobs, 0),
		ConfirmationPolicy: shared.ConfirmationPolicyFromBool(assumeYes),
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
