package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitLSRemoteSubcommandNameConstant = "ls-remote"
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitRevListSubcommandNameConstant  = "rev-list"
	gitStatusSubcommandNameConstant   = "status"
	gitFetchSubcommandNameConstant    = "fetch"
	gitCheckoutSubcommandNameConstant = "checkout"
	gitPullSubcommandNameConstant     = "pull"
	gitAbbrevRefFlagConstant          = "--abbrev-ref"
	gitHeadsFlagConstant              = "--heads"
)

// stageTemplates holds start, success, failure and execution-failure templates.
// Start and success templates take the subject and working directory; failure
// templates additionally take the exit code and standard error suffix or the failure text.
type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	remoteHeadTemplates = stageTemplates{
		start:            "Querying remote head of %s in %s",
		success:          "Remote head of %s in %s resolved",
		failure:          "Could not query remote head of %s in %s (exit code %d%s)",
		executionFailure: "Unable to query remote head of %s in %s: %s",
	}
	currentBranchTemplates = stageTemplates{
		start:            "Identifying current branch%s in %s",
		success:          "Identified current branch%s in %s",
		failure:          "Failed to identify current branch%s in %s (exit code %d%s)",
		executionFailure: "Unable to identify current branch%s in %s: %s",
	}
	localHeadTemplates = stageTemplates{
		start:            "Resolving %s in %s",
		success:          "Resolved %s in %s",
		failure:          "Failed to resolve %s in %s (exit code %d%s)",
		executionFailure: "Unable to resolve %s in %s: %s",
	}
	divergenceTemplates = stageTemplates{
		start:            "Counting local-only commits for %s in %s",
		success:          "Counted local-only commits for %s in %s",
		failure:          "Failed to count local-only commits for %s in %s (exit code %d%s)",
		executionFailure: "Unable to count local-only commits for %s in %s: %s",
	}
	statusTemplates = stageTemplates{
		start:            "Inspecting working tree%s of %s",
		success:          "Inspected working tree%s of %s",
		failure:          "Failed to inspect working tree%s of %s (exit code %d%s)",
		executionFailure: "Unable to inspect working tree%s of %s: %s",
	}
	fetchTemplates = stageTemplates{
		start:            "Fetching%s in %s",
		success:          "Fetched%s in %s",
		failure:          "Failed to fetch%s in %s (exit code %d%s)",
		executionFailure: "Unable to fetch%s in %s: %s",
	}
	checkoutTemplates = stageTemplates{
		start:            "Switching to branch %s in %s",
		success:          "Switched to branch %s in %s",
		failure:          "Failed to switch to branch %s in %s (exit code %d%s)",
		executionFailure: "Unable to switch to branch %s in %s: %s",
	}
	pullTemplates = stageTemplates{
		start:            "Pulling%s in %s",
		success:          "Pulled%s in %s",
		failure:          "Failed to pull%s in %s (exit code %d%s)",
		executionFailure: "Unable to pull%s in %s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	subject, templates, known := formatter.describeGitSubcommand(arguments)
	if !known {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(templates.executionFailure, subject, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitSubcommand(arguments []string) (string, stageTemplates, bool) {
	subcommand := strings.TrimSpace(arguments[0])
	operands := nonFlagArguments(arguments[1:])

	switch subcommand {
	case gitLSRemoteSubcommandNameConstant:
		if !containsArgument(arguments, gitHeadsFlagConstant) || len(operands) < 2 {
			return emptyStringConstant, stageTemplates{}, false
		}
		return operands[0] + "/" + operands[1], remoteHeadTemplates, true
	case gitRevParseSubcommandNameConstant:
		if containsArgument(arguments, gitAbbrevRefFlagConstant) {
			return emptyStringConstant, currentBranchTemplates, true
		}
		return formatter.firstOrUnknown(operands), localHeadTemplates, true
	case gitRevListSubcommandNameConstant:
		return formatter.firstOrUnknown(operands), divergenceTemplates, true
	case gitStatusSubcommandNameConstant:
		return emptyStringConstant, statusTemplates, true
	case gitFetchSubcommandNameConstant:
		return formatter.optionalSubject(operands), fetchTemplates, true
	case gitCheckoutSubcommandNameConstant:
		return formatter.firstOrUnknown(operands), checkoutTemplates, true
	case gitPullSubcommandNameConstant:
		return formatter.optionalSubject(operands), pullTemplates, true
	default:
		return emptyStringConstant, stageTemplates{}, false
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	label := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, label)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, label)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, label, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, label, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	workingDirectorySuffix := emptyStringConstant
	if trimmed := strings.TrimSpace(command.Details.WorkingDirectory); len(trimmed) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmed)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, describeCommand(command), workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmed := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmed) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmed := strings.TrimSpace(standardError)
	if len(trimmed) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmed)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) firstOrUnknown(operands []string) string {
	if len(operands) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return operands[0]
}

func (formatter CommandMessageFormatter) optionalSubject(operands []string) string {
	if len(operands) == 0 {
		return emptyStringConstant
	}
	return " " + strings.Join(operands, " ")
}

func nonFlagArguments(arguments []string) []string {
	operands := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		operands = append(operands, trimmed)
	}
	return operands
}

func containsArgument(arguments []string, target string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == target {
			return true
		}
	}
	return false
}
