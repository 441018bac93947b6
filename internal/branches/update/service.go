package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/sammy/internal/branches"
	"github.com/temirov/sammy/internal/gitrepo"
	"github.com/temirov/sammy/internal/report"
	"github.com/temirov/sammy/internal/repos/batch"
	"github.com/temirov/sammy/internal/repos/shared"
)

const (
	repositoryOpenerMissingMessageConstant = "repository opener not configured"
	branchResolverMissingMessageConstant   = "branch resolver not configured"
	prompterMissingMessageConstant         = "confirmation prompter not configured"
	originalBranchUnknownMessageConstant   = "unable to determine the branch to return to"
	restoreBranchErrorTemplateConstant     = "unable to switch %s back to %q: %v"
	originalBranchErrorTemplateConstant    = "%s: %w: %v"
	openRepositoryErrorTemplateConstant    = "unable to open repository %s: %w"
	renderErrorTemplateConstant            = "unable to render update of %s: %w"
	confirmationErrorTemplateConstant      = "confirmation failed: %w"
	confirmationListTemplateConstant       = "Are you sure you want to update %d repositories: [%s]\n"
	confirmationPromptConstant             = "Confirm (yes/no): "
	confirmationNameSeparatorConstant      = ", "
	updatedMessageConstant                 = "updated successfully"
	pendingChangesMessageConstant          = "pending changes"
	fetchFailedMessageConstant             = "unable to fetch"
	checkoutFailedTemplateConstant         = "unable to checkout '%s'"
	pullFailedMessageConstant              = "unable to pull"
	pendingChangesUnknownLogMessage        = "Unable to inspect working tree, treating it as modified"
	stepFailedLogMessageConstant           = "Update step failed"
	repositoryLogFieldConstant             = "repository"
	stepLogFieldConstant                   = "step"
	fetchStepConstant                      = "fetch"
	checkoutStepConstant                   = "checkout"
	pullStepConstant                       = "pull"
)

// ErrRepositoryOpenerNotConfigured indicates the service cannot open discovered repositories.
var ErrRepositoryOpenerNotConfigured = errors.New(repositoryOpenerMissingMessageConstant)

// ErrBranchResolverNotConfigured indicates the service cannot resolve target branches.
var ErrBranchResolverNotConfigured = errors.New(branchResolverMissingMessageConstant)

// ErrPrompterNotConfigured indicates confirmation was required but no prompter was supplied.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrOriginalBranchUnknown indicates stay was requested but the current branch could not be captured.
var ErrOriginalBranchUnknown = errors.New(originalBranchUnknownMessageConstant)

// RestoreBranchError reports a checkout that could not be returned to its original branch.
type RestoreBranchError struct {
	Repository string
	Branch     string
	Cause      error
}

func (restoreError RestoreBranchError) Error() string {
	return fmt.Sprintf(restoreBranchErrorTemplateConstant, restoreError.Repository, restoreError.Branch, restoreError.Cause)
}

// Unwrap exposes the checkout failure.
func (restoreError RestoreBranchError) Unwrap() error {
	return restoreError.Cause
}

// UpdateStatus is the terminal outcome of updating one repository.
type UpdateStatus int

// Update statuses.
const (
	UpdateStatusSuccess UpdateStatus = iota
	UpdateStatusPendingLocalChanges
	UpdateStatusFetchFailed
	UpdateStatusCheckoutFailed
	UpdateStatusPullFailed
)

var updateStatusNames = map[UpdateStatus]string{
	UpdateStatusSuccess:             "Success",
	UpdateStatusPendingLocalChanges: "PendingLocalChanges",
	UpdateStatusFetchFailed:         "FetchFailed",
	UpdateStatusCheckoutFailed:      "CheckoutFailed",
	UpdateStatusPullFailed:          "PullFailed",
}

func (status UpdateStatus) String() string {
	if name, known := updateStatusNames[status]; known {
		return name
	}
	return fmt.Sprintf("UpdateStatus(%d)", int(status))
}

// Message is the report text for the outcome of updating targetBranch.
func (status UpdateStatus) Message(targetBranch string) string {
	switch status {
	case UpdateStatusSuccess:
		return updatedMessageConstant
	case UpdateStatusPendingLocalChanges:
		return pendingChangesMessageConstant
	case UpdateStatusFetchFailed:
		return fetchFailedMessageConstant
	case UpdateStatusCheckoutFailed:
		return fmt.Sprintf(checkoutFailedTemplateConstant, targetBranch)
	default:
		return pullFailedMessageConstant
	}
}

// Category maps the outcome onto report coloring.
func (status UpdateStatus) Category() report.Category {
	switch status {
	case UpdateStatusSuccess:
		return report.CategorySuccess
	case UpdateStatusPendingLocalChanges:
		return report.CategoryWarning
	default:
		return report.CategoryFailure
	}
}

// Repository is the part of a repository handle the update engine drives.
type Repository interface {
	CurrentBranch(executionContext context.Context) (string, error)
	HasPendingChanges(executionContext context.Context) (bool, error)
	Fetch(executionContext context.Context) error
	Checkout(executionContext context.Context, branch string) error
	Pull(executionContext context.Context) error
}

// RepositoryOpener opens the handle for a discovered checkout path.
type RepositoryOpener func(path string) (Repository, error)

// NewGitRepositoryOpener opens gitrepo handles sharing executor and fileSystem.
func NewGitRepositoryOpener(executor shared.GitExecutor, fileSystem shared.FileSystem) RepositoryOpener {
	return func(path string) (Repository, error) {
		repository, openError := gitrepo.NewRepository(path, gitrepo.Dependencies{GitExecutor: executor, FileSystem: fileSystem})
		if openError != nil {
			return nil, openError
		}
		return repository, nil
	}
}

// BranchResolver maps a repository name to its target branch.
type BranchResolver interface {
	TargetBranch(repositoryName string) string
}

// LineRenderer receives report lines in discovery order.
type LineRenderer interface {
	Render(line report.Line) error
}

// ProjectReport is the update outcome of one repository.
type ProjectReport struct {
	Name          string
	CurrentBranch string
	TargetBranch  string
	Status        UpdateStatus
}

// Line converts the report into a renderable line showing the target branch.
func (projectReport ProjectReport) Line() report.Line {
	return report.Line{
		Name:       projectReport.Name,
		Branch:     projectReport.TargetBranch,
		ShowBranch: true,
		Message:    projectReport.Status.Message(projectReport.TargetBranch),
		Category:   projectReport.Status.Category(),
	}
}

// Apply runs the guarded fetch, checkout and pull sequence and stops at the first failing step.
// A working tree whose state cannot be read is treated as having pending changes.
func Apply(executionContext context.Context, repository Repository, targetBranch string, logger *zap.Logger) UpdateStatus {
	if logger == nil {
		logger = zap.NewNop()
	}

	pending, pendingError := repository.HasPendingChanges(executionContext)
	if pendingError != nil {
		logger.Warn(pendingChangesUnknownLogMessage, zap.Error(pendingError))
		return UpdateStatusPendingLocalChanges
	}
	if pending {
		return UpdateStatusPendingLocalChanges
	}

	if fetchError := repository.Fetch(executionContext); fetchError != nil {
		logger.Debug(stepFailedLogMessageConstant, zap.String(stepLogFieldConstant, fetchStepConstant), zap.Error(fetchError))
		return UpdateStatusFetchFailed
	}
	if checkoutError := repository.Checkout(executionContext, targetBranch); checkoutError != nil {
		logger.Debug(stepFailedLogMessageConstant, zap.String(stepLogFieldConstant, checkoutStepConstant), zap.Error(checkoutError))
		return UpdateStatusCheckoutFailed
	}
	if pullError := repository.Pull(executionContext); pullError != nil {
		logger.Debug(stepFailedLogMessageConstant, zap.String(stepLogFieldConstant, pullStepConstant), zap.Error(pullError))
		return UpdateStatusPullFailed
	}
	return UpdateStatusSuccess
}

// Dependencies enumerates the collaborators of the update service.
type Dependencies struct {
	Logger           *zap.Logger
	Discoverer       shared.RepositoryDiscoverer
	RepositoryOpener RepositoryOpener
	Branches         BranchResolver
	Prompter         shared.ConfirmationPrompter
	Reporter         shared.Reporter
}

// Options configures an update run.
type Options struct {
	Root               string
	Filter             string
	Branch             string
	Stay               bool
	Jobs               int
	ConfirmationPolicy shared.ConfirmationPolicy
}

// Result summarizes an update run.
type Result struct {
	Reports   []ProjectReport
	Cancelled bool
}

// Service runs the update engine over every discovered repository.
type Service struct {
	logger     *zap.Logger
	discoverer shared.RepositoryDiscoverer
	opener     RepositoryOpener
	branches   BranchResolver
	prompter   shared.ConfirmationPrompter
	reporter   shared.Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Discoverer == nil {
		return nil, branches.ErrDiscovererNotConfigured
	}
	if dependencies.RepositoryOpener == nil {
		return nil, ErrRepositoryOpenerNotConfigured
	}
	if dependencies.Branches == nil {
		return nil, ErrBranchResolverNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	return &Service{
		logger:     logger,
		discoverer: dependencies.Discoverer,
		opener:     dependencies.RepositoryOpener,
		branches:   dependencies.Branches,
		prompter:   dependencies.Prompter,
		reporter:   reporter,
	}, nil
}

// Update confirms the batch and then updates every repository concurrently, rendering one line per
// repository in discovery order. Declining the confirmation returns a cancelled result and touches nothing.
// An empty result that is not cancelled means nothing was discovered.
func (service *Service) Update(executionContext context.Context, options Options, renderer LineRenderer) (Result, error) {
	targets, collectError := branches.CollectTargets(service.discoverer, options.Root, options.Filter)
	if collectError != nil {
		return Result{}, collectError
	}
	if len(targets) == 0 {
		return Result{}, nil
	}

	confirmed, confirmationError := service.confirm(targets, options.ConfirmationPolicy)
	if confirmationError != nil {
		return Result{}, confirmationError
	}
	if !confirmed {
		return Result{Cancelled: true}, nil
	}

	tasks := make([]batch.Task[ProjectReport], 0, len(targets))
	for _, target := range targets {
		currentTarget := target
		tasks = append(tasks, func(taskContext context.Context) (ProjectReport, error) {
			return service.updateRepository(taskContext, currentTarget, options)
		})
	}

	result := Result{Reports: make([]ProjectReport, 0, len(targets))}
	runError := batch.Run(executionContext, options.Jobs, tasks, func(index int, projectReport ProjectReport) error {
		result.Reports = append(result.Reports, projectReport)
		if renderer == nil {
			return nil
		}
		if renderError := renderer.Render(projectReport.Line()); renderError != nil {
			return fmt.Errorf(renderErrorTemplateConstant, projectReport.Name, renderError)
		}
		return nil
	})
	return result, runError
}

func (service *Service) confirm(targets []branches.Target, policy shared.ConfirmationPolicy) (bool, error) {
	if !policy.ShouldPrompt() {
		return true, nil
	}
	if service.prompter == nil {
		return false, ErrPrompterNotConfigured
	}

	names := branches.TargetNames(targets)
	service.reporter.Printf(confirmationListTemplateConstant, len(names), strings.Join(names, confirmationNameSeparatorConstant))
	confirmed, promptError := service.prompter.Confirm(confirmationPromptConstant)
	if promptError != nil {
		return false, fmt.Errorf(confirmationErrorTemplateConstant, promptError)
	}
	return confirmed, nil
}

func (service *Service) updateRepository(executionContext context.Context, target branches.Target, options Options) (ProjectReport, error) {
	repository, openError := service.opener(target.Path)
	if openError != nil {
		return ProjectReport{}, fmt.Errorf(openRepositoryErrorTemplateConstant, target.Path, openError)
	}

	targetBranch := strings.TrimSpace(options.Branch)
	if len(targetBranch) == 0 {
		targetBranch = service.branches.TargetBranch(target.Name)
	}

	repositoryLogger := service.logger.With(zap.String(repositoryLogFieldConstant, target.Name))
	currentBranch, branchError := repository.CurrentBranch(executionContext)
	if branchError != nil {
		if options.Stay {
			return ProjectReport{}, fmt.Errorf(originalBranchErrorTemplateConstant, target.Name, ErrOriginalBranchUnknown, branchError)
		}
		repositoryLogger.Warn(originalBranchUnknownMessageConstant, zap.Error(branchError))
	}

	projectReport := ProjectReport{
		Name:          target.Name,
		CurrentBranch: currentBranch,
		TargetBranch:  targetBranch,
		Status:        Apply(executionContext, repository, targetBranch, repositoryLogger),
	}

	if options.Stay {
		if restoreError := repository.Checkout(executionContext, currentBranch); restoreError != nil {
			return ProjectReport{}, RestoreBranchError{Repository: target.Name, Branch: currentBranch, Cause: restoreError}
		}
	}
	return projectReport, nil
}
