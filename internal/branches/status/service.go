package status

import (
	"context"
	"errors"
	"fmt"

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
	openRepositoryErrorTemplateConstant    = "unable to open repository %s: %w"
	renderErrorTemplateConstant            = "unable to render status of %s: %w"
	upToDateMessageConstant                = "up to date"
	updateAvailableMessageConstant         = "update available"
	localAheadMessageConstant              = "local is ahead"
	remoteBranchMissingTemplateConstant    = "remote '%s' branch not found"
	localBranchMissingTemplateConstant     = "local '%s' branch not found"
	divergenceFallbackLogMessageConstant   = "Unable to count local-only commits, reporting update available"
	currentBranchUnknownLogMessageConstant = "Unable to determine current branch"
	repositoryLogFieldConstant             = "repository"
	branchLogFieldConstant                 = "branch"
)

// ErrRepositoryOpenerNotConfigured indicates the service cannot open discovered repositories.
var ErrRepositoryOpenerNotConfigured = errors.New(repositoryOpenerMissingMessageConstant)

// ErrBranchResolverNotConfigured indicates the service cannot resolve target branches.
var ErrBranchResolverNotConfigured = errors.New(branchResolverMissingMessageConstant)

// BranchStatus is the relation between a local branch and its origin counterpart.
type BranchStatus int

// Branch statuses.
const (
	BranchStatusUpToDate BranchStatus = iota
	BranchStatusUpdateAvailable
	BranchStatusLocalAhead
	BranchStatusRemoteBranchNotFound
	BranchStatusLocalBranchNotFound
)

var branchStatusNames = map[BranchStatus]string{
	BranchStatusUpToDate:             "UpToDate",
	BranchStatusUpdateAvailable:      "UpdateAvailable",
	BranchStatusLocalAhead:           "LocalAhead",
	BranchStatusRemoteBranchNotFound: "RemoteBranchNotFound",
	BranchStatusLocalBranchNotFound:  "LocalBranchNotFound",
}

func (status BranchStatus) String() string {
	if name, known := branchStatusNames[status]; known {
		return name
	}
	return fmt.Sprintf("BranchStatus(%d)", int(status))
}

// Message is the report text for the status of targetBranch.
func (status BranchStatus) Message(targetBranch string) string {
	switch status {
	case BranchStatusUpToDate:
		return upToDateMessageConstant
	case BranchStatusUpdateAvailable:
		return updateAvailableMessageConstant
	case BranchStatusLocalAhead:
		return localAheadMessageConstant
	case BranchStatusRemoteBranchNotFound:
		return fmt.Sprintf(remoteBranchMissingTemplateConstant, targetBranch)
	default:
		return fmt.Sprintf(localBranchMissingTemplateConstant, targetBranch)
	}
}

// Category maps the status onto report coloring.
func (status BranchStatus) Category() report.Category {
	switch status {
	case BranchStatusUpToDate:
		return report.CategorySuccess
	case BranchStatusUpdateAvailable, BranchStatusLocalAhead:
		return report.CategoryWarning
	default:
		return report.CategoryFailure
	}
}

// Repository is the part of a repository handle the status engine queries.
type Repository interface {
	CurrentBranch(executionContext context.Context) (string, error)
	RemoteHead(executionContext context.Context, branch string) (string, bool)
	LocalHead(executionContext context.Context, branch string) (string, bool)
	DivergenceCount(executionContext context.Context, branch string) (int, error)
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

// ProjectReport is the status outcome of one repository.
type ProjectReport struct {
	Name          string
	CurrentBranch string
	TargetBranch  string
	Status        BranchStatus
}

// Line converts the report into a renderable line.
func (projectReport ProjectReport) Line(showCurrent bool) report.Line {
	return report.Line{
		Name:       projectReport.Name,
		Branch:     projectReport.CurrentBranch,
		ShowBranch: showCurrent,
		Message:    projectReport.Status.Message(projectReport.TargetBranch),
		Category:   projectReport.Status.Category(),
	}
}

// Classify determines the status of targetBranch. The remote is consulted before the local branch,
// and differing heads are told apart by the number of local-only commits. A branch that is both ahead
// and behind is reported as LocalAhead. When the count cannot be obtained the status is UpdateAvailable.
func Classify(executionContext context.Context, repository Repository, targetBranch string, logger *zap.Logger) BranchStatus {
	remoteHead, remoteFound := repository.RemoteHead(executionContext, targetBranch)
	if !remoteFound {
		return BranchStatusRemoteBranchNotFound
	}

	localHead, localFound := repository.LocalHead(executionContext, targetBranch)
	if !localFound {
		return BranchStatusLocalBranchNotFound
	}

	if localHead == remoteHead {
		return BranchStatusUpToDate
	}

	localOnlyCommits, divergenceError := repository.DivergenceCount(executionContext, targetBranch)
	if divergenceError != nil {
		if logger != nil {
			logger.Warn(divergenceFallbackLogMessageConstant, zap.String(branchLogFieldConstant, targetBranch), zap.Error(divergenceError))
		}
		return BranchStatusUpdateAvailable
	}
	if localOnlyCommits > 0 {
		return BranchStatusLocalAhead
	}
	return BranchStatusUpdateAvailable
}

// Dependencies enumerates the collaborators of the status service.
type Dependencies struct {
	Logger           *zap.Logger
	Discoverer       shared.RepositoryDiscoverer
	RepositoryOpener RepositoryOpener
	Branches         BranchResolver
}

// Options configures a status run.
type Options struct {
	Root        string
	Filter      string
	Jobs        int
	ShowCurrent bool
}

// Service runs the status engine over every discovered repository.
type Service struct {
	logger     *zap.Logger
	discoverer shared.RepositoryDiscoverer
	opener     RepositoryOpener
	branches   BranchResolver
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
	return &Service{
		logger:     logger,
		discoverer: dependencies.Discoverer,
		opener:     dependencies.RepositoryOpener,
		branches:   dependencies.Branches,
	}, nil
}

// Check classifies every repository concurrently and renders one line per repository in discovery order.
// It returns the reports rendered so far; an empty result with a nil error means nothing was discovered.
func (service *Service) Check(executionContext context.Context, options Options, renderer LineRenderer) ([]ProjectReport, error) {
	targets, collectError := branches.CollectTargets(service.discoverer, options.Root, options.Filter)
	if collectError != nil {
		return nil, collectError
	}
	if len(targets) == 0 {
		return nil, nil
	}

	tasks := make([]batch.Task[ProjectReport], 0, len(targets))
	for _, target := range targets {
		currentTarget := target
		tasks = append(tasks, func(taskContext context.Context) (ProjectReport, error) {
			return service.checkRepository(taskContext, currentTarget, options.ShowCurrent)
		})
	}

	reports := make([]ProjectReport, 0, len(targets))
	runError := batch.Run(executionContext, options.Jobs, tasks, func(index int, projectReport ProjectReport) error {
		reports = append(reports, projectReport)
		if renderer == nil {
			return nil
		}
		if renderError := renderer.Render(projectReport.Line(options.ShowCurrent)); renderError != nil {
			return fmt.Errorf(renderErrorTemplateConstant, projectReport.Name, renderError)
		}
		return nil
	})
	return reports, runError
}

func (service *Service) checkRepository(executionContext context.Context, target branches.Target, showCurrent bool) (ProjectReport, error) {
	repository, openError := service.opener(target.Path)
	if openError != nil {
		return ProjectReport{}, fmt.Errorf(openRepositoryErrorTemplateConstant, target.Path, openError)
	}

	targetBranch := service.branches.TargetBranch(target.Name)
	projectReport := ProjectReport{Name: target.Name, TargetBranch: targetBranch}

	if showCurrent {
		currentBranch, branchError := repository.CurrentBranch(executionContext)
		if branchError != nil {
			service.logger.Warn(currentBranchUnknownLogMessageConstant, zap.String(repositoryLogFieldConstant, target.Name), zap.Error(branchError))
		}
		projectReport.CurrentBranch = currentBranch
	}

	repositoryLogger := service.logger.With(zap.String(repositoryLogFieldConstant, target.Name))
	projectReport.Status = Classify(executionContext, repository, targetBranch, repositoryLogger)
	return projectReport, nil
}
