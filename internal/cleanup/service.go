package cleanup

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/sweepkit/sweep/internal/gitrepo"
)

const (
	planComputedMessageConstant       = "Removal plan computed"
	logFieldBaseReferenceConstant     = "base_reference"
	logFieldLocalMergedCountConstant  = "local_merged"
	logFieldLocalGoneCountConstant    = "local_gone"
	logFieldRemoteMergedCountConstant = "remote_merged"
)

// Sentinel guard errors for plan service construction.
var (
	ErrRepositoryManagerNotConfigured = errors.New("repository manager not configured")
	ErrOutputWriterNotConfigured      = errors.New("output writer not configured")
)

// PlanOptions carries the inputs of one plan computation.
type PlanOptions struct {
	RepositoryPath string
	BaseBranch     string
	UpdateRemotes  bool
	Format         OutputFormat
}

// PlanService orchestrates remote refresh, branch listing, base resolution,
// classification, and rendering for one repository.
type PlanService struct {
	logger            *zap.Logger
	repositoryManager RepositoryManager
	baseResolver      *BaseResolver
	planRenderer      *PlanRenderer
	outputWriter      io.Writer
}

// NewPlanService constructs a PlanService writing rendered plans to the provided writer.
func NewPlanService(logger *zap.Logger, repositoryManager RepositoryManager, outputWriter io.Writer) (*PlanService, error) {
	if repositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if outputWriter == nil {
		return nil, ErrOutputWriterNotConfigured
	}

	resolvedLogger := logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	baseResolver, resolverError := NewBaseResolver(repositoryManager)
	if resolverError != nil {
		return nil, resolverError
	}

	return &PlanService{
		logger:            resolvedLogger,
		repositoryManager: repositoryManager,
		baseResolver:      baseResolver,
		planRenderer:      NewPlanRenderer(),
		outputWriter:      outputWriter,
	}, nil
}

// Run computes the removal plan and writes its rendered representation.
func (service *PlanService) Run(executionContext context.Context, options PlanOptions) error {
	if options.UpdateRemotes {
		if updateError := service.repositoryManager.UpdateRemotes(executionContext, options.RepositoryPath); updateError != nil {
			return updateError
		}
	}

	localBranches, listingError := service.repositoryManager.ListLocalBranches(executionContext, options.RepositoryPath)
	if listingError != nil {
		return listingError
	}

	remoteBranchesProvider := func(providerContext context.Context) ([]gitrepo.RemoteBranchInfo, error) {
		return service.repositoryManager.ListRemoteBranches(providerContext, options.RepositoryPath)
	}

	baseReference, resolutionError := service.baseResolver.Resolve(executionContext, options.RepositoryPath, options.BaseBranch, localBranches, remoteBranchesProvider)
	if resolutionError != nil {
		return resolutionError
	}

	ancestryChecker := func(checkContext context.Context, checkedBaseReference string, branchName string) (bool, error) {
		return service.repositoryManager.IsBranchMerged(checkContext, options.RepositoryPath, checkedBaseReference, branchName)
	}

	removalPlan, classificationError := ClassifyBranches(executionContext, baseReference, localBranches, ancestryChecker)
	if classificationError != nil {
		return classificationError
	}

	service.logger.Info(
		planComputedMessageConstant,
		zap.String(logFieldBaseReferenceConstant, baseReference),
		zap.Int(logFieldLocalMergedCountConstant, len(removalPlan.LocalMerged)),
		zap.Int(logFieldLocalGoneCountConstant, len(removalPlan.LocalGone)),
		zap.Int(logFieldRemoteMergedCountConstant, countRemoteReferences(removalPlan.RemoteMerged)),
	)

	renderedPlan, renderingError := service.planRenderer.Render(removalPlan, options.Format)
	if renderingError != nil {
		return renderingError
	}

	_, writeError := io.WriteString(service.outputWriter, renderedPlan)
	return writeError
}

func countRemoteReferences(referencesByRemote map[string][]string) int {
	totalReferences := 0
	for _, referenceNames := range referencesByRemote {
		totalReferences += len(referenceNames)
	}
	return totalReferences
}
