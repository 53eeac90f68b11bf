package cleanup

import (
	"context"

	"go.uber.org/zap"

	"github.com/sweepkit/sweep/internal/execshell"
	"github.com/sweepkit/sweep/internal/gitrepo"
)

// GitExecutor runs git commands on behalf of the sweep workflow.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ConfigurationValueReader reads one git configuration value with a fallback.
type ConfigurationValueReader interface {
	GetConfigurationValue(executionContext context.Context, repositoryPath string, configurationKey string, fallbackValue string) (string, error)
}

// RepositoryManager inspects branch and configuration state inside a repository.
type RepositoryManager interface {
	ListLocalBranches(executionContext context.Context, repositoryPath string) ([]gitrepo.LocalBranchInfo, error)
	ListRemoteBranches(executionContext context.Context, repositoryPath string) ([]gitrepo.RemoteBranchInfo, error)
	IsBranchMerged(executionContext context.Context, repositoryPath string, baseReference string, branchName string) (bool, error)
	GetConfigurationValue(executionContext context.Context, repositoryPath string, configurationKey string, fallbackValue string) (string, error)
	UpdateRemotes(executionContext context.Context, repositoryPath string) error
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing GitExecutor, logger *zap.Logger, eventObserver execshell.CommandEventObserver) (GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, eventObserver)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveRepositoryManager(existing RepositoryManager, executor GitExecutor) (RepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}
