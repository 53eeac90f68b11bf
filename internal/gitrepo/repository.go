package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sweepkit/sweep/internal/execshell"
)

const (
	gitBranchSubcommandConstant  = "branch"
	gitRevListSubcommandConstant = "rev-list"
	gitConfigSubcommandConstant  = "config"
	gitRemoteSubcommandConstant  = "remote"

	remoteUpdateArgumentConstant = "update"
	pruneFlagConstant            = "--prune"
	remotesFlagConstant          = "--remotes"
	configurationGetFlagConstant = "--get"
	cherryPickFlagConstant       = "--cherry-pick"
	rightOnlyFlagConstant        = "--right-only"
	noMergesFlagConstant         = "--no-merges"
	singleRevisionLimitConstant  = "-n1"

	localBranchFormatFlagConstant  = "--format=%(refname:short)\t%(upstream:short)\t%(upstream:track)\t%(push:remotename)\t%(push:lstrip=3)\t%(push:track)"
	remoteBranchFormatFlagConstant = "--format=%(refname:short)\t%(refname:lstrip=3)"

	branchFieldSeparatorConstant   = "\t"
	listingLineSeparatorConstant   = "\n"
	syntheticEntryPrefixConstant   = "("
	revisionRangeTemplateConstant  = "%s...%s"
	localBranchFieldCountConstant  = 6
	remoteBranchFieldCountConstant = 2

	missingConfigurationExitCodeConstant = 1

	branchPushRemoteConfigurationKeyTemplateConstant = "branch.%s.pushRemote"
	branchRemoteConfigurationKeyTemplateConstant     = "branch.%s.remote"
	pushDefaultConfigurationKeyConstant              = "remote.pushDefault"
	defaultRemoteNameConstant                        = "origin"

	branchListingFormatErrorTemplateConstant = "branch listing entry does not contain %d fields: %q"
	emptyConfigurationValueConstant          = ""
)

// ErrGitExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New("git executor not configured")

// GitExecutor runs git commands on behalf of the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// BranchListingFormatError reports a listing line that does not match the expected field layout.
type BranchListingFormatError struct {
	Line               string
	ExpectedFieldCount int
}

// Error describes the malformed listing entry.
func (formatError BranchListingFormatError) Error() string {
	return fmt.Sprintf(branchListingFormatErrorTemplateConstant, formatError.ExpectedFieldCount, formatError.Line)
}

// RepositoryManager performs repository-level git operations through a GitExecutor.
type RepositoryManager struct {
	gitExecutor GitExecutor
}

// NewRepositoryManager constructs a repository manager around the supplied executor.
func NewRepositoryManager(gitExecutor GitExecutor) (*RepositoryManager, error) {
	if gitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{gitExecutor: gitExecutor}, nil
}

// ListLocalBranches enumerates local branches with their upstream and push tracking metadata.
func (manager *RepositoryManager) ListLocalBranches(executionContext context.Context, repositoryPath string) ([]LocalBranchInfo, error) {
	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, localBranchFormatFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}

	localBranches := []LocalBranchInfo{}
	for _, listingLine := range listingLines(executionResult.StandardOutput) {
		// git emits a synthetic parenthesized entry while HEAD is detached or a rebase is in progress.
		if strings.HasPrefix(listingLine, syntheticEntryPrefixConstant) {
			continue
		}

		branchFields := strings.Split(listingLine, branchFieldSeparatorConstant)
		if len(branchFields) != localBranchFieldCountConstant {
			return nil, BranchListingFormatError{Line: listingLine, ExpectedFieldCount: localBranchFieldCountConstant}
		}

		localBranch := LocalBranchInfo{
			Name:              branchFields[0],
			UpstreamShortName: branchFields[1],
			UpstreamTrack:     branchFields[2],
			PushRemoteName:    branchFields[3],
			PushReferenceName: branchFields[4],
			PushTrack:         branchFields[5],
		}
		if len(localBranch.PushRemoteName) == 0 && len(localBranch.PushReferenceName) > 0 {
			resolvedPushRemoteName, resolutionError := manager.resolvePushRemoteName(executionContext, repositoryPath, localBranch.Name)
			if resolutionError != nil {
				return nil, resolutionError
			}
			localBranch.PushRemoteName = resolvedPushRemoteName
		}
		localBranches = append(localBranches, localBranch)
	}
	return localBranches, nil
}

// ListRemoteBranches enumerates remote-tracking branches with qualified and remote-stripped names.
func (manager *RepositoryManager) ListRemoteBranches(executionContext context.Context, repositoryPath string) ([]RemoteBranchInfo, error) {
	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, remotesFlagConstant, remoteBranchFormatFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}

	remoteBranches := []RemoteBranchInfo{}
	for _, listingLine := range listingLines(executionResult.StandardOutput) {
		branchFields := strings.Split(listingLine, branchFieldSeparatorConstant)
		if len(branchFields) != remoteBranchFieldCountConstant {
			return nil, BranchListingFormatError{Line: listingLine, ExpectedFieldCount: remoteBranchFieldCountConstant}
		}
		remoteBranches = append(remoteBranches, RemoteBranchInfo{
			Name:              branchFields[0],
			NameWithoutRemote: branchFields[1],
		})
	}
	return remoteBranches, nil
}

// IsBranchMerged reports whether the branch contributes no commits absent from the base reference.
func (manager *RepositoryManager) IsBranchMerged(executionContext context.Context, repositoryPath string, baseReference string, branchReference string) (bool, error) {
	revisionRange := fmt.Sprintf(revisionRangeTemplateConstant, baseReference, branchReference)
	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevListSubcommandConstant, cherryPickFlagConstant, rightOnlyFlagConstant, noMergesFlagConstant, singleRevisionLimitConstant, revisionRange},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// GetConfigurationValue reads a configuration value, returning the fallback when the key is unset.
func (manager *RepositoryManager) GetConfigurationValue(executionContext context.Context, repositoryPath string, configurationKey string, fallbackValue string) (string, error) {
	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitConfigSubcommandConstant, configurationGetFlagConstant, configurationKey},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode == missingConfigurationExitCodeConstant {
			return fallbackValue, nil
		}
		return emptyConfigurationValueConstant, executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// UpdateRemotes refreshes every remote and prunes deleted remote-tracking references.
func (manager *RepositoryManager) UpdateRemotes(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, remoteUpdateArgumentConstant, pruneFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

func (manager *RepositoryManager) resolvePushRemoteName(executionContext context.Context, repositoryPath string, branchName string) (string, error) {
	branchPushRemoteKey := fmt.Sprintf(branchPushRemoteConfigurationKeyTemplateConstant, branchName)
	pushRemoteName, pushRemoteError := manager.GetConfigurationValue(executionContext, repositoryPath, branchPushRemoteKey, emptyConfigurationValueConstant)
	if pushRemoteError != nil {
		return emptyConfigurationValueConstant, pushRemoteError
	}
	if len(pushRemoteName) > 0 {
		return pushRemoteName, nil
	}

	pushDefaultName, pushDefaultError := manager.GetConfigurationValue(executionContext, repositoryPath, pushDefaultConfigurationKeyConstant, emptyConfigurationValueConstant)
	if pushDefaultError != nil {
		return emptyConfigurationValueConstant, pushDefaultError
	}
	if len(pushDefaultName) > 0 {
		return pushDefaultName, nil
	}

	branchRemoteKey := fmt.Sprintf(branchRemoteConfigurationKeyTemplateConstant, branchName)
	return manager.GetConfigurationValue(executionContext, repositoryPath, branchRemoteKey, defaultRemoteNameConstant)
}

// listingLines splits listing output into records without trimming them; trailing
// tabs are significant because they delimit empty fields on the final line.
func listingLines(listingOutput string) []string {
	recordLines := []string{}
	for _, outputLine := range strings.Split(listingOutput, listingLineSeparatorConstant) {
		if len(strings.TrimSpace(outputLine)) == 0 {
			continue
		}
		recordLines = append(recordLines, outputLine)
	}
	return recordLines
}
