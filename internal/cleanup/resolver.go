package cleanup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sweepkit/sweep/internal/gitrepo"
)

const (
	baseBranchConfigurationKeyConstant = "cleanup.base"
	defaultBaseBranchNameConstant      = "master"

	baseUpstreamGoneErrorTemplateConstant = "upstream %q of base branch %q no longer exists"
	baseNotFoundErrorTemplateConstant     = "no local or remote branch matches base %q"
	ambiguousBaseErrorTemplateConstant    = "base %q is ambiguous across remotes: %s"
	ambiguousCandidateSeparatorConstant   = ", "
)

// ErrConfigurationReaderNotConfigured indicates base resolution lacks a configuration reader.
var ErrConfigurationReaderNotConfigured = errors.New("configuration reader not configured")

// BaseUpstreamGoneError reports a base branch whose tracked upstream vanished.
type BaseUpstreamGoneError struct {
	BaseName     string
	UpstreamName string
}

// Error describes the dangling upstream.
func (upstreamGoneError BaseUpstreamGoneError) Error() string {
	return fmt.Sprintf(baseUpstreamGoneErrorTemplateConstant, upstreamGoneError.UpstreamName, upstreamGoneError.BaseName)
}

// BaseNotFoundError reports a base name matching no local or remote branch.
type BaseNotFoundError struct {
	BaseName string
}

// Error describes the missing base reference.
func (notFoundError BaseNotFoundError) Error() string {
	return fmt.Sprintf(baseNotFoundErrorTemplateConstant, notFoundError.BaseName)
}

// AmbiguousBaseError reports a short base name matching branches on several remotes.
type AmbiguousBaseError struct {
	BaseName   string
	Candidates []string
}

// Error enumerates every matching remote branch.
func (ambiguousError AmbiguousBaseError) Error() string {
	return fmt.Sprintf(ambiguousBaseErrorTemplateConstant, ambiguousError.BaseName, strings.Join(ambiguousError.Candidates, ambiguousCandidateSeparatorConstant))
}

// IsBaseResolutionError reports whether the error originated in base resolution.
func IsBaseResolutionError(candidateError error) bool {
	var upstreamGoneError BaseUpstreamGoneError
	var notFoundError BaseNotFoundError
	var ambiguousError AmbiguousBaseError
	return errors.As(candidateError, &upstreamGoneError) ||
		errors.As(candidateError, &notFoundError) ||
		errors.As(candidateError, &ambiguousError)
}

// RemoteBranchesProvider lazily supplies the remote-tracking branch listing.
type RemoteBranchesProvider func(executionContext context.Context) ([]gitrepo.RemoteBranchInfo, error)

// BaseResolver turns operator-supplied or configured base names into concrete references.
type BaseResolver struct {
	configurationReader ConfigurationValueReader
}

// NewBaseResolver constructs a BaseResolver reading defaults from the repository configuration.
func NewBaseResolver(configurationReader ConfigurationValueReader) (*BaseResolver, error) {
	if configurationReader == nil {
		return nil, ErrConfigurationReaderNotConfigured
	}
	return &BaseResolver{configurationReader: configurationReader}, nil
}

// Resolve determines the reference merge status is judged against.
//
// An explicit requested name is returned untouched. Otherwise the configured
// base name is matched first against local branches, preferring the tracked
// upstream counterpart, then against remote-tracking branches by qualified and
// short name. Short-name matches spanning several remotes are fatal.
func (resolver *BaseResolver) Resolve(executionContext context.Context, repositoryPath string, requestedBaseName string, localBranches []gitrepo.LocalBranchInfo, remoteBranchesProvider RemoteBranchesProvider) (string, error) {
	if len(requestedBaseName) > 0 {
		return requestedBaseName, nil
	}

	baseName, configurationError := resolver.configuredBaseName(executionContext, repositoryPath)
	if configurationError != nil {
		return "", configurationError
	}

	for _, localBranch := range localBranches {
		if localBranch.Name != baseName {
			continue
		}
		if localBranch.UpstreamGone() {
			return "", BaseUpstreamGoneError{BaseName: baseName, UpstreamName: localBranch.UpstreamShortName}
		}
		if len(localBranch.UpstreamShortName) > 0 {
			return localBranch.UpstreamShortName, nil
		}
		// A local match without tracking metadata cannot anchor merge
		// comparisons; continue with the remote listings.
		break
	}

	remoteBranches, remoteListingError := remoteBranchesProvider(executionContext)
	if remoteListingError != nil {
		return "", remoteListingError
	}

	for _, remoteBranch := range remoteBranches {
		if remoteBranch.Name == baseName {
			return remoteBranch.Name, nil
		}
	}

	candidateNames := make([]string, 0, len(remoteBranches))
	for _, remoteBranch := range remoteBranches {
		if remoteBranch.NameWithoutRemote == baseName {
			candidateNames = append(candidateNames, remoteBranch.Name)
		}
	}

	switch len(candidateNames) {
	case 0:
		return "", BaseNotFoundError{BaseName: baseName}
	case 1:
		return candidateNames[0], nil
	default:
		return "", AmbiguousBaseError{BaseName: baseName, Candidates: candidateNames}
	}
}

func (resolver *BaseResolver) configuredBaseName(executionContext context.Context, repositoryPath string) (string, error) {
	configuredValue, configurationError := resolver.configurationReader.GetConfigurationValue(executionContext, repositoryPath, baseBranchConfigurationKeyConstant, defaultBaseBranchNameConstant)
	if configurationError != nil {
		return "", configurationError
	}

	trimmedValue := strings.TrimSpace(configuredValue)
	if len(trimmedValue) == 0 {
		return defaultBaseBranchNameConstant, nil
	}
	return trimmedValue, nil
}
