package cleanup_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweepkit/sweep/internal/cleanup"
	"github.com/sweepkit/sweep/internal/gitrepo"
)

const (
	resolverSubtestNameTemplateConstant = "%d_%s"
	testRepositoryPathConstant          = "/workspace/project"
	testBaseConfigurationKeyConstant    = "cleanup.base"
	testMasterBranchNameConstant        = "master"
	testMasterUpstreamNameConstant      = "origin/master"
	testDevelopBranchNameConstant       = "develop"
	testDevelopUpstreamNameConstant     = "origin/develop"
)

type fakeConfigurationReader struct {
	values   map[string]string
	failure  error
	readKeys []string
}

func (reader *fakeConfigurationReader) GetConfigurationValue(_ context.Context, _ string, configurationKey string, fallbackValue string) (string, error) {
	if reader.failure != nil {
		return "", reader.failure
	}
	reader.readKeys = append(reader.readKeys, configurationKey)
	value, exists := reader.values[configurationKey]
	if !exists {
		return fallbackValue, nil
	}
	return value, nil
}

type countingRemoteBranchesProvider struct {
	remoteBranches []gitrepo.RemoteBranchInfo
	failure        error
	invocations    int
}

func (provider *countingRemoteBranchesProvider) provide(_ context.Context) ([]gitrepo.RemoteBranchInfo, error) {
	provider.invocations++
	if provider.failure != nil {
		return nil, provider.failure
	}
	return provider.remoteBranches, nil
}

func TestNewBaseResolverRequiresConfigurationReader(testInstance *testing.T) {
	resolver, creationError := cleanup.NewBaseResolver(nil)

	require.ErrorIs(testInstance, creationError, cleanup.ErrConfigurationReaderNotConfigured)
	require.Nil(testInstance, resolver)
}

func TestBaseResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedBaseName   string
		configurationValues map[string]string
		localBranches       []gitrepo.LocalBranchInfo
		remoteBranches      []gitrepo.RemoteBranchInfo
		expectedReference   string
		expectedError       error
	}{
		{
			name:              "explicit_base_bypasses_resolution",
			requestedBaseName: "origin/main",
			expectedReference: "origin/main",
		},
		{
			name: "configured_default_prefers_local_branch_upstream",
			localBranches: []gitrepo.LocalBranchInfo{
				{Name: testMasterBranchNameConstant, UpstreamShortName: testMasterUpstreamNameConstant},
			},
			expectedReference: testMasterUpstreamNameConstant,
		},
		{
			name:                "configured_custom_base_matches_local_branch",
			configurationValues: map[string]string{testBaseConfigurationKeyConstant: testDevelopBranchNameConstant},
			localBranches: []gitrepo.LocalBranchInfo{
				{Name: testMasterBranchNameConstant, UpstreamShortName: testMasterUpstreamNameConstant},
				{Name: testDevelopBranchNameConstant, UpstreamShortName: testDevelopUpstreamNameConstant},
			},
			expectedReference: testDevelopUpstreamNameConstant,
		},
		{
			name: "local_base_with_gone_upstream_is_fatal",
			localBranches: []gitrepo.LocalBranchInfo{
				{Name: testMasterBranchNameConstant, UpstreamShortName: testMasterUpstreamNameConstant, UpstreamTrack: gitrepo.TrackingStatusGone},
			},
			expectedError: cleanup.BaseUpstreamGoneError{BaseName: testMasterBranchNameConstant, UpstreamName: testMasterUpstreamNameConstant},
		},
		{
			name: "local_base_without_upstream_falls_through_to_remotes",
			localBranches: []gitrepo.LocalBranchInfo{
				{Name: testMasterBranchNameConstant},
			},
			remoteBranches: []gitrepo.RemoteBranchInfo{
				{Name: testMasterUpstreamNameConstant, NameWithoutRemote: testMasterBranchNameConstant},
			},
			expectedReference: testMasterUpstreamNameConstant,
		},
		{
			name:                "qualified_remote_name_matches_directly",
			configurationValues: map[string]string{testBaseConfigurationKeyConstant: testMasterUpstreamNameConstant},
			remoteBranches: []gitrepo.RemoteBranchInfo{
				{Name: testMasterUpstreamNameConstant, NameWithoutRemote: testMasterBranchNameConstant},
			},
			expectedReference: testMasterUpstreamNameConstant,
		},
		{
			name: "short_name_resolves_single_remote_candidate",
			remoteBranches: []gitrepo.RemoteBranchInfo{
				{Name: "origin/feature", NameWithoutRemote: "feature"},
				{Name: testMasterUpstreamNameConstant, NameWithoutRemote: testMasterBranchNameConstant},
			},
			expectedReference: testMasterUpstreamNameConstant,
		},
		{
			name:                "missing_reference_is_fatal",
			configurationValues: map[string]string{testBaseConfigurationKeyConstant: "ghost"},
			remoteBranches: []gitrepo.RemoteBranchInfo{
				{Name: testMasterUpstreamNameConstant, NameWithoutRemote: testMasterBranchNameConstant},
			},
			expectedError: cleanup.BaseNotFoundError{BaseName: "ghost"},
		},
		{
			name: "ambiguous_short_name_enumerates_candidates_in_listing_order",
			remoteBranches: []gitrepo.RemoteBranchInfo{
				{Name: testMasterUpstreamNameConstant, NameWithoutRemote: testMasterBranchNameConstant},
				{Name: "fork/master", NameWithoutRemote: testMasterBranchNameConstant},
			},
			expectedError: cleanup.AmbiguousBaseError{
				BaseName:   testMasterBranchNameConstant,
				Candidates: []string{testMasterUpstreamNameConstant, "fork/master"},
			},
		},
		{
			name:                "blank_configured_value_falls_back_to_default",
			configurationValues: map[string]string{testBaseConfigurationKeyConstant: "   "},
			localBranches: []gitrepo.LocalBranchInfo{
				{Name: testMasterBranchNameConstant, UpstreamShortName: testMasterUpstreamNameConstant},
			},
			expectedReference: testMasterUpstreamNameConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(resolverSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			configurationReader := &fakeConfigurationReader{values: testCase.configurationValues}
			remoteBranchesProvider := &countingRemoteBranchesProvider{remoteBranches: testCase.remoteBranches}

			resolver, creationError := cleanup.NewBaseResolver(configurationReader)
			require.NoError(testInstance, creationError)

			resolvedReference, resolutionError := resolver.Resolve(context.Background(), testRepositoryPathConstant, testCase.requestedBaseName, testCase.localBranches, remoteBranchesProvider.provide)

			if testCase.expectedError != nil {
				require.Error(testInstance, resolutionError)
				require.Equal(testInstance, testCase.expectedError, resolutionError)
				require.True(testInstance, cleanup.IsBaseResolutionError(resolutionError))
				return
			}

			require.NoError(testInstance, resolutionError)
			require.Equal(testInstance, testCase.expectedReference, resolvedReference)
			require.LessOrEqual(testInstance, remoteBranchesProvider.invocations, 1)
		})
	}
}

func TestBaseResolverBypassSkipsConfigurationAndRemotes(testInstance *testing.T) {
	configurationReader := &fakeConfigurationReader{}
	remoteBranchesProvider := &countingRemoteBranchesProvider{}

	resolver, creationError := cleanup.NewBaseResolver(configurationReader)
	require.NoError(testInstance, creationError)

	resolvedReference, resolutionError := resolver.Resolve(context.Background(), testRepositoryPathConstant, testMasterUpstreamNameConstant, nil, remoteBranchesProvider.provide)

	require.NoError(testInstance, resolutionError)
	require.Equal(testInstance, testMasterUpstreamNameConstant, resolvedReference)
	require.Empty(testInstance, configurationReader.readKeys)
	require.Zero(testInstance, remoteBranchesProvider.invocations)
}

func TestBaseResolverFetchesRemoteListingOnce(testInstance *testing.T) {
	configurationReader := &fakeConfigurationReader{}
	remoteBranchesProvider := &countingRemoteBranchesProvider{
		remoteBranches: []gitrepo.RemoteBranchInfo{
			{Name: testMasterUpstreamNameConstant, NameWithoutRemote: testMasterBranchNameConstant},
		},
	}

	resolver, creationError := cleanup.NewBaseResolver(configurationReader)
	require.NoError(testInstance, creationError)

	resolvedReference, resolutionError := resolver.Resolve(context.Background(), testRepositoryPathConstant, "", nil, remoteBranchesProvider.provide)

	require.NoError(testInstance, resolutionError)
	require.Equal(testInstance, testMasterUpstreamNameConstant, resolvedReference)
	require.Equal(testInstance, 1, remoteBranchesProvider.invocations)
	require.Equal(testInstance, []string{testBaseConfigurationKeyConstant}, configurationReader.readKeys)
}

func TestBaseResolverPropagatesRemoteListingFailures(testInstance *testing.T) {
	listingFailure := errors.New("remote listing failed")
	configurationReader := &fakeConfigurationReader{}
	remoteBranchesProvider := &countingRemoteBranchesProvider{failure: listingFailure}

	resolver, creationError := cleanup.NewBaseResolver(configurationReader)
	require.NoError(testInstance, creationError)

	resolvedReference, resolutionError := resolver.Resolve(context.Background(), testRepositoryPathConstant, "", nil, remoteBranchesProvider.provide)

	require.ErrorIs(testInstance, resolutionError, listingFailure)
	require.Empty(testInstance, resolvedReference)
	require.False(testInstance, cleanup.IsBaseResolutionError(resolutionError))
}

func TestBaseResolverPropagatesConfigurationFailures(testInstance *testing.T) {
	configurationFailure := errors.New("configuration read failed")
	configurationReader := &fakeConfigurationReader{failure: configurationFailure}
	remoteBranchesProvider := &countingRemoteBranchesProvider{}

	resolver, creationError := cleanup.NewBaseResolver(configurationReader)
	require.NoError(testInstance, creationError)

	resolvedReference, resolutionError := resolver.Resolve(context.Background(), testRepositoryPathConstant, "", nil, remoteBranchesProvider.provide)

	require.ErrorIs(testInstance, resolutionError, configurationFailure)
	require.Empty(testInstance, resolvedReference)
	require.Zero(testInstance, remoteBranchesProvider.invocations)
}
