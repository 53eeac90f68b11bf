package cleanup_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sweepkit/sweep/internal/cleanup"
	"github.com/sweepkit/sweep/internal/gitrepo"
)

const (
	updateCallLabelConstant           = "update"
	localListingCallLabelConstant     = "list_local"
	remoteListingCallLabelConstant    = "list_remote"
	configurationCallPrefixConstant   = "config:"
	mergedCheckCallPrefixConstant     = "merged:"
	planComputedLogMessageConstant    = "Removal plan computed"
	baseReferenceLogFieldNameConstant = "base_reference"
)

type fakePlanRepository struct {
	localBranches        []gitrepo.LocalBranchInfo
	remoteBranches       []gitrepo.RemoteBranchInfo
	configurationValues  map[string]string
	mergedBranches       map[string]bool
	updateFailure        error
	localListingFailure  error
	remoteListingFailure error
	recordedCalls        []string
}

func (repository *fakePlanRepository) ListLocalBranches(_ context.Context, _ string) ([]gitrepo.LocalBranchInfo, error) {
	repository.recordedCalls = append(repository.recordedCalls, localListingCallLabelConstant)
	if repository.localListingFailure != nil {
		return nil, repository.localListingFailure
	}
	return repository.localBranches, nil
}

func (repository *fakePlanRepository) ListRemoteBranches(_ context.Context, _ string) ([]gitrepo.RemoteBranchInfo, error) {
	repository.recordedCalls = append(repository.recordedCalls, remoteListingCallLabelConstant)
	if repository.remoteListingFailure != nil {
		return nil, repository.remoteListingFailure
	}
	return repository.remoteBranches, nil
}

func (repository *fakePlanRepository) IsBranchMerged(_ context.Context, _ string, _ string, branchName string) (bool, error) {
	repository.recordedCalls = append(repository.recordedCalls, mergedCheckCallPrefixConstant+branchName)
	return repository.mergedBranches[branchName], nil
}

func (repository *fakePlanRepository) GetConfigurationValue(_ context.Context, _ string, configurationKey string, fallbackValue string) (string, error) {
	repository.recordedCalls = append(repository.recordedCalls, configurationCallPrefixConstant+configurationKey)
	configuredValue, valueExists := repository.configurationValues[configurationKey]
	if !valueExists {
		return fallbackValue, nil
	}
	return configuredValue, nil
}

func (repository *fakePlanRepository) UpdateRemotes(_ context.Context, _ string) error {
	repository.recordedCalls = append(repository.recordedCalls, updateCallLabelConstant)
	return repository.updateFailure
}

func newMergedFeatureRepository() *fakePlanRepository {
	return &fakePlanRepository{
		localBranches: []gitrepo.LocalBranchInfo{
			{Name: testMasterBranchNameConstant, UpstreamShortName: testMasterUpstreamNameConstant},
			{
				Name:              testFeatureBranchNameConstant,
				UpstreamShortName: testFeatureUpstreamNameConstant,
				PushRemoteName:    testOriginRemoteNameConstant,
				PushReferenceName: testFeatureBranchNameConstant,
			},
		},
		mergedBranches: map[string]bool{testFeatureBranchNameConstant: true},
	}
}

func TestPlanServiceRunWritesRenderedPlan(testInstance *testing.T) {
	repository := newMergedFeatureRepository()
	outputBuffer := &bytes.Buffer{}
	observerCore, observedLogs := observer.New(zapcore.InfoLevel)

	service, creationError := cleanup.NewPlanService(zap.New(observerCore), repository, outputBuffer)
	require.NoError(testInstance, creationError)

	runError := service.Run(context.Background(), cleanup.PlanOptions{
		RepositoryPath: testRepositoryPathConstant,
		UpdateRemotes:  true,
		Format:         cleanup.OutputFormatText,
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, "Merged local branches:\n  feature\nMerged remote branches:\n  origin/feature\n", outputBuffer.String())
	require.Equal(testInstance, updateCallLabelConstant, repository.recordedCalls[0])
	require.Contains(testInstance, repository.recordedCalls, mergedCheckCallPrefixConstant+testFeatureBranchNameConstant)

	planLogEntries := observedLogs.FilterMessage(planComputedLogMessageConstant).All()
	require.Len(testInstance, planLogEntries, 1)
	require.Equal(testInstance, testMasterUpstreamNameConstant, planLogEntries[0].ContextMap()[baseReferenceLogFieldNameConstant])
}

func TestPlanServiceSkipsRemoteUpdateWhenDisabled(testInstance *testing.T) {
	repository := newMergedFeatureRepository()
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewPlanService(zap.NewNop(), repository, outputBuffer)
	require.NoError(testInstance, creationError)

	runError := service.Run(context.Background(), cleanup.PlanOptions{
		RepositoryPath: testRepositoryPathConstant,
		UpdateRemotes:  false,
		Format:         cleanup.OutputFormatText,
	})

	require.NoError(testInstance, runError)
	require.NotContains(testInstance, repository.recordedCalls, updateCallLabelConstant)
}

func TestPlanServicePropagatesUpdateFailures(testInstance *testing.T) {
	updateFailure := errors.New("remote update failed")
	repository := newMergedFeatureRepository()
	repository.updateFailure = updateFailure
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewPlanService(zap.NewNop(), repository, outputBuffer)
	require.NoError(testInstance, creationError)

	runError := service.Run(context.Background(), cleanup.PlanOptions{
		RepositoryPath: testRepositoryPathConstant,
		UpdateRemotes:  true,
		Format:         cleanup.OutputFormatText,
	})

	require.ErrorIs(testInstance, runError, updateFailure)
	require.Equal(testInstance, []string{updateCallLabelConstant}, repository.recordedCalls)
	require.Empty(testInstance, outputBuffer.String())
}

func TestPlanServicePropagatesListingFailures(testInstance *testing.T) {
	listingFailure := errors.New("branch listing failed")
	repository := newMergedFeatureRepository()
	repository.localListingFailure = listingFailure
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewPlanService(zap.NewNop(), repository, outputBuffer)
	require.NoError(testInstance, creationError)

	runError := service.Run(context.Background(), cleanup.PlanOptions{
		RepositoryPath: testRepositoryPathConstant,
		Format:         cleanup.OutputFormatText,
	})

	require.ErrorIs(testInstance, runError, listingFailure)
	require.Empty(testInstance, outputBuffer.String())
}

func TestPlanServiceSurfacesResolutionFailures(testInstance *testing.T) {
	repository := &fakePlanRepository{}
	outputBuffer := &bytes.Buffer{}

	service, creationError := cleanup.NewPlanService(zap.NewNop(), repository, outputBuffer)
	require.NoError(testInstance, creationError)

	runError := service.Run(context.Background(), cleanup.PlanOptions{
		RepositoryPath: testRepositoryPathConstant,
		Format:         cleanup.OutputFormatText,
	})

	require.Equal(testInstance, cleanup.BaseNotFoundError{BaseName: testMasterBranchNameConstant}, runError)
	require.True(testInstance, cleanup.IsBaseResolutionError(runError))
	require.Empty(testInstance, outputBuffer.String())
}

func TestNewPlanServiceValidatesDependencies(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}

	service, missingRepositoryError := cleanup.NewPlanService(zap.NewNop(), nil, outputBuffer)
	require.ErrorIs(testInstance, missingRepositoryError, cleanup.ErrRepositoryManagerNotConfigured)
	require.Nil(testInstance, service)

	service, missingWriterError := cleanup.NewPlanService(zap.NewNop(), &fakePlanRepository{}, nil)
	require.ErrorIs(testInstance, missingWriterError, cleanup.ErrOutputWriterNotConfigured)
	require.Nil(testInstance, service)
}
