package tests

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationGitExecutableNameConstant    = "git"
	integrationRemoteDirectoryNameConstant  = "remote.git"
	integrationLocalDirectoryNameConstant   = "workspace"
	integrationUserNameConstant             = "Integration Tester"
	integrationUserEmailConstant            = "tester@example.com"
	integrationTrunkBranchNameConstant      = "master"
	integrationMergedBranchNameConstant     = "feature/merged"
	integrationGoneBranchNameConstant       = "feature/gone"
	integrationActiveBranchNameConstant     = "feature/active"
	integrationRemoteNameConstant           = "origin"
	integrationInitialFileNameConstant      = "initial.txt"
	integrationInitialFileContentsConstant  = "initial commit contents\n"
	integrationInitialCommitMessageConstant = "Initial commit"
	integrationCommandTimeoutConstant       = 10 * time.Second
)

// buildSweepFixture assembles a bare remote and a local workspace with one
// merged, one gone, and one active feature branch alongside the trunk.
func buildSweepFixture(testInstance *testing.T) string {
	testInstance.Helper()

	temporaryRoot := testInstance.TempDir()
	remoteRepositoryPath := filepath.Join(temporaryRoot, integrationRemoteDirectoryNameConstant)
	localRepositoryPath := filepath.Join(temporaryRoot, integrationLocalDirectoryNameConstant)

	runGitCommand(testInstance, temporaryRoot, "init", "--bare", remoteRepositoryPath)
	runGitCommand(testInstance, temporaryRoot, "init", localRepositoryPath)
	configureRepositoryIdentity(testInstance, localRepositoryPath)

	writeFixtureFile(testInstance, filepath.Join(localRepositoryPath, integrationInitialFileNameConstant), integrationInitialFileContentsConstant)
	runGitCommand(testInstance, localRepositoryPath, "add", integrationInitialFileNameConstant)
	runGitCommand(testInstance, localRepositoryPath, "commit", "-m", integrationInitialCommitMessageConstant)
	runGitCommand(testInstance, localRepositoryPath, "branch", "-M", integrationTrunkBranchNameConstant)
	runGitCommand(testInstance, localRepositoryPath, "remote", "add", integrationRemoteNameConstant, remoteRepositoryPath)
	runGitCommand(testInstance, localRepositoryPath, "push", "-u", integrationRemoteNameConstant, integrationTrunkBranchNameConstant)

	createFeatureBranch(testInstance, localRepositoryPath, integrationMergedBranchNameConstant, "merged.txt")
	runGitCommand(testInstance, localRepositoryPath, "checkout", integrationTrunkBranchNameConstant)
	runGitCommand(testInstance, localRepositoryPath, "merge", integrationMergedBranchNameConstant)
	runGitCommand(testInstance, localRepositoryPath, "push", integrationRemoteNameConstant, integrationTrunkBranchNameConstant)

	createFeatureBranch(testInstance, localRepositoryPath, integrationGoneBranchNameConstant, "gone.txt")
	runGitCommand(testInstance, localRepositoryPath, "checkout", integrationTrunkBranchNameConstant)
	runGitCommand(testInstance, remoteRepositoryPath, "branch", "-D", integrationGoneBranchNameConstant)

	createFeatureBranch(testInstance, localRepositoryPath, integrationActiveBranchNameConstant, "active.txt")
	runGitCommand(testInstance, localRepositoryPath, "checkout", integrationTrunkBranchNameConstant)

	return localRepositoryPath
}

func configureRepositoryIdentity(testInstance *testing.T, repositoryPath string) {
	testInstance.Helper()

	runGitCommand(testInstance, repositoryPath, "config", "user.name", integrationUserNameConstant)
	runGitCommand(testInstance, repositoryPath, "config", "user.email", integrationUserEmailConstant)
}

func createFeatureBranch(testInstance *testing.T, repositoryPath string, branchName string, fileName string) {
	testInstance.Helper()

	runGitCommand(testInstance, repositoryPath, "checkout", "-b", branchName)
	writeFixtureFile(testInstance, filepath.Join(repositoryPath, fileName), branchName+" contents\n")
	runGitCommand(testInstance, repositoryPath, "add", fileName)
	runGitCommand(testInstance, repositoryPath, "commit", "-m", branchName+" changes")
	runGitCommand(testInstance, repositoryPath, "push", "-u", integrationRemoteNameConstant, branchName)
}

func writeFixtureFile(testInstance *testing.T, filePath string, contents string) {
	testInstance.Helper()

	require.NoError(testInstance, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(testInstance, os.WriteFile(filePath, []byte(contents), 0o644))
}

func runGitCommand(testInstance *testing.T, workingDirectory string, arguments ...string) string {
	testInstance.Helper()

	executionContext, cancelFunction := context.WithTimeout(context.Background(), integrationCommandTimeoutConstant)
	defer cancelFunction()

	command := exec.CommandContext(executionContext, integrationGitExecutableNameConstant, arguments...)
	if len(workingDirectory) > 0 {
		command.Dir = workingDirectory
	}

	outputBytes, commandError := command.CombinedOutput()
	require.NoError(testInstance, commandError, string(outputBytes))
	return string(outputBytes)
}
