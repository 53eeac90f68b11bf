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
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagArgumentPrefixConstant              = "-"
)

const (
	gitBranchSubcommandNameConstant  = "branch"
	gitRevListSubcommandNameConstant = "rev-list"
	gitConfigSubcommandNameConstant  = "config"
	gitRemoteSubcommandNameConstant  = "remote"
	gitRemoteUpdateVerbNameConstant  = "update"
	gitRemoteBranchesFlagConstant    = "--remotes"
	revisionRangeSeparatorConstant   = "..."
)

const (
	gitBranchListStartTemplateConstant            = "Listing local branches in %s"
	gitBranchListSuccessTemplateConstant          = "Listed local branches in %s"
	gitBranchListFailureTemplateConstant          = "Listing local branches in %s failed with exit code %d%s"
	gitBranchListExecutionFailureTemplateConstant = "Listing local branches in %s failed: %s"

	gitRemoteBranchListStartTemplateConstant            = "Listing remote branches in %s"
	gitRemoteBranchListSuccessTemplateConstant          = "Listed remote branches in %s"
	gitRemoteBranchListFailureTemplateConstant          = "Listing remote branches in %s failed with exit code %d%s"
	gitRemoteBranchListExecutionFailureTemplateConstant = "Listing remote branches in %s failed: %s"

	gitRevListStartTemplateConstant            = "Comparing %s with %s in %s"
	gitRevListSuccessTemplateConstant          = "Compared %s with %s in %s"
	gitRevListFailureTemplateConstant          = "Comparing %s with %s in %s failed with exit code %d%s"
	gitRevListExecutionFailureTemplateConstant = "Comparing %s with %s in %s failed: %s"

	gitConfigReadStartTemplateConstant            = "Reading configuration %s in %s"
	gitConfigReadSuccessTemplateConstant          = "Read configuration %s in %s"
	gitConfigReadFailureTemplateConstant          = "Reading configuration %s in %s failed with exit code %d%s"
	gitConfigReadExecutionFailureTemplateConstant = "Reading configuration %s in %s failed: %s"

	gitRemoteUpdateStartTemplateConstant            = "Updating remotes in %s"
	gitRemoteUpdateSuccessTemplateConstant          = "Updated remotes in %s"
	gitRemoteUpdateFailureTemplateConstant          = "Updating remotes in %s failed with exit code %d%s"
	gitRemoteUpdateExecutionFailureTemplateConstant = "Updating remotes in %s failed: %s"
)

// CommandMessageFormatter renders human-readable lifecycle messages for shell commands.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command that is about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, messageStageStart, ExecutionResult{}, nil)
}

// BuildSuccessMessage describes a command that completed with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, messageStageSuccess, ExecutionResult{}, nil)
}

// BuildFailureMessage describes a command that completed with a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, messageStageFailure, result, nil)
}

// BuildExecutionFailureMessage describes a command that could not be executed at all.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, messageStageExecutionFailure, ExecutionResult{}, failure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	if command.Name == CommandGit {
		return formatter.describeGitMessage(command, stage, result, failure)
	}
	return formatter.describeGenericMessage(command, stage, result, failure)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	subcommand, subcommandFound := argumentAtIndex(command.Details.Arguments, 0)
	if !subcommandFound {
		return formatter.describeGenericMessage(command, stage, result, failure)
	}

	switch subcommand {
	case gitBranchSubcommandNameConstant:
		return formatter.describeBranchListing(command, stage, result, failure)
	case gitRevListSubcommandNameConstant:
		return formatter.describeRevisionComparison(command, stage, result, failure)
	case gitConfigSubcommandNameConstant:
		return formatter.describeConfigurationRead(command, stage, result, failure)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeRemoteOperation(command, stage, result, failure)
	default:
		return formatter.describeGenericMessage(command, stage, result, failure)
	}
}

func (formatter CommandMessageFormatter) describeBranchListing(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	workingDirectoryLabel := describeWorkingDirectory(command.Details)

	if containsArgument(command.Details.Arguments, gitRemoteBranchesFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitRemoteBranchListStartTemplateConstant, workingDirectoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(gitRemoteBranchListSuccessTemplateConstant, workingDirectoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(gitRemoteBranchListFailureTemplateConstant, workingDirectoryLabel, result.ExitCode, formatStandardErrorSuffix(result))
		default:
			return fmt.Sprintf(gitRemoteBranchListExecutionFailureTemplateConstant, workingDirectoryLabel, describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitBranchListStartTemplateConstant, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitBranchListSuccessTemplateConstant, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitBranchListFailureTemplateConstant, workingDirectoryLabel, result.ExitCode, formatStandardErrorSuffix(result))
	default:
		return fmt.Sprintf(gitBranchListExecutionFailureTemplateConstant, workingDirectoryLabel, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeRevisionComparison(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	workingDirectoryLabel := describeWorkingDirectory(command.Details)
	positionals := positionalArguments(command.Details.Arguments, 1)
	baseReference, comparedReference := splitRevisionRange(valueAtIndex(positionals, 0))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRevListStartTemplateConstant, comparedReference, baseReference, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitRevListSuccessTemplateConstant, comparedReference, baseReference, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitRevListFailureTemplateConstant, comparedReference, baseReference, workingDirectoryLabel, result.ExitCode, formatStandardErrorSuffix(result))
	default:
		return fmt.Sprintf(gitRevListExecutionFailureTemplateConstant, comparedReference, baseReference, workingDirectoryLabel, describeFailure(failure))
	}
}

func splitRevisionRange(revisionRange string) (string, string) {
	separatorIndex := strings.Index(revisionRange, revisionRangeSeparatorConstant)
	if separatorIndex < 0 {
		return ensureValue(revisionRange), fallbackUnknownValueLabelConstant
	}
	baseReference := ensureValue(revisionRange[:separatorIndex])
	comparedReference := ensureValue(revisionRange[separatorIndex+len(revisionRangeSeparatorConstant):])
	return baseReference, comparedReference
}

func (formatter CommandMessageFormatter) describeConfigurationRead(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	workingDirectoryLabel := describeWorkingDirectory(command.Details)
	positionals := positionalArguments(command.Details.Arguments, 1)
	configurationKey := ensureValue(valueAtIndex(positionals, 0))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitConfigReadStartTemplateConstant, configurationKey, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitConfigReadSuccessTemplateConstant, configurationKey, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitConfigReadFailureTemplateConstant, configurationKey, workingDirectoryLabel, result.ExitCode, formatStandardErrorSuffix(result))
	default:
		return fmt.Sprintf(gitConfigReadExecutionFailureTemplateConstant, configurationKey, workingDirectoryLabel, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeRemoteOperation(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	remoteVerb, remoteVerbFound := argumentAtIndex(command.Details.Arguments, 1)
	if !remoteVerbFound || remoteVerb != gitRemoteUpdateVerbNameConstant {
		return formatter.describeGenericMessage(command, stage, result, failure)
	}

	workingDirectoryLabel := describeWorkingDirectory(command.Details)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteUpdateStartTemplateConstant, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteUpdateSuccessTemplateConstant, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteUpdateFailureTemplateConstant, workingDirectoryLabel, result.ExitCode, formatStandardErrorSuffix(result))
	default:
		return fmt.Sprintf(gitRemoteUpdateExecutionFailureTemplateConstant, workingDirectoryLabel, describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGenericMessage(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	commandLabel := formatCommandLabel(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatStandardErrorSuffix(result))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, describeFailure(failure))
	}
}

func formatCommandLabel(command ShellCommand) string {
	labelParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	commandLabel := strings.Join(labelParts, commandArgumentsJoinSeparatorConstant)
	if len(command.Details.WorkingDirectory) > 0 {
		commandLabel += fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory)
	}
	return commandLabel
}

func describeWorkingDirectory(details CommandDetails) string {
	if len(details.WorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return details.WorkingDirectory
}

func formatStandardErrorSuffix(result ExecutionResult) string {
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func argumentAtIndex(arguments []string, index int) (string, bool) {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant, false
	}
	return arguments[index], true
}

func valueAtIndex(values []string, index int) string {
	if index < 0 || index >= len(values) {
		return emptyStringConstant
	}
	return values[index]
}

func ensureValue(value string) string {
	if len(value) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func containsArgument(arguments []string, candidate string) bool {
	for _, argument := range arguments {
		if argument == candidate {
			return true
		}
	}
	return false
}

func positionalArguments(arguments []string, skipCount int) []string {
	positionals := []string{}
	for argumentIndex, argument := range arguments {
		if argumentIndex < skipCount {
			continue
		}
		if strings.HasPrefix(argument, flagArgumentPrefixConstant) {
			continue
		}
		positionals = append(positionals, argument)
	}
	return positionals
}
