package cleanup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sweepkit/sweep/internal/execshell"
	"github.com/sweepkit/sweep/internal/ui"
	flagutils "github.com/sweepkit/sweep/internal/utils/flags"
)

const (
	commandUseConstant              = "sweep"
	commandShortDescriptionConstant = "Plan removals for merged and gone branches"
	commandLongDescriptionConstant  = "sweep classifies local branches against a resolved base branch and reports which local and remote branches are safe to delete. Nothing is ever deleted; the output is the removal plan."

	baseFlagNameConstant      = "base"
	baseFlagUsageConstant     = "Base branch merge status is judged against (skips resolution)"
	updateFlagNameConstant    = "update"
	updateFlagUsageConstant   = "Refresh and prune remote-tracking branches before classifying"
	noUpdateFlagNameConstant  = "no-update"
	noUpdateFlagUsageConstant = "Skip the remote refresh before classifying"
	formatFlagNameConstant    = "format"
	formatFlagUsageConstant   = "Plan representation"

	workingDirectoryResolutionErrorTemplateConstant = "unable to resolve working directory: %w"
)

var formatFlagChoices = []string{string(OutputFormatText), string(OutputFormatJSON), string(OutputFormatYAML)}

var errUpdateFlagConflict = errors.New("--update and --no-update cannot be combined")

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

type commandOptions struct {
	repositoryPath string
	baseBranch     string
	updateRemotes  bool
	outputFormat   OutputFormat
}

// CommandBuilder assembles the sweep command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandEventsLoggerProvider  LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	Executor                     GitExecutor
	RepositoryManager            RepositoryManager
	WorkingDirectory             string

	updateToggleValue bool
}

// Build constructs the sweep cobra command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(baseFlagNameConstant, defaults.BaseBranch, baseFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), &builder.updateToggleValue, updateFlagNameConstant, defaults.UpdateRemotes, updateFlagUsageConstant)
	command.Flags().Bool(noUpdateFlagNameConstant, false, noUpdateFlagUsageConstant)
	command.Flags().String(formatFlagNameConstant, defaults.OutputFormat, flagutils.FormatChoiceUsage(defaults.OutputFormat, formatFlagChoices, formatFlagUsageConstant))

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := ResolveRepositoryManager(builder.RepositoryManager, executor)
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewPlanService(logger, repositoryManager, command.OutOrStdout())
	if serviceError != nil {
		return serviceError
	}

	return service.Run(command.Context(), PlanOptions{
		RepositoryPath: options.repositoryPath,
		BaseBranch:     options.baseBranch,
		UpdateRemotes:  options.updateRemotes,
		Format:         options.outputFormat,
	})
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	baseBranch := configuration.BaseBranch
	if command.Flags().Changed(baseFlagNameConstant) {
		baseFlagValue, _ := command.Flags().GetString(baseFlagNameConstant)
		baseBranch = strings.TrimSpace(baseFlagValue)
	}

	updateChanged := command.Flags().Changed(updateFlagNameConstant)
	noUpdateChanged := command.Flags().Changed(noUpdateFlagNameConstant)
	if updateChanged && noUpdateChanged {
		return commandOptions{}, errUpdateFlagConflict
	}

	updateRemotes := configuration.UpdateRemotes
	if updateChanged {
		updateRemotes = builder.updateToggleValue
	}
	if noUpdateChanged {
		noUpdateFlagValue, _ := command.Flags().GetBool(noUpdateFlagNameConstant)
		if noUpdateFlagValue {
			updateRemotes = false
		}
	}

	outputFormatName := configuration.OutputFormat
	if command.Flags().Changed(formatFlagNameConstant) {
		formatFlagValue, _ := command.Flags().GetString(formatFlagNameConstant)
		outputFormatName = formatFlagValue
	}

	outputFormat, formatError := ParseOutputFormat(outputFormatName)
	if formatError != nil {
		return commandOptions{}, formatError
	}

	repositoryPath, workingDirectoryError := builder.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return commandOptions{}, workingDirectoryError
	}

	return commandOptions{
		repositoryPath: repositoryPath,
		baseBranch:     baseBranch,
		updateRemotes:  updateRemotes,
		outputFormat:   outputFormat,
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveCommandEventsLogger() *zap.Logger {
	if builder.CommandEventsLoggerProvider == nil {
		return zap.NewNop()
	}
	commandEventsLogger := builder.CommandEventsLoggerProvider()
	if commandEventsLogger == nil {
		return zap.NewNop()
	}
	return commandEventsLogger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (GitExecutor, error) {
	var eventObserver execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		eventObserver = ui.NewConsoleCommandEventLogger(builder.resolveCommandEventsLogger())
	}
	return ResolveGitExecutor(builder.Executor, logger, eventObserver)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}

func (builder *CommandBuilder) resolveWorkingDirectory() (string, error) {
	if len(strings.TrimSpace(builder.WorkingDirectory)) > 0 {
		return builder.WorkingDirectory, nil
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryResolutionErrorTemplateConstant, workingDirectoryError)
	}
	return workingDirectory, nil
}
