package cleanup

import "strings"

const (
	baseConfigurationKeyConstant      = "base"
	updateConfigurationKeyConstant    = "update"
	formatConfigurationKeyConstant    = "format"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the sweep command.
type CommandConfiguration struct {
	BaseBranch    string `mapstructure:"base"`
	UpdateRemotes bool   `mapstructure:"update"`
	OutputFormat  string `mapstructure:"format"`
}

// DefaultCommandConfiguration returns baseline configuration values for the sweep command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		BaseBranch:    "",
		UpdateRemotes: true,
		OutputFormat:  string(OutputFormatText),
	}
}

// DefaultConfigurationValues produces Viper defaults for the sweep command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + baseConfigurationKeyConstant:   defaults.BaseBranch,
		rootKey + configurationKeySeparatorConstant + updateConfigurationKeyConstant: defaults.UpdateRemotes,
		rootKey + configurationKeySeparatorConstant + formatConfigurationKeyConstant: defaults.OutputFormat,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.BaseBranch = strings.TrimSpace(configuration.BaseBranch)
	sanitized.OutputFormat = strings.TrimSpace(configuration.OutputFormat)

	return sanitized
}
