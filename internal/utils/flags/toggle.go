package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValueConstant           = "true"
	toggleFalseCanonicalValueConstant          = "false"
	toggleParseErrorTemplateConstant           = "invalid toggle value %q"
	toggleEnabledPlaceholderConstant           = "<YES|no>"
	toggleDisabledPlaceholderConstant          = "<yes|NO>"
	toggleUsagePlaceholderOnlyTemplateConstant = "`%s`"
	toggleUsageWithDescriptionTemplateConstant = "`%s` %s"
	longFlagPrefixConstant                     = "--"
	flagValueSeparatorConstant                 = "="
	flagParsingTerminatorConstant              = "--"
)

// toggleLiteralValues maps every accepted toggle spelling to its boolean meaning.
var toggleLiteralValues = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true, "t": true, "y": true,
	"false": false, "no": false, "off": false, "0": false, "f": false, "n": false,
}

var (
	toggleFlagRegistryMutex sync.RWMutex
	registeredToggleNames   = map[string]struct{}{}
)

// AddToggleFlag registers a long-form boolean flag that accepts yes/no style spellings
// and defaults to true when supplied without a value.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.Var(newToggleFlagValue(defaultValue, target), name, usage)

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValueConstant
	registeredFlag.Usage = formatToggleUsage(usage, defaultValue)

	toggleFlagRegistryMutex.Lock()
	registeredToggleNames[name] = struct{}{}
	toggleFlagRegistryMutex.Unlock()
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleDisabledPlaceholderConstant
	if defaultValue {
		placeholder = toggleEnabledPlaceholderConstant
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(toggleUsagePlaceholderOnlyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(toggleUsageWithDescriptionTemplateConstant, placeholder, trimmedDescription)
}

// NormalizeToggleArguments rewrites "--flag value" into "--flag=value" for registered
// toggle flags so pflag does not treat the value as a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalizedArguments := make([]string, 0, len(arguments))
	argumentIndex := 0
	for argumentIndex < len(arguments) {
		currentArgument := arguments[argumentIndex]
		if currentArgument == flagParsingTerminatorConstant {
			normalizedArguments = append(normalizedArguments, arguments[argumentIndex:]...)
			break
		}

		toggleName, hasInlineValue := registeredToggleArgument(currentArgument)
		if len(toggleName) == 0 || hasInlineValue {
			normalizedArguments = append(normalizedArguments, currentArgument)
			argumentIndex++
			continue
		}

		if argumentIndex+1 < len(arguments) && !strings.HasPrefix(arguments[argumentIndex+1], "-") {
			normalizedArguments = append(normalizedArguments, currentArgument+flagValueSeparatorConstant+arguments[argumentIndex+1])
			argumentIndex += 2
			continue
		}

		normalizedArguments = append(normalizedArguments, currentArgument)
		argumentIndex++
	}

	return normalizedArguments
}

// registeredToggleArgument extracts the registered toggle name from a long flag
// argument; the boolean reports whether the argument already carries an inline value.
func registeredToggleArgument(argument string) (string, bool) {
	if !strings.HasPrefix(argument, longFlagPrefixConstant) {
		return "", false
	}
	trimmedArgument := strings.TrimPrefix(argument, longFlagPrefixConstant)
	separatorIndex := strings.Index(trimmedArgument, flagValueSeparatorConstant)
	hasInlineValue := separatorIndex >= 0
	toggleName := trimmedArgument
	if hasInlineValue {
		toggleName = trimmedArgument[:separatorIndex]
	}

	toggleFlagRegistryMutex.RLock()
	defer toggleFlagRegistryMutex.RUnlock()
	if _, registered := registeredToggleNames[toggleName]; !registered {
		return "", false
	}
	return toggleName, hasInlineValue
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{currentValue: defaultValue, target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		trimmedValue = toggleTrueCanonicalValueConstant
	}

	parsedValue, spellingKnown := toggleLiteralValues[strings.ToLower(trimmedValue)]
	if !spellingKnown {
		return fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleFlagValue) String() string {
	if value != nil && value.currentValue {
		return toggleTrueCanonicalValueConstant
	}
	return toggleFalseCanonicalValueConstant
}

func (value *toggleFlagValue) Type() string {
	return "bool"
}
