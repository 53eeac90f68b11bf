package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefixConstant            = "<"
	choicePlaceholderSuffixConstant            = ">"
	choiceSeparatorConstant                    = "|"
	choiceUsagePlaceholderOnlyTemplateConstant = "`%s`"
	choiceUsageWithDescriptionTemplateConstant = "`%s` %s"
)

// FormatChoiceUsage builds a flag usage string whose placeholder lists the accepted
// choices with the default choice spelled in upper case.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	displayChoices := make([]string, 0, len(choices))
	for _, choice := range choices {
		if strings.EqualFold(choice, defaultChoice) {
			displayChoices = append(displayChoices, strings.ToUpper(choice))
			continue
		}
		displayChoices = append(displayChoices, choice)
	}
	placeholder := choicePlaceholderPrefixConstant + strings.Join(displayChoices, choiceSeparatorConstant) + choicePlaceholderSuffixConstant

	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsagePlaceholderOnlyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageWithDescriptionTemplateConstant, placeholder, trimmedDescription)
}
