package flags

import (
	"fmt"
	"strings"
)

const (
	choiceSeparatorLiteral      = "|"
	choiceUsageEmptyTemplate    = "`<%s>`"
	choiceUsageFullTemplate     = "`<%s>` %s"
	unsupportedChoiceTemplate   = "unsupported value %q for --%s (expected one of %s)"
	choiceListSeparatorConstant = ", "
)

// FormatChoiceUsage builds a usage string listing choices with the default one upper-cased.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	displayed := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, duplicate := seen[normalizedChoice]; duplicate {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		if normalizedChoice == normalizedDefault {
			displayed = append(displayed, strings.ToUpper(normalizedChoice))
			continue
		}
		displayed = append(displayed, strings.TrimSpace(choice))
	}

	placeholder := strings.Join(displayed, choiceSeparatorLiteral)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// ValidateChoice returns the normalized value when it is one of choices.
func ValidateChoice(flagName string, value string, choices []string) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	for _, choice := range choices {
		if strings.ToLower(strings.TrimSpace(choice)) == normalizedValue {
			return normalizedValue, nil
		}
	}
	return "", fmt.Errorf(unsupportedChoiceTemplate, value, flagName, strings.Join(choices, choiceListSeparatorConstant))
}
