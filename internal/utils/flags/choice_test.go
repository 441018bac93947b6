package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{name: "HighlightsDefault", defaultChoice: "auto", choices: []string{"auto", "always", "never"}, description: "Color status messages", expectedOutput: "`<AUTO|always|never>` Color status messages"},
		{name: "DropsDuplicatesAndBlanks", defaultChoice: "console", choices: []string{"structured", "", "console", "Console"}, expectedOutput: "`<structured|CONSOLE>`"},
		{name: "UnknownDefault", defaultChoice: "xml", choices: []string{"structured", "console"}, description: "Log format", expectedOutput: "`<structured|console>` Log format"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestValidateChoice(t *testing.T) {
	normalized, validationError := ValidateChoice("color", " Always ", []string{"auto", "always", "never"})
	require.NoError(t, validationError)
	require.Equal(t, "always", normalized)

	_, validationError = ValidateChoice("color", "sometimes", []string{"auto", "always", "never"})
	require.EqualError(t, validationError, `unsupported value "sometimes" for --color (expected one of auto, always, never)`)
}
