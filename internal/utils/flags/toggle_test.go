package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		defaultValue    bool
		expectedValue   bool
		expectedChanged bool
		expectedArgs    []string
	}{
		{name: "DefaultFalse", arguments: []string{}, expectedValue: false},
		{name: "DefaultTrue", arguments: []string{}, defaultValue: true, expectedValue: true},
		{name: "ImplicitTrue", arguments: []string{"--stay"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitYes", arguments: []string{"--stay", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNoOverridesDefault", arguments: []string{"--stay", "NO"}, defaultValue: true, expectedValue: false, expectedChanged: true},
		{name: "AssignedValue", arguments: []string{"--stay=off"}, defaultValue: true, expectedValue: false, expectedChanged: true},
		{name: "FollowingPositional", arguments: []string{"--stay", "billing"}, expectedValue: true, expectedChanged: true, expectedArgs: []string{"billing"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var stay bool
			AddToggleFlag(command.Flags(), &stay, "stay", "", testCase.defaultValue, "Return to the original branch")

			require.NoError(t, command.ParseFlags(NormalizeToggleArguments(testCase.arguments)))
			require.Equal(t, testCase.expectedValue, stay)
			require.Equal(t, testCase.expectedChanged, command.Flags().Lookup("stay").Changed)
			if testCase.expectedArgs != nil {
				require.Equal(t, testCase.expectedArgs, command.Flags().Args())
			}
		})
	}
}

func TestAddToggleFlagRejectsInvalidAssignedValue(t *testing.T) {
	command := &cobra.Command{}

	var stay bool
	AddToggleFlag(command.Flags(), &stay, "stay", "", false, "Return to the original branch")

	require.Error(t, command.ParseFlags(NormalizeToggleArguments([]string{"--stay=maybe"})))
	require.False(t, stay)
}

func TestNormalizeToggleArgumentsHandlesShorthandAndTerminator(t *testing.T) {
	command := &cobra.Command{}

	var showCurrent bool
	AddToggleFlag(command.Flags(), &showCurrent, "show-current", "c", true, "Show the current branch")

	normalized := NormalizeToggleArguments([]string{"-c", "no", "--", "--show-current", "yes"})
	require.Equal(t, []string{"-c=no", "--", "--show-current", "yes"}, normalized)

	require.NoError(t, command.ParseFlags(normalized[:1]))
	require.False(t, showCurrent)
}

func TestToggleUsageHighlightsDefault(t *testing.T) {
	require.Equal(t, "`<YES|no>` Show the current branch", formatToggleUsage("Show the current branch", true))
	require.Equal(t, "`<yes|NO>`", formatToggleUsage(" ", false))
}
