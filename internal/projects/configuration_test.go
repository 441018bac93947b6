package projects_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sammy/internal/projects"
)

func TestTargetBranchFallsBackToDefault(testInstance *testing.T) {
	configuration := projects.NewConfiguration(map[string]projects.ProjectConfiguration{
		"billing":  {DefaultBranch: "main"},
		"frontend": {DefaultBranch: "  "},
	})

	testCases := []struct {
		name           string
		repositoryName string
		expectedBranch string
	}{
		{name: "configured", repositoryName: "billing", expectedBranch: "main"},
		{name: "blank_override", repositoryName: "frontend", expectedBranch: projects.DefaultBranchNameConstant},
		{name: "unconfigured", repositoryName: "ledger", expectedBranch: projects.DefaultBranchNameConstant},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedBranch, configuration.TargetBranch(testCase.repositoryName))
		})
	}
}

func TestTargetBranchMatchesCaseFoldedKeys(testInstance *testing.T) {
	configuration := projects.NewConfiguration(map[string]projects.ProjectConfiguration{
		"paymentgateway": {DefaultBranch: "trunk"},
	})

	require.Equal(testInstance, "trunk", configuration.TargetBranch("PaymentGateway"))
}

func TestDecodeConfigurationAcceptsMappingsAndShorthand(testInstance *testing.T) {
	configuration, decodeError := projects.DecodeConfiguration(map[string]any{
		"billing":  map[string]any{"default_branch": "main"},
		"frontend": "release",
		"ledger":   nil,
	})
	require.NoError(testInstance, decodeError)

	require.Equal(testInstance, "main", configuration.TargetBranch("billing"))
	require.Equal(testInstance, "release", configuration.TargetBranch("frontend"))
	require.Equal(testInstance, projects.DefaultBranchNameConstant, configuration.TargetBranch("ledger"))
	require.Equal(testInstance, []string{"billing", "frontend", "ledger"}, configuration.Names())
}

func TestDecodeConfigurationRejectsUnknownKeys(testInstance *testing.T) {
	_, decodeError := projects.DecodeConfiguration(map[string]any{
		"billing": map[string]any{"default_branhc": "main"},
	})
	require.Error(testInstance, decodeError)
}

func TestProjectsReturnsCopy(testInstance *testing.T) {
	configuration := projects.NewConfiguration(map[string]projects.ProjectConfiguration{"billing": {DefaultBranch: "main"}})

	copied := configuration.Projects()
	copied["billing"] = projects.ProjectConfiguration{DefaultBranch: "other"}

	require.Equal(testInstance, "main", configuration.TargetBranch("billing"))
}
