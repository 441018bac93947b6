package branches

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/sammy/internal/gitrepo"
)

type stubDiscoverer struct {
	paths        []string
	err          error
	recordedRoot string
	recordedName string
}

func (discoverer *stubDiscoverer) CollectRepositories(root string, filter string) ([]string, error) {
	discoverer.recordedRoot = root
	discoverer.recordedName = filter
	return discoverer.paths, discoverer.err
}

func TestCollectTargetsDerivesNamesInDiscoveryOrder(testInstance *testing.T) {
	discoverer := &stubDiscoverer{paths: []string{"/workspace/zeta", "/workspace/alpha"}}

	targets, collectError := CollectTargets(discoverer, "/workspace", "a")

	require.NoError(testInstance, collectError)
	require.Equal(testInstance, []Target{{Path: "/workspace/zeta", Name: "zeta"}, {Path: "/workspace/alpha", Name: "alpha"}}, targets)
	require.Equal(testInstance, []string{"zeta", "alpha"}, TargetNames(targets))
	require.Equal(testInstance, "/workspace", discoverer.recordedRoot)
	require.Equal(testInstance, "a", discoverer.recordedName)
}

func TestCollectTargetsFailures(testInstance *testing.T) {
	testCases := []struct {
		name       string
		discoverer *stubDiscoverer
		expected   error
	}{
		{name: "discovery_error", discoverer: &stubDiscoverer{err: errors.New("permission denied")}},
		{name: "invalid_name", discoverer: &stubDiscoverer{paths: []string{"/"}}, expected: gitrepo.ErrInvalidName},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			targets, collectError := CollectTargets(testCase.discoverer, "/workspace", "")
			require.Error(testInstance, collectError)
			require.Nil(testInstance, targets)
			if testCase.expected != nil {
				require.ErrorIs(testInstance, collectError, testCase.expected)
			}
		})
	}

	_, collectError := CollectTargets(nil, "/workspace", "")
	require.ErrorIs(testInstance, collectError, ErrDiscovererNotConfigured)
}

func TestSelectionConfigurationSanitize(testInstance *testing.T) {
	sanitized := SelectionConfiguration{Root: "  ", Jobs: -3}.Sanitize()
	require.Equal(testInstance, DefaultSelectionConfiguration(), sanitized)

	sanitized = SelectionConfiguration{Root: " ~/work ", Jobs: 4}.Sanitize()
	require.Equal(testInstance, SelectionConfiguration{Root: "~/work", Jobs: 4}, sanitized)
}

func TestResolveLoggerFallsBackToNop(testInstance *testing.T) {
	require.NotNil(testInstance, ResolveLogger(nil))
	require.NotNil(testInstance, ResolveLogger(func() *zap.Logger { return nil }))

	logger := zap.NewExample()
	require.Same(testInstance, logger, ResolveLogger(func() *zap.Logger { return logger }))
}
