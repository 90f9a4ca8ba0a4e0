package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/tsrcmgr/internal/utils/path"
)

const (
	testHomeDirectoryConstant = "/home/tester"
	testManifestPathConstant  = "~/manifests/main.yml"
	testAbsolutePathConstant  = "/srv/manifests/main.yml"
	testOtherUserPathConstant = "~alice/manifests/main.yml"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidatePath string
		expectedPath  string
	}{
		{name: "bare_tilde", candidatePath: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", candidatePath: testManifestPathConstant, expectedPath: filepath.Join(testHomeDirectoryConstant, "manifests", "main.yml")},
		{name: "absolute_path", candidatePath: testAbsolutePathConstant, expectedPath: testAbsolutePathConstant},
		{name: "other_user", candidatePath: testOtherUserPathConstant, expectedPath: testOtherUserPathConstant},
		{name: "empty", candidatePath: "", expectedPath: ""},
	}

	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidatePath))
		})
	}
}

func TestHomeExpanderProviderFailure(testInstance *testing.T) {
	providerInvocations := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		providerInvocations++
		return "", errors.New("no home")
	})

	require.Equal(testInstance, testManifestPathConstant, expander.Expand(testManifestPathConstant))
	require.Equal(testInstance, testManifestPathConstant, expander.Expand(testManifestPathConstant))
	require.Equal(testInstance, 1, providerInvocations)
}

func TestHomeExpanderExpandAll(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	expandedPaths := expander.ExpandAll([]string{" ", testManifestPathConstant, testAbsolutePathConstant})
	require.Equal(testInstance, []string{filepath.Join(testHomeDirectoryConstant, "manifests", "main.yml"), testAbsolutePathConstant}, expandedPaths)
}

func TestNilHomeExpanderReturnsInput(testInstance *testing.T) {
	var expander *pathutils.HomeExpander
	require.Equal(testInstance, testManifestPathConstant, expander.Expand(testManifestPathConstant))
}
