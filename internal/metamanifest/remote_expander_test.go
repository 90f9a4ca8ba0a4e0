package metamanifest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tsrcmgr/internal/metamanifest"
)

const (
	testOrganizationConstant = "acme"
	testRepositoryConstant   = "widgets"
)

func TestExpandRemote(testInstance *testing.T) {
	testCases := []struct {
		name        string
		urlFormat   string
		expectedURL string
		expectError bool
	}{
		{
			name:        "organization_and_repository",
			urlFormat:   "git@{org}.example.com:{org}/{repo}.git",
			expectedURL: "git@acme.example.com:acme/widgets.git",
		},
		{
			name:        "no_placeholders",
			urlFormat:   "https://example.com/fixed.git",
			expectedURL: "https://example.com/fixed.git",
		},
		{
			name:        "escaped_braces",
			urlFormat:   "ssh://host/{{literal}}/{repo}",
			expectedURL: "ssh://host/{literal}/widgets",
		},
		{
			name:        "unsupported_placeholder",
			urlFormat:   "ssh://host/{owner}/{repo}",
			expectError: true,
		},
		{
			name:        "positional_placeholder",
			urlFormat:   "ssh://host/{}/{repo}",
			expectError: true,
		},
		{
			name:        "unterminated_placeholder",
			urlFormat:   "ssh://host/{org",
			expectError: true,
		},
		{
			name:        "unmatched_closing_brace",
			urlFormat:   "ssh://host/org}",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			template := metamanifest.RemoteTemplate{RemoteName: "origin", URLFormat: testCase.urlFormat}
			remoteEntry, expansionError := metamanifest.ExpandRemote(template, testOrganizationConstant, testRepositoryConstant)
			if testCase.expectError {
				require.Error(testInstance, expansionError)
				require.ErrorAs(testInstance, expansionError, &metamanifest.TemplateSubstitutionError{})
				return
			}
			require.NoError(testInstance, expansionError)
			require.Equal(testInstance, metamanifest.RemoteEntry{Name: "origin", URL: testCase.expectedURL}, remoteEntry)
		})
	}
}

func TestExpandRemoteIsRepeatable(testInstance *testing.T) {
	template := metamanifest.RemoteTemplate{RemoteName: "mirror", URLFormat: "ssh://backup/{org}/{repo}.git"}

	firstEntry, firstError := metamanifest.ExpandRemote(template, testOrganizationConstant, testRepositoryConstant)
	require.NoError(testInstance, firstError)
	secondEntry, secondError := metamanifest.ExpandRemote(template, testOrganizationConstant, testRepositoryConstant)
	require.NoError(testInstance, secondError)

	require.Equal(testInstance, firstEntry, secondEntry)
}
