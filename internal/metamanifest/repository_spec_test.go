package metamanifest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tsrcmgr/internal/metamanifest"
)

func TestParseRepositorySpec(testInstance *testing.T) {
	testCases := []struct {
		name         string
		token        string
		expectedSpec metamanifest.RepositorySpec
		expectError  bool
	}{
		{
			name:         "default_branch",
			token:        "acme/widgets",
			expectedSpec: metamanifest.RepositorySpec{Organization: "acme", Repository: "widgets", Branch: metamanifest.DefaultBranchName},
		},
		{
			name:         "pinned_branch",
			token:        "acme/widgets@release-2",
			expectedSpec: metamanifest.RepositorySpec{Organization: "acme", Repository: "widgets", Branch: "release-2"},
		},
		{
			name:         "branch_pin_containing_separator",
			token:        "acme/widgets@feature@v2",
			expectedSpec: metamanifest.RepositorySpec{Organization: "acme", Repository: "widgets", Branch: "feature@v2"},
		},
		{
			name:         "nested_repository_path",
			token:        "acme/tools/widgets",
			expectedSpec: metamanifest.RepositorySpec{Organization: "acme", Repository: "tools/widgets", Branch: metamanifest.DefaultBranchName},
		},
		{
			name:         "surrounding_whitespace",
			token:        "  acme/widgets@main ",
			expectedSpec: metamanifest.RepositorySpec{Organization: "acme", Repository: "widgets", Branch: "main"},
		},
		{
			name:        "missing_organization_separator",
			token:       "widgets",
			expectError: true,
		},
		{
			name:        "empty_organization",
			token:       "/widgets",
			expectError: true,
		},
		{
			name:        "empty_repository",
			token:       "acme/@main",
			expectError: true,
		},
		{
			name:        "empty_branch_pin",
			token:       "acme/widgets@",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedSpec, parseError := metamanifest.ParseRepositorySpec(testCase.token)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				require.ErrorAs(testInstance, parseError, &metamanifest.MalformedRepositorySpecError{})
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedSpec, parsedSpec)
		})
	}
}
