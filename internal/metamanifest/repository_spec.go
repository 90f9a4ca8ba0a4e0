package metamanifest

import "strings"

const (
	organizationSeparatorConstant = "/"
	branchSeparatorConstant       = "@"
)

// ParseRepositorySpec splits an "org/repo[@branch]" token.
// Tokens without a branch pin resolve to DefaultBranchName.
func ParseRepositorySpec(token string) (RepositorySpec, error) {
	trimmedToken := strings.TrimSpace(token)

	organization, remainder, hasOrganization := strings.Cut(trimmedToken, organizationSeparatorConstant)
	if !hasOrganization {
		return RepositorySpec{}, MalformedRepositorySpecError{Token: token, Message: missingOrganizationMessageConstant}
	}
	if len(organization) == 0 {
		return RepositorySpec{}, MalformedRepositorySpecError{Token: token, Message: emptyOrganizationMessageConstant}
	}

	repository, branch, hasBranch := strings.Cut(remainder, branchSeparatorConstant)
	if len(repository) == 0 {
		return RepositorySpec{}, MalformedRepositorySpecError{Token: token, Message: emptyRepositoryMessageConstant}
	}
	if !hasBranch {
		branch = DefaultBranchName
	} else if len(branch) == 0 {
		return RepositorySpec{}, MalformedRepositorySpecError{Token: token, Message: emptyBranchMessageConstant}
	}

	return RepositorySpec{Organization: organization, Repository: repository, Branch: branch}, nil
}
