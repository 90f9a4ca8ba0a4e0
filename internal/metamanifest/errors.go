package metamanifest

import "fmt"

const (
	malformedRepositorySpecTemplateConstant  = "malformed repository spec %q: %s"
	templateSubstitutionTemplateConstant     = "remote template %q (%s): %s"
	missingRequiredFieldTemplateConstant     = "missing required field %q in %s"
	missingRequiredFieldHintTemplateConstant = "%s (%s)"
	missingOrganizationMessageConstant       = "expected org/repo[@branch]"
	emptyOrganizationMessageConstant         = "organization is empty"
	emptyRepositoryMessageConstant           = "repository is empty"
	emptyBranchMessageConstant               = "branch pin is empty"
	unsupportedPlaceholderTemplateConstant   = "unsupported placeholder {%s}"
	unterminatedPlaceholderMessageConstant   = "unterminated placeholder"
	unmatchedClosingBraceMessageConstant     = "unmatched closing brace"
)

// MalformedRepositorySpecError reports a repository token that cannot be split into organization and repository.
type MalformedRepositorySpecError struct {
	Token   string
	Message string
}

// Error describes the malformed token.
func (specError MalformedRepositorySpecError) Error() string {
	return fmt.Sprintf(malformedRepositorySpecTemplateConstant, specError.Token, specError.Message)
}

// TemplateSubstitutionError reports a URL format that cannot be expanded.
type TemplateSubstitutionError struct {
	TemplateName string
	URLFormat    string
	Message      string
}

// Error describes the substitution failure.
func (substitutionError TemplateSubstitutionError) Error() string {
	return fmt.Sprintf(templateSubstitutionTemplateConstant, substitutionError.TemplateName, substitutionError.URLFormat, substitutionError.Message)
}

// MissingRequiredFieldError reports a meta-manifest section or field that is absent.
// Hint is optional and suggests how to satisfy the requirement.
type MissingRequiredFieldError struct {
	Field   string
	Context string
	Hint    string
}

// Error describes the missing field.
func (fieldError MissingRequiredFieldError) Error() string {
	message := fmt.Sprintf(missingRequiredFieldTemplateConstant, fieldError.Field, fieldError.Context)
	if len(fieldError.Hint) == 0 {
		return message
	}
	return fmt.Sprintf(missingRequiredFieldHintTemplateConstant, message, fieldError.Hint)
}
