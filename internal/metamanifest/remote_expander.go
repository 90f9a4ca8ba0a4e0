package metamanifest

import (
	"errors"
	"fmt"
	"strings"
)

const (
	placeholderOpeningBraceConstant = '{'
	placeholderClosingBraceConstant = '}'
	organizationPlaceholderConstant = "org"
	repositoryPlaceholderConstant   = "repo"
)

// ExpandRemote substitutes organization and repository into the template URL format.
// Doubled braces render as literal braces.
func ExpandRemote(template RemoteTemplate, organization string, repository string) (RemoteEntry, error) {
	expandedURL, substitutionError := substitutePlaceholders(template.URLFormat, organization, repository)
	if substitutionError != nil {
		return RemoteEntry{}, TemplateSubstitutionError{
			TemplateName: template.FilterName(),
			URLFormat:    template.URLFormat,
			Message:      substitutionError.Error(),
		}
	}
	return RemoteEntry{Name: template.RemoteName, URL: expandedURL}, nil
}

func substitutePlaceholders(urlFormat string, organization string, repository string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(urlFormat) + len(organization) + len(repository))

	for characterIndex := 0; characterIndex < len(urlFormat); {
		character := urlFormat[characterIndex]
		hasNext := characterIndex+1 < len(urlFormat)

		switch character {
		case placeholderOpeningBraceConstant:
			if hasNext && urlFormat[characterIndex+1] == placeholderOpeningBraceConstant {
				builder.WriteByte(placeholderOpeningBraceConstant)
				characterIndex += 2
				continue
			}
			closingOffset := strings.IndexByte(urlFormat[characterIndex+1:], placeholderClosingBraceConstant)
			if closingOffset == -1 {
				return "", errors.New(unterminatedPlaceholderMessageConstant)
			}
			placeholderName := urlFormat[characterIndex+1 : characterIndex+1+closingOffset]
			switch placeholderName {
			case organizationPlaceholderConstant:
				builder.WriteString(organization)
			case repositoryPlaceholderConstant:
				builder.WriteString(repository)
			default:
				return "", fmt.Errorf(unsupportedPlaceholderTemplateConstant, placeholderName)
			}
			characterIndex += closingOffset + 2
		case placeholderClosingBraceConstant:
			if hasNext && urlFormat[characterIndex+1] == placeholderClosingBraceConstant {
				builder.WriteByte(placeholderClosingBraceConstant)
				characterIndex += 2
				continue
			}
			return "", errors.New(unmatchedClosingBraceMessageConstant)
		default:
			builder.WriteByte(character)
			characterIndex++
		}
	}

	return builder.String(), nil
}
