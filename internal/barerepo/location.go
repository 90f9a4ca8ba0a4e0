package barerepo

import (
	"fmt"
	"strings"
)

const (
	schemeSeparatorConstant              = "://"
	userDelimiterConstant                = "@"
	portDelimiterConstant                = ":"
	scpPathDelimiterConstant             = ":"
	pathSeparatorConstant                = "/"
	locationParseErrorTemplateConstant   = "cannot locate bare repository for %q: %s"
	locationStringTemplateConstant       = "%s:%s"
	locationWithPortTemplateConstant     = "%s:%s:%s"
	emptyURLMessageConstant              = "url is empty"
	missingHostMessageConstant           = "url has no host"
	missingPathMessageConstant           = "url has no repository path"
	invalidPortMessageConstant           = "url port is not numeric"
	unrecognizedURLFormatMessageConstant = "url is neither scheme://host/path nor host:path"
)

// Location identifies a repository directory on a remote host.
type Location struct {
	Host string
	Port string
	Path string
}

// String renders the location as host[:port]:path.
func (location Location) String() string {
	if len(location.Port) == 0 {
		return fmt.Sprintf(locationStringTemplateConstant, location.Host, location.Path)
	}
	return fmt.Sprintf(locationWithPortTemplateConstant, location.Host, location.Port, location.Path)
}

// LocationParseError reports a remote URL that does not name a host and path.
type LocationParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError LocationParseError) Error() string {
	return fmt.Sprintf(locationParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseLocation derives the host, port and repository path of a remote URL.
//
// "scheme://[user@]host[:port]/a/b" yields Path "/a/b". The scp-like form
// "[user@]host:path" yields the path exactly as written.
func ParseLocation(remoteURL string) (Location, error) {
	trimmedURL := strings.TrimSpace(remoteURL)
	if len(trimmedURL) == 0 {
		return Location{}, LocationParseError{Input: remoteURL, Message: emptyURLMessageConstant}
	}

	if _, afterScheme, hasScheme := strings.Cut(trimmedURL, schemeSeparatorConstant); hasScheme {
		return parseSchemeLocation(remoteURL, afterScheme)
	}
	return parseScpLocation(remoteURL, trimmedURL)
}

func parseSchemeLocation(input string, afterScheme string) (Location, error) {
	authority, pathRemainder, hasPath := strings.Cut(afterScheme, pathSeparatorConstant)
	if !hasPath || len(strings.Trim(pathRemainder, pathSeparatorConstant)) == 0 {
		return Location{}, LocationParseError{Input: input, Message: missingPathMessageConstant}
	}

	host, port, authorityError := splitAuthority(input, authority)
	if authorityError != nil {
		return Location{}, authorityError
	}

	return Location{Host: host, Port: port, Path: pathSeparatorConstant + pathRemainder}, nil
}

func parseScpLocation(input string, trimmedURL string) (Location, error) {
	host, path, hasDelimiter := strings.Cut(trimmedURL, scpPathDelimiterConstant)
	if !hasDelimiter || strings.Contains(host, pathSeparatorConstant) {
		return Location{}, LocationParseError{Input: input, Message: unrecognizedURLFormatMessageConstant}
	}
	if len(hostName(host)) == 0 {
		return Location{}, LocationParseError{Input: input, Message: missingHostMessageConstant}
	}
	if len(path) == 0 {
		return Location{}, LocationParseError{Input: input, Message: missingPathMessageConstant}
	}
	return Location{Host: host, Path: path}, nil
}

// splitAuthority separates "[user@]host[:port]" into the ssh destination and port.
func splitAuthority(input string, authority string) (string, string, error) {
	destination := authority
	port := ""
	userPrefixLength := strings.LastIndex(authority, userDelimiterConstant) + 1
	if portIndex := strings.LastIndex(authority[userPrefixLength:], portDelimiterConstant); portIndex >= 0 {
		destination = authority[:userPrefixLength+portIndex]
		port = authority[userPrefixLength+portIndex+1:]
		if !isNumeric(port) {
			return "", "", LocationParseError{Input: input, Message: invalidPortMessageConstant}
		}
	}
	if len(hostName(destination)) == 0 {
		return "", "", LocationParseError{Input: input, Message: missingHostMessageConstant}
	}
	return destination, port, nil
}

func hostName(destination string) string {
	userDelimiterIndex := strings.LastIndex(destination, userDelimiterConstant)
	return destination[userDelimiterIndex+1:]
}

func isNumeric(value string) bool {
	if len(value) == 0 {
		return false
	}
	for _, character := range value {
		if character < '0' || character > '9' {
			return false
		}
	}
	return true
}
