package manifest

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/temirov/tsrcmgr/internal/metamanifest"
)

const (
	manifestOpenErrorTemplateConstant        = "unable to open manifest %s: %w"
	manifestReadErrorTemplateConstant        = "unable to read manifest: %w"
	manifestParseErrorTemplateConstant       = "unable to parse manifest: %w"
	manifestGroupsNotMappingTemplateConstant = "groups at line %d must be a mapping"
	yamlNullTagConstant                      = "!!null"
)

type rawManifest struct {
	Repos  []rawRepository `yaml:"repos"`
	Groups yaml.Node       `yaml:"groups"`
}

type rawRepository struct {
	Dest    string      `yaml:"dest"`
	Branch  string      `yaml:"branch"`
	Remotes []rawRemote `yaml:"remotes"`
}

type rawRemote struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type rawGroup struct {
	Repos []string `yaml:"repos"`
}

// LoadFile reads the manifest stored at filePath.
func LoadFile(filePath string) (OutputManifest, error) {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return OutputManifest{}, fmt.Errorf(manifestOpenErrorTemplateConstant, filePath, openError)
	}
	defer fileHandle.Close()

	return Load(fileHandle)
}

// Load parses a manifest document, keeping repository, remote, and group order.
func Load(reader io.Reader) (OutputManifest, error) {
	content, readError := io.ReadAll(reader)
	if readError != nil {
		return OutputManifest{}, fmt.Errorf(manifestReadErrorTemplateConstant, readError)
	}

	var parsed rawManifest
	if unmarshalError := yaml.Unmarshal(content, &parsed); unmarshalError != nil {
		return OutputManifest{}, fmt.Errorf(manifestParseErrorTemplateConstant, unmarshalError)
	}

	loadedManifest := OutputManifest{Repositories: make([]RepositoryEntry, 0, len(parsed.Repos))}
	for _, repository := range parsed.Repos {
		remotes := make([]metamanifest.RemoteEntry, 0, len(repository.Remotes))
		for _, remote := range repository.Remotes {
			remotes = append(remotes, metamanifest.RemoteEntry{Name: remote.Name, URL: remote.URL})
		}
		loadedManifest.Repositories = append(loadedManifest.Repositories, RepositoryEntry{
			Destination: repository.Dest,
			Branch:      repository.Branch,
			Remotes:     remotes,
		})
	}

	groups, groupsError := parseGroups(&parsed.Groups)
	if groupsError != nil {
		return OutputManifest{}, fmt.Errorf(manifestParseErrorTemplateConstant, groupsError)
	}
	loadedManifest.Groups = groups

	return loadedManifest, nil
}

func parseGroups(groupsNode *yaml.Node) ([]Group, error) {
	if groupsNode.Kind == 0 || (groupsNode.Kind == yaml.ScalarNode && groupsNode.Tag == yamlNullTagConstant) {
		return nil, nil
	}
	if groupsNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf(manifestGroupsNotMappingTemplateConstant, groupsNode.Line)
	}

	groups := make([]Group, 0, len(groupsNode.Content)/2)
	for contentIndex := 0; contentIndex+1 < len(groupsNode.Content); contentIndex += 2 {
		var parsedGroup rawGroup
		if decodeError := groupsNode.Content[contentIndex+1].Decode(&parsedGroup); decodeError != nil {
			return nil, decodeError
		}
		groups = append(groups, Group{
			Name:         groupsNode.Content[contentIndex].Value,
			Repositories: append([]string{}, parsedGroup.Repos...),
		})
	}
	return groups, nil
}
