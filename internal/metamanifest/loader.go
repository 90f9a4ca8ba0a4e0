package metamanifest

import (
	"errors"
	"fmt"
	"io"
	"os"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

const (
	remotesSectionKeyConstant                  = "remotes"
	localsSectionKeyConstant                   = "locals"
	mirrorsSectionKeyConstant                  = "mirrors"
	remoteNameFieldConstant                    = "remote-name"
	urlFormatFieldConstant                     = "url-format"
	metaManifestContextConstant                = "meta-manifest"
	sectionEntryContextTemplateConstant        = "%s[%d]"
	metaManifestTagNameConstant                = "mapstructure"
	metaManifestOpenErrorTemplateConstant      = "unable to open meta-manifest %s: %w"
	metaManifestReadErrorTemplateConstant      = "unable to read meta-manifest: %w"
	metaManifestParseErrorTemplateConstant     = "unable to parse meta-manifest: %w"
	metaManifestDecodeErrorTemplateConstant    = "unable to decode meta-manifest: %w"
	metaManifestNotMappingErrorMessageConstant = "meta-manifest must be a mapping"
)

type rawMetaManifest struct {
	ManifestFile string              `mapstructure:"manifest-file"`
	Remotes      []rawRemoteTemplate `mapstructure:"remotes"`
	Locals       []rawRemoteTemplate `mapstructure:"locals"`
	Mirrors      []rawMirror         `mapstructure:"mirrors"`
}

type rawRemoteTemplate struct {
	Name                    string `mapstructure:"name"`
	RemoteName              string `mapstructure:"remote-name"`
	URLFormat               string `mapstructure:"url-format"`
	CreateBareRepoIfMissing bool   `mapstructure:"create-bare-repo-if-missing"`
}

type rawMirror struct {
	Repos         []string `mapstructure:"repos"`
	RemoteServers []string `mapstructure:"remote-servers"`
	LocalServers  []string `mapstructure:"local-servers"`
	ManifestFile  string   `mapstructure:"manifest-file"`
}

// LoadFile reads and parses the meta-manifest stored at filePath.
func LoadFile(filePath string) (MetaManifest, error) {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return MetaManifest{}, fmt.Errorf(metaManifestOpenErrorTemplateConstant, filePath, openError)
	}
	defer fileHandle.Close()

	return Load(fileHandle)
}

// Load parses a meta-manifest document.
func Load(reader io.Reader) (MetaManifest, error) {
	content, readError := io.ReadAll(reader)
	if readError != nil {
		return MetaManifest{}, fmt.Errorf(metaManifestReadErrorTemplateConstant, readError)
	}

	var rawDocument any
	if unmarshalError := yaml.Unmarshal(content, &rawDocument); unmarshalError != nil {
		return MetaManifest{}, fmt.Errorf(metaManifestParseErrorTemplateConstant, unmarshalError)
	}

	documentMapping, isMapping := rawDocument.(map[string]any)
	if !isMapping {
		if rawDocument == nil {
			return MetaManifest{}, MissingRequiredFieldError{Field: remotesSectionKeyConstant, Context: metaManifestContextConstant}
		}
		return MetaManifest{}, fmt.Errorf(metaManifestParseErrorTemplateConstant, errors.New(metaManifestNotMappingErrorMessageConstant))
	}

	for _, requiredSection := range []string{remotesSectionKeyConstant, localsSectionKeyConstant, mirrorsSectionKeyConstant} {
		if _, sectionExists := documentMapping[requiredSection]; !sectionExists {
			return MetaManifest{}, MissingRequiredFieldError{Field: requiredSection, Context: metaManifestContextConstant}
		}
	}

	var decoded rawMetaManifest
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          metaManifestTagNameConstant,
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if decoderError != nil {
		return MetaManifest{}, fmt.Errorf(metaManifestDecodeErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(documentMapping); decodeError != nil {
		return MetaManifest{}, fmt.Errorf(metaManifestDecodeErrorTemplateConstant, decodeError)
	}

	return decoded.toMetaManifest()
}

func (raw rawMetaManifest) toMetaManifest() (MetaManifest, error) {
	remoteTemplates, remotesError := convertTemplates(remotesSectionKeyConstant, raw.Remotes)
	if remotesError != nil {
		return MetaManifest{}, remotesError
	}

	localTemplates, localsError := convertTemplates(localsSectionKeyConstant, raw.Locals)
	if localsError != nil {
		return MetaManifest{}, localsError
	}

	mirrors := make([]Mirror, 0, len(raw.Mirrors))
	for _, mirrorEntry := range raw.Mirrors {
		mirrors = append(mirrors, Mirror{
			ManifestPath:     mirrorEntry.ManifestFile,
			RepositoryTokens: append([]string{}, mirrorEntry.Repos...),
			RemoteFilter:     NewNameSet(mirrorEntry.RemoteServers...),
			LocalFilter:      NewNameSet(mirrorEntry.LocalServers...),
		})
	}

	return MetaManifest{
		ManifestPath:    raw.ManifestFile,
		RemoteTemplates: remoteTemplates,
		LocalTemplates:  localTemplates,
		Mirrors:         mirrors,
	}, nil
}

func convertTemplates(sectionName string, rawTemplates []rawRemoteTemplate) ([]RemoteTemplate, error) {
	templates := make([]RemoteTemplate, 0, len(rawTemplates))
	for templateIndex, rawTemplate := range rawTemplates {
		templateContext := fmt.Sprintf(sectionEntryContextTemplateConstant, sectionName, templateIndex)
		if len(rawTemplate.RemoteName) == 0 {
			return nil, MissingRequiredFieldError{Field: remoteNameFieldConstant, Context: templateContext}
		}
		if len(rawTemplate.URLFormat) == 0 {
			return nil, MissingRequiredFieldError{Field: urlFormatFieldConstant, Context: templateContext}
		}
		templates = append(templates, RemoteTemplate{
			Name:                rawTemplate.Name,
			RemoteName:          rawTemplate.RemoteName,
			URLFormat:           rawTemplate.URLFormat,
			CreateBareIfMissing: rawTemplate.CreateBareRepoIfMissing,
		})
	}
	return templates, nil
}
