package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/temirov/tsrcmgr/internal/barerepo"
	"github.com/temirov/tsrcmgr/internal/manifest"
	"github.com/temirov/tsrcmgr/internal/metamanifest"
	pathutils "github.com/temirov/tsrcmgr/internal/utils/path"
)

const (
	generateCommandUseConstant                = "gen"
	generateCommandShortDescriptionConstant   = "Generate tsrc manifests from a meta-manifest"
	generateCommandLongDescriptionConstant    = "gen expands every mirror of the meta-manifest into a tsrc manifest and writes it to the mirror's manifest-file. Local remotes flagged with create-bare-repo-if-missing get a bare repository over ssh."
	generateInputFlagNameConstant             = "input"
	generateInputFlagShorthandConstant        = "i"
	generateInputFlagUsageConstant            = "Path to the meta-manifest file."
	generateCollapseFlagNameConstant          = "collapse"
	generateCollapseFlagUsageConstant         = "Write all mirrors into the meta-manifest's top-level manifest-file."
	generateSkipBareFlagNameConstant          = "skip-bare-repositories"
	generateSkipBareFlagUsageConstant         = "Do not create missing bare repositories for local remotes."
	generateInputConfigKeySuffixConstant      = "input"
	generateCollapseConfigKeySuffixConstant   = "collapse_mirrors"
	generateBareConfigKeySuffixConstant       = "create_bare_repositories"
	generateDefaultInputPathConstant          = "~/.tsrcmgr/metamanifest.yml"
	generateConfigurationKeySeparatorConstant = "."
	metaManifestLoadedTemplateConstant        = "Metamanifest loaded: %s\n"
	manifestWrittenTemplateConstant           = "Manifest written: %s\n"
	generateInputMissingMessageConstant       = "meta-manifest input path is empty"
	loggerProviderMissingMessageConstant      = "logger provider not configured"
	initializerProviderMissingMessageConstant = "bare repository initializer provider not configured"
	bareRepositoryFailuresMessageConstant     = "some bare repositories could not be ensured"
	generateCompletedMessageConstant          = "manifest generation completed"
	logFieldInputConstant                     = "input"
	logFieldManifestCountConstant             = "manifest_count"
	logFieldFailureCountConstant              = "failure_count"
)

var (
	errGenerateInputMissing       = errors.New(generateInputMissingMessageConstant)
	errLoggerProviderMissing      = errors.New(loggerProviderMissingMessageConstant)
	errInitializerProviderMissing = errors.New(initializerProviderMissingMessageConstant)
)

// GenerateConfiguration captures the gen command settings.
type GenerateConfiguration struct {
	Input                  string `mapstructure:"input"`
	CollapseMirrors        bool   `mapstructure:"collapse_mirrors"`
	CreateBareRepositories bool   `mapstructure:"create_bare_repositories"`
}

// DefaultGenerateConfigurationValues returns the gen defaults keyed below configurationKeyPrefix.
func DefaultGenerateConfigurationValues(configurationKeyPrefix string) map[string]any {
	prefix := strings.TrimSuffix(configurationKeyPrefix, generateConfigurationKeySeparatorConstant) + generateConfigurationKeySeparatorConstant
	return map[string]any{
		prefix + generateInputConfigKeySuffixConstant:    generateDefaultInputPathConstant,
		prefix + generateCollapseConfigKeySuffixConstant: false,
		prefix + generateBareConfigKeySuffixConstant:     true,
	}
}

// GenerateCommandBuilder assembles the gen command.
type GenerateCommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ConfigurationProvider func() GenerateConfiguration
	InitializerProvider   func() (barerepo.BareRepositoryInitializer, error)
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the gen command.
func (builder *GenerateCommandBuilder) Build() (*cobra.Command, error) {
	if builder.LoggerProvider == nil {
		return nil, errLoggerProviderMissing
	}
	if builder.InitializerProvider == nil {
		return nil, errInitializerProviderMissing
	}

	command := &cobra.Command{
		Use:   generateCommandUseConstant,
		Short: generateCommandShortDescriptionConstant,
		Long:  generateCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().StringP(generateInputFlagNameConstant, generateInputFlagShorthandConstant, generateDefaultInputPathConstant, generateInputFlagUsageConstant)
	command.Flags().Bool(generateCollapseFlagNameConstant, false, generateCollapseFlagUsageConstant)
	command.Flags().Bool(generateSkipBareFlagNameConstant, false, generateSkipBareFlagUsageConstant)

	return command, nil
}

func (builder *GenerateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		logger = zap.NewNop()
	}

	homeExpander := builder.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}

	metaManifest, loadError := metamanifest.LoadFile(homeExpander.Expand(configuration.Input))
	if loadError != nil {
		return loadError
	}
	fmt.Fprintf(command.OutOrStdout(), metaManifestLoadedTemplateConstant, configuration.Input)

	var trigger *barerepo.Trigger
	var builderTrigger manifest.BareRepositoryTrigger
	if configuration.CreateBareRepositories {
		initializer, initializerError := builder.InitializerProvider()
		if initializerError != nil {
			return initializerError
		}
		trigger, initializerError = barerepo.NewTrigger(initializer, logger, command.OutOrStdout(), command.ErrOrStderr())
		if initializerError != nil {
			return initializerError
		}
		builderTrigger = trigger
	}

	manifestBuilder := manifest.NewBuilder(manifest.BuilderOptions{
		CollapseMirrors:               configuration.CollapseMirrors,
		TriggerBareRepositoryCreation: configuration.CreateBareRepositories,
	}, builderTrigger, logger)
	manifestWriter := manifest.NewWriter(homeExpander)

	writtenCount := 0
	buildError := manifestBuilder.BuildEach(command.Context(), metaManifest, func(target manifest.ManifestTarget) error {
		if writeError := manifestWriter.Write(target.Path, target.Manifest); writeError != nil {
			return writeError
		}
		writtenCount++
		fmt.Fprintf(command.OutOrStdout(), manifestWrittenTemplateConstant, target.Path)
		return nil
	})
	if buildError != nil {
		return buildError
	}

	if trigger != nil {
		if failures := trigger.Failures(); failures != nil {
			logger.Warn(bareRepositoryFailuresMessageConstant, zap.Int(logFieldFailureCountConstant, len(multierr.Errors(failures))), zap.Error(failures))
		}
	}

	logger.Info(generateCompletedMessageConstant, zap.String(logFieldInputConstant, configuration.Input), zap.Int(logFieldManifestCountConstant, writtenCount))
	return nil
}

// resolveConfiguration applies changed flags over the configured values.
func (builder *GenerateCommandBuilder) resolveConfiguration(command *cobra.Command) (GenerateConfiguration, error) {
	configuration := GenerateConfiguration{Input: generateDefaultInputPathConstant, CreateBareRepositories: true}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command.Flags().Changed(generateInputFlagNameConstant) {
		inputValue, flagError := command.Flags().GetString(generateInputFlagNameConstant)
		if flagError != nil {
			return GenerateConfiguration{}, flagError
		}
		configuration.Input = inputValue
	}
	if command.Flags().Changed(generateCollapseFlagNameConstant) {
		collapseValue, flagError := command.Flags().GetBool(generateCollapseFlagNameConstant)
		if flagError != nil {
			return GenerateConfiguration{}, flagError
		}
		configuration.CollapseMirrors = collapseValue
	}
	if command.Flags().Changed(generateSkipBareFlagNameConstant) {
		skipValue, flagError := command.Flags().GetBool(generateSkipBareFlagNameConstant)
		if flagError != nil {
			return GenerateConfiguration{}, flagError
		}
		configuration.CreateBareRepositories = !skipValue
	}

	configuration.Input = strings.TrimSpace(configuration.Input)
	if len(configuration.Input) == 0 {
		return GenerateConfiguration{}, errGenerateInputMissing
	}
	return configuration, nil
}
