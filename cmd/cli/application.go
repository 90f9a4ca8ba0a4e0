package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/tsrcmgr/internal/barerepo"
	"github.com/temirov/tsrcmgr/internal/execshell"
	"github.com/temirov/tsrcmgr/internal/utils"
)

const (
	applicationNameConstant                 = "tsrcmgr"
	applicationShortDescriptionConstant     = "Generate and compare tsrc manifests"
	applicationLongDescriptionConstant      = "tsrcmgr expands a meta-manifest of organizations, repositories and server templates into tsrc manifests, one per mirror, and compares manifests structurally."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level (silent, error, warn, info, debug)."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	verboseFlagNameConstant                 = "verbose"
	verboseFlagShorthandConstant            = "v"
	verboseFlagUsageConstant                = "Increase log verbosity; repeat up to four times."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	genConfigurationKeyConstant             = "tools.gen"
	environmentPrefixConstant               = "TSRCMGR"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	userConfigurationSearchPathConstant     = "~/.tsrcmgr"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	verboseBannerTemplateConstant           = "Verbose logging is enabled. (LEVEL=%s)"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds per-command configuration.
type ApplicationToolsConfiguration struct {
	Generate GenerateConfiguration `mapstructure:"gen"`
}

// InitializerFactory builds the collaborator that creates bare repositories for gen.
type InitializerFactory func(logger *zap.Logger) (barerepo.BareRepositoryInitializer, error)

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	verbosityCount        int
	initializerFactory    InitializerFactory
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant, userConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		initializerFactory:  newSSHInitializer,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().CountVarP(&application.verbosityCount, verboseFlagNameConstant, verboseFlagShorthandConstant, verboseFlagUsageConstant)

	generateBuilder := GenerateCommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() GenerateConfiguration {
			return application.configuration.Tools.Generate
		},
		InitializerProvider: func() (barerepo.BareRepositoryInitializer, error) {
			return application.initializerFactory(application.logger)
		},
	}
	if generateCommand, generateBuildError := generateBuilder.Build(); generateBuildError == nil {
		cobraCommand.AddCommand(generateCommand)
	}

	diffBuilder := DiffCommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
	}
	if diffCommand, diffBuildError := diffBuilder.Build(); diffBuildError == nil {
		cobraCommand.AddCommand(diffCommand)
	}

	versionBuilder := VersionCommandBuilder{}
	if versionCommand, versionBuildError := versionBuilder.Build(); versionBuildError == nil {
		cobraCommand.AddCommand(versionCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelSilent),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range DefaultGenerateConfigurationValues(genConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	switch {
	case application.persistentFlagChanged(command, logLevelFlagNameConstant):
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	case application.verbosityCount > 0:
		application.configuration.Common.LogLevel = string(utils.LogLevelForVerbosity(application.verbosityCount))
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.NormalizeLogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(strings.TrimSpace(application.configuration.Common.LogFormat)),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	if application.verbosityCount > 0 && command != nil {
		bannerLevel := strings.ToUpper(string(utils.NormalizeLogLevel(application.configuration.Common.LogLevel)))
		color.New(color.FgYellow).Fprintln(command.OutOrStdout(), fmt.Sprintf(verboseBannerTemplateConstant, bannerLevel))
	}

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func newSSHInitializer(logger *zap.Logger) (barerepo.BareRepositoryInitializer, error) {
	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}
	return barerepo.NewSSHInitializer(shellExecutor)
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
