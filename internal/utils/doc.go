// Package utils exposes helpers shared by the tsrcmgr commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// TSRCMGR_* environment variables through Viper. LoggerFactory builds zap
// loggers for the supported levels, including the silent level selected when
// no verbosity is requested.
package utils
