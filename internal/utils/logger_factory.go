package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelSilentStringConstant         = "silent"
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelSilent LogLevel = LogLevel(logLevelSilentStringConstant)
	LogLevelDebug  LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo   LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn   LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError  LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// verbosityLogLevels maps repeated -v flags to log levels; counts past the end select the last level.
var verbosityLogLevels = []LogLevel{
	LogLevelSilent,
	LogLevelError,
	LogLevelWarn,
	LogLevelInfo,
	LogLevelDebug,
}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingStringConstant,
	LogFormatConsole:    consoleZapEncodingStringConstant,
}

// LogLevelForVerbosity converts a verbosity count into a log level.
func LogLevelForVerbosity(verbosityCount int) LogLevel {
	if verbosityCount <= 0 {
		return LogLevelSilent
	}
	if verbosityCount >= len(verbosityLogLevels) {
		return verbosityLogLevels[len(verbosityLogLevels)-1]
	}
	return verbosityLogLevels[verbosityCount]
}

// NormalizeLogLevel lowercases and trims a textual log level.
func NormalizeLogLevel(rawLogLevel string) LogLevel {
	return LogLevel(strings.ToLower(strings.TrimSpace(rawLogLevel)))
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
// The silent level yields a no-op logger.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	encoding, formatExists := logFormatEncodingMapping[requestedLogFormat]
	if !formatExists {
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	if requestedLogLevel == LogLevelSilent {
		return zap.NewNop(), nil
	}

	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding
	if requestedLogFormat == LogFormatConsole {
		configuration.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		configuration.DisableStacktrace = true
	}

	logger, buildError := configuration.Build()
	if buildError != nil {
		return nil, buildError
	}

	return logger, nil
}
