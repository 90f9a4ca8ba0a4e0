package barerepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/temirov/tsrcmgr/internal/metamanifest"
)

const (
	initializerNotConfiguredMessageConstant = "bare repository trigger requires an initializer"
	externalTriggerErrorTemplateConstant    = "bare repository for remote %s (%s) not ensured: %v"
	skipLineTemplateConstant                = "BARE-REPO-SKIP: %s %s: %v\n"
	createdLineTemplateConstant             = "BARE-REPO-DONE: %s %s\n"
	existingLineTemplateConstant            = "BARE-REPO-EXISTS: %s %s\n"
	triggerFailureLogMessageConstant        = "bare repository creation skipped"
	triggerCreatedLogMessageConstant        = "bare repository created"
	triggerExistingLogMessageConstant       = "bare repository already present"
	remoteNameLogFieldConstant              = "remote"
	remoteURLLogFieldConstant               = "url"
	locationLogFieldConstant                = "location"
)

// ErrInitializerNotConfigured indicates NewTrigger received a nil initializer.
var ErrInitializerNotConfigured = errors.New(initializerNotConfiguredMessageConstant)

// ExternalTriggerError reports a bare repository that could not be ensured for a remote.
type ExternalTriggerError struct {
	Remote metamanifest.RemoteEntry
	Cause  error
}

// Error describes the failed remote.
func (triggerError ExternalTriggerError) Error() string {
	return fmt.Sprintf(externalTriggerErrorTemplateConstant, triggerError.Remote.Name, triggerError.Remote.URL, triggerError.Cause)
}

// Unwrap exposes the underlying failure.
func (triggerError ExternalTriggerError) Unwrap() error {
	return triggerError.Cause
}

// Trigger ensures bare repositories exist for local remotes on a best-effort basis.
// It is safe for concurrent use.
type Trigger struct {
	initializer  BareRepositoryInitializer
	logger       *zap.Logger
	outputWriter io.Writer
	errorWriter  io.Writer
	guard        sync.Mutex
	failures     error
}

// NewTrigger constructs a Trigger. Nil writers discard output and a nil logger is replaced by a no-op logger.
func NewTrigger(initializer BareRepositoryInitializer, logger *zap.Logger, outputWriter io.Writer, errorWriter io.Writer) (*Trigger, error) {
	if initializer == nil {
		return nil, ErrInitializerNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if errorWriter == nil {
		errorWriter = io.Discard
	}
	return &Trigger{
		initializer:  initializer,
		logger:       logger,
		outputWriter: outputWriter,
		errorWriter:  errorWriter,
	}, nil
}

// Fire ensures a bare repository exists behind remote. Failures are reported and
// collected for Failures; they never propagate.
func (trigger *Trigger) Fire(executionContext context.Context, remote metamanifest.RemoteEntry) {
	remoteFields := []zap.Field{
		zap.String(remoteNameLogFieldConstant, remote.Name),
		zap.String(remoteURLLogFieldConstant, remote.URL),
	}

	location, parseError := ParseLocation(remote.URL)
	if parseError != nil {
		trigger.recordFailure(remote, parseError, remoteFields)
		return
	}
	remoteFields = append(remoteFields, zap.Stringer(locationLogFieldConstant, location))

	initializationResult, initializationError := trigger.initializer.EnsureBareRepository(executionContext, location)
	if initializationError != nil {
		trigger.recordFailure(remote, initializationError, remoteFields)
		return
	}

	trigger.guard.Lock()
	defer trigger.guard.Unlock()
	if initializationResult.Created {
		trigger.logger.Info(triggerCreatedLogMessageConstant, remoteFields...)
		fmt.Fprintf(trigger.outputWriter, createdLineTemplateConstant, remote.Name, location)
		return
	}
	trigger.logger.Debug(triggerExistingLogMessageConstant, remoteFields...)
	fmt.Fprintf(trigger.outputWriter, existingLineTemplateConstant, remote.Name, location)
}

// Failures returns every failure recorded so far combined into one error, or nil.
func (trigger *Trigger) Failures() error {
	trigger.guard.Lock()
	defer trigger.guard.Unlock()
	return trigger.failures
}

func (trigger *Trigger) recordFailure(remote metamanifest.RemoteEntry, cause error, remoteFields []zap.Field) {
	triggerError := ExternalTriggerError{Remote: remote, Cause: cause}

	trigger.guard.Lock()
	defer trigger.guard.Unlock()
	trigger.failures = multierr.Append(trigger.failures, triggerError)
	trigger.logger.Error(triggerFailureLogMessageConstant, append(remoteFields, zap.Error(cause))...)
	fmt.Fprintf(trigger.errorWriter, skipLineTemplateConstant, remote.Name, remote.URL, cause)
}
