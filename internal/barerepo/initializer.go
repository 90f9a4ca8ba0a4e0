package barerepo

import (
	"context"
	"errors"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/temirov/tsrcmgr/internal/execshell"
)

const (
	sshPortFlagConstant                  = "-p"
	gitExecutableConstant                = "git"
	gitGitDirectoryFlagConstant          = "--git-dir="
	gitRevParseSubcommandConstant        = "rev-parse"
	gitIsBareRepositoryFlagConstant      = "--is-bare-repository"
	gitInitSubcommandConstant            = "init"
	gitBareFlagConstant                  = "--bare"
	gitTrueOutputConstant                = "true"
	executorNotConfiguredMessageConstant = "ssh initializer requires a shell executor"
)

// ErrExecutorNotConfigured indicates NewSSHInitializer received a nil executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// InitializationResult records what EnsureBareRepository found or did.
type InitializationResult struct {
	Location Location
	Created  bool
}

// BareRepositoryInitializer makes sure a bare repository exists at a location.
type BareRepositoryInitializer interface {
	EnsureBareRepository(executionContext context.Context, location Location) (InitializationResult, error)
}

// SSHExecutor runs ssh invocations.
type SSHExecutor interface {
	ExecuteSSH(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// SSHInitializer probes and creates bare repositories by running git on the remote host.
type SSHInitializer struct {
	executor SSHExecutor
}

// NewSSHInitializer constructs an SSHInitializer.
func NewSSHInitializer(executor SSHExecutor) (*SSHInitializer, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &SSHInitializer{executor: executor}, nil
}

// EnsureBareRepository runs "git init --bare" unless the probe reports an existing bare repository.
// A probe that exits non-zero means the repository is absent; a probe that cannot run is an error.
// The remote shell receives the path quoted as a single word.
func (initializer *SSHInitializer) EnsureBareRepository(executionContext context.Context, location Location) (InitializationResult, error) {
	probeResult, probeError := initializer.executor.ExecuteSSH(executionContext, execshell.CommandDetails{
		Arguments: remoteArguments(location, gitExecutableConstant, shellquote.Join(gitGitDirectoryFlagConstant+location.Path), gitRevParseSubcommandConstant, gitIsBareRepositoryFlagConstant),
	})
	if probeError == nil && strings.TrimSpace(probeResult.StandardOutput) == gitTrueOutputConstant {
		return InitializationResult{Location: location, Created: false}, nil
	}
	var commandFailedError execshell.CommandFailedError
	if probeError != nil && !errors.As(probeError, &commandFailedError) {
		return InitializationResult{}, probeError
	}

	_, initError := initializer.executor.ExecuteSSH(executionContext, execshell.CommandDetails{
		Arguments: remoteArguments(location, gitExecutableConstant, gitInitSubcommandConstant, gitBareFlagConstant, shellquote.Join(location.Path)),
	})
	if initError != nil {
		return InitializationResult{}, initError
	}
	return InitializationResult{Location: location, Created: true}, nil
}

func remoteArguments(location Location, remoteCommand ...string) []string {
	arguments := make([]string, 0, len(remoteCommand)+3)
	if len(location.Port) > 0 {
		arguments = append(arguments, sshPortFlagConstant, location.Port)
	}
	arguments = append(arguments, location.Host)
	return append(arguments, remoteCommand...)
}
