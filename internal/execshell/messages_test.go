package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesBareRepositoryCommands(t *testing.T) {
	probeCommand := ShellCommand{
		Name: CommandSSH,
		Details: CommandDetails{
			Arguments: []string{"-p", "2222", "git@backup.example.com", "git", "--git-dir=/srv/git/acme/widgets.git", "rev-parse", "--is-bare-repository"},
		},
	}
	initCommand := ShellCommand{
		Name: CommandSSH,
		Details: CommandDetails{
			Arguments: []string{"backup", "git", "init", "--bare", "/srv/git/acme/widgets.git"},
		},
	}

	testCases := []struct {
		name            string
		buildMessage    func(formatter CommandMessageFormatter) string
		expectedMessage string
	}{
		{
			name: "probe_start",
			buildMessage: func(formatter CommandMessageFormatter) string {
				return formatter.BuildStartedMessage(probeCommand)
			},
			expectedMessage: "Checking for bare repository /srv/git/acme/widgets.git on git@backup.example.com port 2222",
		},
		{
			name: "probe_failure",
			buildMessage: func(formatter CommandMessageFormatter) string {
				return formatter.BuildFailureMessage(probeCommand, ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository\n"})
			},
			expectedMessage: "No bare repository /srv/git/acme/widgets.git on git@backup.example.com port 2222 (exit code 128: fatal: not a git repository)",
		},
		{
			name: "init_success",
			buildMessage: func(formatter CommandMessageFormatter) string {
				return formatter.BuildSuccessMessage(initCommand)
			},
			expectedMessage: "Created bare repository /srv/git/acme/widgets.git on backup",
		},
		{
			name: "init_execution_failure",
			buildMessage: func(formatter CommandMessageFormatter) string {
				return formatter.BuildExecutionFailureMessage(initCommand, errors.New("ssh not found"))
			},
			expectedMessage: "Unable to create bare repository /srv/git/acme/widgets.git on backup: ssh not found",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedMessage, testCase.buildMessage(CommandMessageFormatter{}))
		})
	}
}

func TestCommandMessageFormatterFallsBackToGenericMessages(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandSSH,
		Details: CommandDetails{
			Arguments:        []string{"backup", "uptime"},
			WorkingDirectory: "/workspace",
		},
	}

	require.Equal(t, "Running ssh backup uptime (in /workspace)", formatter.BuildStartedMessage(command))
	require.Equal(t, "ssh backup uptime (in /workspace) failed: unknown error", formatter.BuildExecutionFailureMessage(command, nil))
}

func TestParseRemoteInvocationSkipsOptionValues(t *testing.T) {
	invocation := parseRemoteInvocation([]string{"-o", "BatchMode=yes", "-p", "22", "host", "git", "init"})

	require.Equal(t, "host", invocation.host)
	require.Equal(t, "22", invocation.port)
	require.Equal(t, []string{"git", "init"}, invocation.remoteArguments)
}

func TestCommandMessageFormatterUnquotesBareRepositoryPaths(t *testing.T) {
	formatter := CommandMessageFormatter{}
	probeCommand := ShellCommand{
		Name: CommandSSH,
		Details: CommandDetails{
			Arguments: []string{"backup", "git", "'--git-dir=/srv/git/my repos/widgets.git'", "rev-parse", "--is-bare-repository"},
		},
	}
	initCommand := ShellCommand{
		Name: CommandSSH,
		Details: CommandDetails{
			Arguments: []string{"backup", "git", "init", "--bare", "'/srv/git/my repos/widgets.git'"},
		},
	}

	require.Equal(t, "Checking for bare repository /srv/git/my repos/widgets.git on backup", formatter.BuildStartedMessage(probeCommand))
	require.Equal(t, "Creating bare repository /srv/git/my repos/widgets.git on backup", formatter.BuildStartedMessage(initCommand))
}
