package execshell

import (
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	hostWithPortTemplateConstant            = "%s port %s"
)

const (
	sshPortFlagConstant             = "-p"
	sshOptionFlagConstant           = "-o"
	sshIdentityFlagConstant         = "-i"
	sshLoginFlagConstant            = "-l"
	flagPrefixConstant              = "-"
	gitExecutableConstant           = "git"
	gitGitDirectoryPrefixConstant   = "--git-dir="
	gitRevParseSubcommandConstant   = "rev-parse"
	gitIsBareRepositoryFlagConstant = "--is-bare-repository"
	gitInitSubcommandConstant       = "init"
	gitBareFlagConstant             = "--bare"
)

const (
	bareProbeStartTemplateConstant            = "Checking for bare repository %s on %s"
	bareProbeSuccessTemplateConstant          = "Checked for bare repository %s on %s"
	bareProbeFailureTemplateConstant          = "No bare repository %s on %s (exit code %d%s)"
	bareProbeExecutionFailureTemplateConstant = "Unable to check for bare repository %s on %s: %s"
	bareInitStartTemplateConstant             = "Creating bare repository %s on %s"
	bareInitSuccessTemplateConstant           = "Created bare repository %s on %s"
	bareInitFailureTemplateConstant           = "Failed to create bare repository %s on %s (exit code %d%s)"
	bareInitExecutionFailureTemplateConstant  = "Unable to create bare repository %s on %s: %s"
)

// sshFlagsWithValues lists ssh options that consume the following argument.
var sshFlagsWithValues = map[string]struct{}{
	sshPortFlagConstant:     {},
	sshOptionFlagConstant:   {},
	sshIdentityFlagConstant: {},
	sshLoginFlagConstant:    {},
}

type remoteInvocation struct {
	host            string
	port            string
	remoteArguments []string
}

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	bareProbeTemplates = stageTemplates{
		start:            bareProbeStartTemplateConstant,
		success:          bareProbeSuccessTemplateConstant,
		failure:          bareProbeFailureTemplateConstant,
		executionFailure: bareProbeExecutionFailureTemplateConstant,
	}
	bareInitTemplates = stageTemplates{
		start:            bareInitStartTemplateConstant,
		success:          bareInitSuccessTemplateConstant,
		failure:          bareInitFailureTemplateConstant,
		executionFailure: bareInitExecutionFailureTemplateConstant,
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandSSH {
		invocation := parseRemoteInvocation(command.Details.Arguments)
		if repositoryPath, isProbe := invocation.bareProbePath(); isProbe {
			return formatter.describeRemoteRepositoryStage(bareProbeTemplates, repositoryPath, invocation, result, failure, stage)
		}
		if repositoryPath, isInit := invocation.bareInitPath(); isInit {
			return formatter.describeRemoteRepositoryStage(bareInitTemplates, repositoryPath, invocation, result, failure, stage)
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeRemoteRepositoryStage(templates stageTemplates, repositoryPath string, invocation remoteInvocation, result ExecutionResult, failure error, stage messageStage) string {
	hostLabel := invocation.hostLabel()
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, repositoryPath, hostLabel)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, repositoryPath, hostLabel)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, repositoryPath, hostLabel, result.ExitCode, standardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, repositoryPath, hostLabel, formatter.describeFailure(failure))
	default:
		return ""
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := describeCommand(command) + formatter.formatWorkingDirectorySuffix(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, standardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return ""
	}
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return ""
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// parseRemoteInvocation separates ssh options from the destination host and the remote command.
func parseRemoteInvocation(arguments []string) remoteInvocation {
	invocation := remoteInvocation{}
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		argument := arguments[argumentIndex]
		if !strings.HasPrefix(argument, flagPrefixConstant) {
			invocation.host = argument
			invocation.remoteArguments = arguments[argumentIndex+1:]
			return invocation
		}
		if _, consumesValue := sshFlagsWithValues[argument]; consumesValue && argumentIndex+1 < len(arguments) {
			argumentIndex++
			if argument == sshPortFlagConstant {
				invocation.port = arguments[argumentIndex]
			}
		}
	}
	return invocation
}

func (invocation remoteInvocation) hostLabel() string {
	if len(invocation.port) == 0 {
		return invocation.host
	}
	return fmt.Sprintf(hostWithPortTemplateConstant, invocation.host, invocation.port)
}

// bareProbePath matches "git --git-dir=<path> rev-parse --is-bare-repository".
func (invocation remoteInvocation) bareProbePath() (string, bool) {
	arguments := invocation.remoteArguments
	if len(arguments) != 4 || arguments[0] != gitExecutableConstant {
		return "", false
	}
	gitDirectoryArgument := unquoteRemoteWord(arguments[1])
	if !strings.HasPrefix(gitDirectoryArgument, gitGitDirectoryPrefixConstant) || arguments[2] != gitRevParseSubcommandConstant || arguments[3] != gitIsBareRepositoryFlagConstant {
		return "", false
	}
	return strings.TrimPrefix(gitDirectoryArgument, gitGitDirectoryPrefixConstant), true
}

// bareInitPath matches "git init --bare <path>".
func (invocation remoteInvocation) bareInitPath() (string, bool) {
	arguments := invocation.remoteArguments
	if len(arguments) != 4 || arguments[0] != gitExecutableConstant || arguments[1] != gitInitSubcommandConstant || arguments[2] != gitBareFlagConstant {
		return "", false
	}
	return unquoteRemoteWord(arguments[3]), true
}

// unquoteRemoteWord reverses the shell quoting applied to a single remote argument.
func unquoteRemoteWord(word string) string {
	words, splitError := shellquote.Split(word)
	if splitError != nil || len(words) != 1 {
		return word
	}
	return words[0]
}
