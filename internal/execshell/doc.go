// Package execshell runs external processes on behalf of tsrcmgr.
//
// ShellExecutor wraps a CommandRunner with structured logging and lifecycle
// notifications. OSCommandRunner is the default os/exec backed runner, and
// CommandMessageFormatter turns ssh invocations that manage remote bare
// repositories into readable log lines.
package execshell
