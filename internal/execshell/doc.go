// Package execshell provides structured helpers for invoking git.
//
// It wraps os/exec behind ShellExecutor, which logs the lifecycle of every
// invocation and reports failures as typed errors, exposes OSCommandRunner for
// default process execution, and defines the CommandRunner abstraction used to
// substitute fake processes in tests.
package execshell
