// Package execshell runs the version-control backend as an external process.
//
// ShellExecutor wraps a CommandRunner with structured logging, lifecycle
// notifications for observers, and typed failures that separate a non-zero
// exit status from a process that could not be started at all.
package execshell
