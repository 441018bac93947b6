// Package cli constructs the sammy command-line interface: the Cobra command
// hierarchy, the layered configuration loader and the zap logger shared by
// the check and update commands.
package cli
