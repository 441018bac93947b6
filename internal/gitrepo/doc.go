// Package gitrepo provides Repository, the handle through which every
// per-checkout query and mutation reaches the version-control backend.
//
// Each operation maps to exactly one git invocation scoped to the checkout's
// working directory; nothing is cached and nothing is retried.
package gitrepo
