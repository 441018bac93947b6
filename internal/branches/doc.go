// Package branches holds what the check and update commands share: the
// configuration fields common to both, repository target collection, and
// logger resolution.
//
// The engines themselves live in the status and update subpackages.
package branches
