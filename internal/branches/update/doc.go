// Package update fast-forwards the target branch of every selected repository
// after the operator confirms the batch.
//
// Each repository goes through pending-changes check, fetch, checkout and pull,
// stopping at the first failing step. With stay set, the branch that was checked
// out beforehand is restored afterwards; failing to restore it aborts the run.
package update
