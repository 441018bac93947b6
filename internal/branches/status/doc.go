// Package status classifies how each repository's target branch relates to
// its origin counterpart and renders one report line per repository.
package status
