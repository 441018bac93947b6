// Package pathutils resolves user-supplied directory arguments.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant         = "~"
	currentDirectoryConstant    = "."
	forwardSlashSeparatorString = "/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander resolves "~" prefixes against a lazily looked up home directory.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	lookupError           error
	lookupOnce            sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand replaces a leading "~" or "~/" with the home directory. Other paths, including "~user", are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildeSymbolConstant)
	if len(remainder) > 0 && !strings.HasPrefix(remainder, forwardSlashSeparatorString) && !strings.HasPrefix(remainder, string(os.PathSeparator)) {
		return candidatePath
	}

	expander.lookupOnce.Do(func() {
		expander.homeDirectory, expander.lookupError = expander.homeDirectoryProvider()
	})
	if expander.lookupError != nil || len(expander.homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(expander.homeDirectory, remainder)
}

// ResolveRoot trims the candidate, falls back to the current directory when empty, and expands "~".
func (expander *HomeExpander) ResolveRoot(candidatePath string) string {
	trimmed := strings.TrimSpace(candidatePath)
	if len(trimmed) == 0 {
		return currentDirectoryConstant
	}
	return expander.Expand(trimmed)
}
