package utils

import "context"

type commandContextKey string

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	configurationNoticeContextKeyConstant   = commandContextKey("configurationNotice")
)

// CommandContextAccessor stores configuration provenance in command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath records the configuration file that was loaded.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return context.WithValue(ensureContext(parentContext), configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath returns the recorded configuration file.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return stringValue(executionContext, configurationFilePathContextKeyConstant)
}

// WithConfigurationNotice records why the configuration fell back to defaults.
func (accessor CommandContextAccessor) WithConfigurationNotice(parentContext context.Context, notice string) context.Context {
	return context.WithValue(ensureContext(parentContext), configurationNoticeContextKeyConstant, notice)
}

// ConfigurationNotice returns the recorded fallback reason, if any.
func (accessor CommandContextAccessor) ConfigurationNotice(executionContext context.Context) (string, bool) {
	return stringValue(executionContext, configurationNoticeContextKeyConstant)
}

func ensureContext(parentContext context.Context) context.Context {
	if parentContext == nil {
		return context.Background()
	}
	return parentContext
}

func stringValue(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	return value, available
}
