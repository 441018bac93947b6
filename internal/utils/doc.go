// Package utils holds the ambient plumbing shared by every command: the
// Viper-backed ConfigurationLoader, the zap LoggerFactory, the command context
// accessor, and a writer that flushes after every write.
package utils
