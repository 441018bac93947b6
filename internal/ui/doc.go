// Package ui renders backend command events as human-readable console log lines.
package ui
