// Package projects resolves the target branch of each repository from the
// per-project configuration section.
package projects

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	// DefaultBranchNameConstant is the target branch of repositories without an override.
	DefaultBranchNameConstant = "develop"

	defaultBranchKeyConstant     = "default_branch"
	decoderCreationErrorTemplate = "unable to prepare projects decoder: %w"
	projectsDecodeErrorTemplate  = "unable to decode projects configuration: %w"
)

// ProjectConfiguration holds the overrides for a single repository.
type ProjectConfiguration struct {
	DefaultBranch string `mapstructure:"default_branch" yaml:"default_branch,omitempty"`
}

// Configuration maps repository names to their overrides. It is immutable once built.
type Configuration struct {
	projects map[string]ProjectConfiguration
}

// NewConfiguration copies and trims the provided overrides.
func NewConfiguration(projects map[string]ProjectConfiguration) Configuration {
	sanitized := make(map[string]ProjectConfiguration, len(projects))
	for name, project := range projects {
		trimmedName := strings.TrimSpace(name)
		if len(trimmedName) == 0 {
			continue
		}
		sanitized[trimmedName] = ProjectConfiguration{DefaultBranch: strings.TrimSpace(project.DefaultBranch)}
	}
	return Configuration{projects: sanitized}
}

// DecodeConfiguration builds a Configuration from the raw projects section.
// A project may be a mapping with default_branch or a bare branch name.
func DecodeConfiguration(raw map[string]any) (Configuration, error) {
	decoded := map[string]ProjectConfiguration{}
	if len(raw) == 0 {
		return NewConfiguration(decoded), nil
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  branchShorthandHook,
		ErrorUnused: true,
		Result:      &decoded,
	})
	if decoderError != nil {
		return Configuration{}, fmt.Errorf(decoderCreationErrorTemplate, decoderError)
	}
	if decodeError := decoder.Decode(raw); decodeError != nil {
		return Configuration{}, fmt.Errorf(projectsDecodeErrorTemplate, decodeError)
	}
	return NewConfiguration(decoded), nil
}

func branchShorthandHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(ProjectConfiguration{}) {
		return data, nil
	}
	return map[string]any{defaultBranchKeyConstant: data}, nil
}

// TargetBranch returns the configured branch for name, falling back to DefaultBranchNameConstant.
// Keys are matched exactly first and then case-insensitively, since configuration keys are case-folded on load.
func (configuration Configuration) TargetBranch(name string) string {
	if project, exists := configuration.lookup(name); exists && len(project.DefaultBranch) > 0 {
		return project.DefaultBranch
	}
	return DefaultBranchNameConstant
}

func (configuration Configuration) lookup(name string) (ProjectConfiguration, bool) {
	if project, exists := configuration.projects[name]; exists {
		return project, true
	}
	for projectName, project := range configuration.projects {
		if strings.EqualFold(projectName, name) {
			return project, true
		}
	}
	return ProjectConfiguration{}, false
}

// Projects returns a copy of the overrides.
func (configuration Configuration) Projects() map[string]ProjectConfiguration {
	duplicated := make(map[string]ProjectConfiguration, len(configuration.projects))
	for name, project := range configuration.projects {
		duplicated[name] = project
	}
	return duplicated
}

// Names lists the configured repository names in lexical order.
func (configuration Configuration) Names() []string {
	names := make([]string, 0, len(configuration.projects))
	for name := range configuration.projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
