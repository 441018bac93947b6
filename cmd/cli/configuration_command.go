package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	configurationCommandUseConstant       = "config"
	configurationCommandShortConstant     = "Print the effective configuration"
	configurationCommandLongConstant      = "config prints the configuration sammy runs with, after defaults, the configuration file, and SAMMY_* environment overrides are merged."
	configurationFileCommentTemplate      = "# configuration file: %s\n"
	configurationFileMissingValueConstant = "none"
	configurationEncodeErrorTemplate      = "unable to render configuration: %w"
	configurationYAMLIndentationConstant  = 2
)

// ConfigurationCommandBuilder assembles the config command.
type ConfigurationCommandBuilder struct {
	ConfigurationProvider     func() ApplicationConfiguration
	ConfigurationFileProvider func() string
}

// Build constructs the config command.
func (builder ConfigurationCommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   configurationCommandUseConstant,
		Short: configurationCommandShortConstant,
		Long:  configurationCommandLongConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
}

func (builder ConfigurationCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configurationFile := configurationFileMissingValueConstant
	if builder.ConfigurationFileProvider != nil {
		if provided := builder.ConfigurationFileProvider(); len(provided) > 0 {
			configurationFile = provided
		}
	}

	var configuration ApplicationConfiguration
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	output := command.OutOrStdout()
	fmt.Fprintf(output, configurationFileCommentTemplate, configurationFile)

	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(configurationYAMLIndentationConstant)
	if encodeError := encoder.Encode(configuration); encodeError != nil {
		return fmt.Errorf(configurationEncodeErrorTemplate, encodeError)
	}
	return encoder.Close()
}
