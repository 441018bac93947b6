package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	woofCommandUseConstant   = "woof"
	woofCommandShortConstant = "Check that sammy is alive"
	woofMessageConstant      = "woof"
)

func newWoofCommand() *cobra.Command {
	return &cobra.Command{
		Use:   woofCommandUseConstant,
		Short: woofCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_, writeError := fmt.Fprintln(command.OutOrStdout(), woofMessageConstant)
			return writeError
		},
	}
}
