package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the tally release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/tally"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tally version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tally v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
