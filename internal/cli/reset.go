package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
)

func newResetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every category and erase the saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withStore(func(st *tally.Store) error {
				st.Reset()
				fmt.Fprintln(cmd.OutOrStdout(), "All materials reset")
				return nil
			})
		},
	}
}
