package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
)

func newInitCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tally configuration and storage",
		Long:  "Create the configuration and data directories, write a default config.yaml, and initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// config.yaml is written by setup; opening the store creates the data dir.
			if err := s.withStore(func(*tally.Store) error { return nil }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tally initialized (%s storage in %s)\n", s.cfg.Backend, s.cfg.DataDir)
			return nil
		},
	}
}
