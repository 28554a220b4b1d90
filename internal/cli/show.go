package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
)

func newShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show [category]",
		Short: "Show submitted amounts and recommended sizes",
		Long:  "Show every category, or just one, with its submitted amounts, the recommended sizes, and the covered total.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				var err error
				if name, err = s.resolveCategory(args[0]); err != nil {
					return err
				}
			}

			return s.withStore(func(st *tally.Store) error {
				views := st.Categories()
				if name != "" {
					v, err := st.Category(name)
					if err != nil {
						return userError(err)
					}
					views = []tally.View{v}
				}
				return writeViews(cmd.OutOrStdout(), s.flags.jsonMode, views)
			})
		},
	}
}
