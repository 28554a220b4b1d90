package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newRemoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <category> <index>",
		Aliases: []string{"rm"},
		Short:   "Remove a submitted amount by its position",
		Long:    "Remove the submitted amount at the given zero-based position, as listed by show, and recompute the recommended sizes.",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := s.resolveCategory(args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return userError(fmt.Errorf("%w: %q is not a position", types.ErrIndexOutOfRange, args[1]))
			}

			return s.withStore(func(st *tally.Store) error {
				if err := st.RemoveSubmittedAmount(name, index); err != nil {
					return userError(err)
				}
				v, err := st.Category(name)
				if err != nil {
					return userError(err)
				}
				return writeViews(cmd.OutOrStdout(), s.flags.jsonMode, []tally.View{v})
			})
		},
	}
}
