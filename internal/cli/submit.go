package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newSubmitCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <category> <amount>...",
		Short: "Add requested amounts to a category",
		Long: `Add one or more requested amounts to a category. The recommended sizes
are recomputed from the new total and the state is saved.

Amounts must be numbers greater than zero. Amounts before the first invalid
one are kept.`,
		Example: `  tally submit ceramics 100 50
  tally submit "special alloys" 240`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := s.resolveCategory(args[0])
			if err != nil {
				return err
			}

			return s.withStore(func(st *tally.Store) error {
				for _, raw := range args[1:] {
					if err := st.Submit(name, raw); err != nil {
						if errors.Is(err, types.ErrInvalidAmount) {
							return userError(fmt.Errorf("%w: %q", err, raw))
						}
						return userError(err)
					}
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
