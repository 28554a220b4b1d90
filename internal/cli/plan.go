package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/planner"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newPlanCmd(s *session) *cobra.Command {
	var (
		sizes    []int
		category string
	)

	cmd := &cobra.Command{
		Use:   "plan <target>",
		Short: "Compute recommended sizes for a target without saving anything",
		Long: `Compute which sizes cover a target amount. Sizes come from --sizes or
from a configured category given with --category.`,
		Example: `  tally plan 300 --sizes 40,80,160,320
  tally plan 300 --category ceramics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return userError(fmt.Errorf("%w: %q", err, args[0]))
			}

			switch {
			case len(sizes) > 0 && category != "":
				return userError(errors.New("use either --sizes or --category, not both"))
			case category != "":
				name, err := s.resolveCategory(category)
				if err != nil {
					return err
				}
				for _, c := range s.cfg.Categories {
					if c.Name == name {
						sizes = c.Sizes
					}
				}
			case len(sizes) == 0:
				return userError(errors.New("one of --sizes or --category is required"))
			}

			if err := types.ValidateCategories([]types.CategoryConfig{{Name: "plan", Sizes: sizes}}); err != nil {
				return userError(err)
			}
			return writeCounts(cmd.OutOrStdout(), s.flags.jsonMode, planner.Plan(target, sizes))
		},
	}

	cmd.Flags().IntSliceVar(&sizes, "sizes", nil, "comma-separated sizes to plan with")
	cmd.Flags().StringVar(&category, "category", "", "plan with the sizes of a configured category")
	return cmd
}

// parseTarget accepts zero in addition to every amount submit accepts.
func parseTarget(raw string) (decimal.Decimal, error) {
	if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil && d.IsZero() {
		return decimal.Zero, nil
	}
	return tally.ParseAmount(raw)
}
