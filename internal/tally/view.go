package tally

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/tally/pkg/planner"
)

// View is a read-only snapshot of a category for display.
type View struct {
	Name        string            `json:"name"`
	Sizes       []int             `json:"sizes"`
	Submitted   []decimal.Decimal `json:"submitted"`
	Recommended planner.Counts    `json:"recommended"`
	Requested   decimal.Decimal   `json:"requested"`
	Covered     int64             `json:"covered"`
	Surplus     decimal.Decimal   `json:"surplus"`
}

func (c *category) view() View {
	return View{
		Name:        c.name,
		Sizes:       slices.Clone(c.sizes),
		Submitted:   slices.Clone(c.submitted),
		Recommended: c.recommended.Clone(),
		Requested:   c.requested(),
		Covered:     c.recommended.Total(),
		Surplus:     surplus(c),
	}
}

// Categories returns a snapshot of every category in configuration order.
func (s *Store) Categories() []View {
	views := make([]View, 0, len(s.categories))
	for _, c := range s.categories {
		views = append(views, c.view())
	}
	return views
}

// Category returns a snapshot of one category.
func (s *Store) Category(name string) (View, error) {
	c, err := s.lookup(name)
	if err != nil {
		return View{}, err
	}
	return c.view(), nil
}

// SubmittedAmounts returns a copy of the amounts submitted to a category.
func (s *Store) SubmittedAmounts(name string) ([]decimal.Decimal, error) {
	c, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.submitted), nil
}

// RecommendedCounts returns a copy of the recommended counts of a category.
func (s *Store) RecommendedCounts(name string) (planner.Counts, error) {
	c, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return c.recommended.Clone(), nil
}
