package types

import (
	"errors"
	"fmt"
)

// CategoryConfig is the immutable definition of a tallied category: a unique
// name and the denominations ("sizes") it can be covered with.
type CategoryConfig struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Sizes []int  `json:"sizes" yaml:"sizes,flow" mapstructure:"sizes"`
}

// MaxAmount bounds both a category's requested total and its sizes, so
// recommended counts and covered totals always fit in an int64.
const MaxAmount = 1_000_000_000_000_000

// Category errors.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidAmount    = errors.New("amount must be a finite number greater than zero")
	ErrAmountTooLarge   = errors.New("amount exceeds the maximum category total of 1e15")
	ErrIndexOutOfRange  = errors.New("index out of range")
)

// DefaultCategories returns the material categories tallied when no
// configuration overrides them.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "Ceramics", Sizes: []int{40, 80, 160, 320, 480, 640, 800}},
		{Name: "Chemicals", Sizes: []int{30, 60, 120, 240, 360, 480, 600}},
		{Name: "Metals", Sizes: []int{50, 100, 200, 400, 600, 800, 1000}},
		{Name: "Resins", Sizes: []int{40, 80, 160, 320, 480, 640, 800}},
		{Name: "Special Alloys", Sizes: []int{60, 120, 240, 480, 720, 960, 1200}},
	}
}

// ValidateCategories checks that there is at least one category, names are
// non-empty and unique, and every size list is non-empty with sizes in
// (0, MaxAmount].
func ValidateCategories(categories []CategoryConfig) error {
	if len(categories) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.Name == "" {
			return ErrCategoryNameEmpty
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, c.Name)
		}
		seen[c.Name] = true
		if len(c.Sizes) == 0 {
			return fmt.Errorf("%w: %q", ErrSizesInvalid, c.Name)
		}
		for _, s := range c.Sizes {
			if s <= 0 || s > MaxAmount {
				return fmt.Errorf("%w: %q has size %d", ErrSizesInvalid, c.Name, s)
			}
		}
	}
	return nil
}
