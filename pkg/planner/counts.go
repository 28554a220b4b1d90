package planner

import (
	"fmt"
	"slices"
	"strings"
)

// Counts maps a size to the number of units of that size.
type Counts map[int]int

// Total returns the weighted sum of the counts.
func (c Counts) Total() int64 {
	var total int64
	for size, n := range c {
		total += int64(size) * int64(n)
	}
	return total
}

// Pieces returns the total number of units.
func (c Counts) Pieces() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Sizes returns the sizes with a non-zero count, largest first.
func (c Counts) Sizes() []int {
	sizes := make([]int, 0, len(c))
	for size, n := range c {
		if n > 0 {
			sizes = append(sizes, size)
		}
	}
	slices.SortFunc(sizes, func(a, b int) int { return b - a })
	return sizes
}

// Clone returns an independent copy.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for size, n := range c {
		out[size] = n
	}
	return out
}

// String renders the counts as "2 x 160, 1 x 40", largest size first.
func (c Counts) String() string {
	parts := make([]string, 0, len(c))
	for _, size := range c.Sizes() {
		parts = append(parts, fmt.Sprintf("%d x %d", c[size], size))
	}
	return strings.Join(parts, ", ")
}
