// Package planner computes the recommended combination of sizes that covers
// a requested amount.
//
// The algorithm is a greedy pass from the largest size down, followed by a
// single unit of the smallest size when anything is left over. It is not an
// optimal coin-change solver and must not become one: its output is shown to
// users and stored, so changing the algorithm changes observable results.
package planner

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Plan returns how many units of each size cover target. The weighted sum of
// the result is always >= target. A zero target yields an empty Counts.
//
// sizes must be non-empty and positive, and target and every size must lie
// in [0, 1e15] so the counts and their total fit in an int64; callers guard
// those conditions. sizes is not modified.
func Plan(target decimal.Decimal, sizes []int) Counts {
	result := make(Counts)
	if target.Sign() <= 0 || len(sizes) == 0 {
		return result
	}

	sorted := slices.Clone(sizes)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })

	remaining := target
	for _, size := range sorted {
		d := decimal.NewFromInt(int64(size))
		if remaining.LessThan(d) {
			continue
		}
		count, rem := remaining.QuoRem(d, 0)
		result[size] += int(count.IntPart())
		remaining = rem
	}

	// Whatever is left is smaller than the smallest size, so one unit of it
	// is enough.
	if remaining.Sign() > 0 {
		result[slices.Min(sizes)]++
	}

	return result
}

// Covers reports whether counts covers target.
func Covers(counts Counts, target decimal.Decimal) bool {
	return decimal.NewFromInt(counts.Total()).GreaterThanOrEqual(target)
}
