// Package combinatorics enumerates index subsets in lexicographic order.
package combinatorics

import (
	"iter"
	"math/big"
	"slices"
)

// Subsets yields every strictly increasing k-element sequence drawn from
// {0, ..., n-1} in lexicographic order. Each yielded slice is a fresh copy
// and may be retained by the caller.
//
// k == 0 yields a single empty subset; k > n or negative arguments yield nothing.
func Subsets(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if n < 0 || k < 0 || k > n {
			return
		}
		cur := make([]int, k)
		combine(n, k, 0, 0, cur, yield)
	}
}

// combine fills cur[idx:] and reports false once the consumer stops.
func combine(n, k, start, idx int, cur []int, yield func([]int) bool) bool {
	if idx == k {
		return yield(slices.Clone(cur))
	}
	for i := start; i <= n-(k-idx); i++ {
		cur[idx] = i
		if !combine(n, k, i+1, idx+1, cur, yield) {
			return false
		}
	}
	return true
}

// Count returns C(n, k), the number of subsets Subsets(n, k) yields.
func Count(n, k int) *big.Int {
	if n < 0 || k < 0 || k > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}
