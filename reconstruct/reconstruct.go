package reconstruct

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ruteri/shamir-reconstruct/combinatorics"
	"github.com/ruteri/shamir-reconstruct/interfaces"
	"github.com/ruteri/shamir-reconstruct/interpolation"
	"github.com/ruteri/shamir-reconstruct/rational"
)

var (
	// ErrInvalidThreshold is returned when k < 1.
	ErrInvalidThreshold = errors.New("threshold must be at least 1")

	// ErrInsufficientShares is returned when fewer than k shares are supplied.
	ErrInsufficientShares = errors.New("not enough shares provided")

	// ErrNoConsistentPolynomial is returned when no k-subset yields a
	// polynomial consistent with all but at most one share.
	ErrNoConsistentPolynomial = errors.New("no valid polynomial found")

	// ErrSearchTooLarge is returned when C(n, k) exceeds the configured bound.
	ErrSearchTooLarge = errors.New("candidate search exceeds configured bound")
)

// NoOutlier is reported in place of an outlier label when every share agrees
// with the accepted polynomial.
const NoOutlier = "NONE"

// Result describes an accepted reconstruction.
type Result struct {
	// Secret is the constant coefficient of the accepted polynomial.
	Secret rational.Fraction

	// Coefficients of the accepted polynomial, lowest degree first.
	Coefficients interpolation.Polynomial

	// Subset holds the indices of the shares the polynomial was interpolated from.
	Subset []int

	// Outlier is the single share that disagrees with the polynomial, or nil.
	Outlier *interfaces.Share

	// OutlierIndex is the position of Outlier in the input, or -1.
	OutlierIndex int

	// Candidates is the 1-based position of Subset in the enumeration order.
	Candidates int
}

// OutlierLabel returns the outlier's label, or NoOutlier.
func (r *Result) OutlierLabel() string {
	if r.Outlier == nil {
		return NoOutlier
	}
	return r.Outlier.Label.String()
}

// Reconstruct searches the k-subsets of shares in lexicographic order and
// returns the first one whose interpolated polynomial disagrees with at most
// one share.
func Reconstruct(shares []interfaces.Share, k int) (*Result, error) {
	if err := validate(shares, k); err != nil {
		return nil, err
	}

	pos := 0
	for subset := range combinatorics.Subsets(len(shares), k) {
		pos++
		if res, ok := tryCandidate(shares, subset); ok {
			res.Candidates = pos
			return res, nil
		}
	}

	return nil, ErrNoConsistentPolynomial
}

func validate(shares []interfaces.Share, k int) error {
	if k < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, k)
	}
	if len(shares) < k {
		return fmt.Errorf("%w: total=%d but k=%d", ErrInsufficientShares, len(shares), k)
	}
	return nil
}

// tryCandidate interpolates the subset and verifies it against every share.
// Degenerate subsets (inconsistent systems, zero pivots) are simply rejected.
func tryCandidate(shares []interfaces.Share, subset []int) (*Result, bool) {
	xs := make([]*big.Int, len(subset))
	ys := make([]*big.Int, len(subset))
	for i, idx := range subset {
		xs[i] = shares[idx].Label
		ys[i] = shares[idx].Value
	}

	coeffs, err := interpolation.Solve(xs, ys)
	if err != nil {
		return nil, false
	}

	mismatches, last := verify(coeffs, shares)
	if mismatches > 1 {
		return nil, false
	}

	res := &Result{
		Secret:       coeffs.Constant(),
		Coefficients: coeffs,
		Subset:       subset,
		OutlierIndex: -1,
	}
	if mismatches == 1 {
		outlier := shares[last]
		res.Outlier = &outlier
		res.OutlierIndex = last
	}
	return res, true
}

// verify counts the shares the polynomial does not pass through, stopping at
// the second mismatch. It also returns the index of the last mismatch seen.
func verify(coeffs interpolation.Polynomial, shares []interfaces.Share) (mismatches, last int) {
	last = -1
	for i, s := range shares {
		if coeffs.Evaluate(s.Label).Equal(rational.ValueOf(s.Value)) {
			continue
		}
		mismatches++
		last = i
		if mismatches > 1 {
			return mismatches, last
		}
	}
	return mismatches, last
}
