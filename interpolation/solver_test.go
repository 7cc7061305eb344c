package interpolation

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/ruteri/shamir-reconstruct/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestSolve_Quadratic(t *testing.T) {
	// y = x^2 + x + 1
	coeffs, err := Solve(ints(1, 2, 3), ints(3, 7, 13))
	require.NoError(t, err)
	require.Len(t, coeffs, 3)

	assert.Equal(t, []string{"1", "1", "1"}, coeffs.Strings())
	assert.True(t, coeffs.Constant().Equal(rational.One()))
}

func TestSolve_FractionalCoefficients(t *testing.T) {
	// y = 7/2 + x/2
	coeffs, err := Solve(ints(1, 3), ints(4, 5))
	require.NoError(t, err)

	assert.Equal(t, "7/2", coeffs.Constant().String())
	assert.Equal(t, "1/2", coeffs[1].String())
}

func TestSolve_UnorderedAndNegativePoints(t *testing.T) {
	// y = 2x^2 - 3x + 5
	xs := ints(-4, 10, 0)
	ys := make([]*big.Int, len(xs))
	for i, x := range xs {
		v := x.Int64()
		ys[i] = big.NewInt(2*v*v - 3*v + 5)
	}

	coeffs, err := Solve(xs, ys)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "-3", "2"}, coeffs.Strings())
}

func TestSolve_DuplicateXConflictingY(t *testing.T) {
	_, err := Solve(ints(2, 2, 5), ints(1, 9, 4))
	assert.ErrorIs(t, err, ErrInconsistentSystem)
}

func TestSolve_DuplicateXSameY(t *testing.T) {
	// the repeated point leaves the x^2 column without a pivot, so it stays zero
	coeffs, err := Solve(ints(1, 1, 2), ints(3, 3, 5))
	require.NoError(t, err)
	require.Len(t, coeffs, 3)

	assert.Equal(t, []string{"1", "2", "0"}, coeffs.Strings())
	assert.True(t, coeffs.Evaluate(big.NewInt(1)).Equal(rational.FromInt64(3)))
	assert.True(t, coeffs.Evaluate(big.NewInt(2)).Equal(rational.FromInt64(5)))
}

func TestSolve_MismatchedInput(t *testing.T) {
	_, err := Solve(ints(1, 2), ints(1))
	assert.Error(t, err)
}

func TestSolve_SinglePoint(t *testing.T) {
	coeffs, err := Solve(ints(9), ints(42))
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, coeffs.Strings())
}

func TestSolve_InterpolationIsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bound, _ := new(big.Int).SetString("1000000000000000000000000000000", 10)

	for trial := 0; trial < 20; trial++ {
		k := 1 + rng.Intn(6)

		seen := map[int64]bool{}
		var xs, ys []*big.Int
		for len(xs) < k {
			x := int64(rng.Intn(200)) - 50
			if seen[x] {
				continue
			}
			seen[x] = true
			xs = append(xs, big.NewInt(x))
			ys = append(ys, new(big.Int).Rand(rng, bound))
		}

		coeffs, err := Solve(xs, ys)
		require.NoError(t, err)
		require.Len(t, coeffs, k)

		for i := range xs {
			got := coeffs.Evaluate(xs[i])
			assert.True(t, got.Equal(rational.ValueOf(ys[i])), "trial %d: p(%s) = %s, want %s", trial, xs[i], got, ys[i])
		}
	}
}

func TestPolynomial_Evaluate(t *testing.T) {
	p := Polynomial{rational.MustNew(1, 2), rational.FromInt64(-1), rational.FromInt64(3)}

	assert.Equal(t, "1/2", p.Evaluate(big.NewInt(0)).String())
	assert.Equal(t, "5/2", p.Evaluate(big.NewInt(1)).String())
	assert.Equal(t, "29/2", p.Evaluate(big.NewInt(-2)).String())

	assert.True(t, Polynomial{}.Evaluate(big.NewInt(7)).IsZero())
	assert.True(t, Polynomial{}.Constant().IsZero())
	assert.Equal(t, "[1/2 -1 3]", p.String())
}
