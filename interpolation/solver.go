package interpolation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ruteri/shamir-reconstruct/rational"
)

// ErrInconsistentSystem is returned when the points cannot be fitted by any
// polynomial with the requested number of coefficients.
var ErrInconsistentSystem = errors.New("inconsistent linear system")

// Solve interpolates the polynomial of degree < len(xs) through the points
// (xs[i], ys[i]) using Gauss-Jordan elimination over exact fractions.
//
// Columns without a pivot correspond to undetermined coefficients and are left
// at zero. A row reduced to 0 = c with c != 0 makes the system inconsistent.
func Solve(xs, ys []*big.Int) (Polynomial, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("mismatched point coordinates: %d x values, %d y values", len(xs), len(ys))
	}

	k := len(xs)
	m := vandermonde(xs, ys)

	row := 0
	for col := 0; col < k && row < k; col++ {
		sel := -1
		for i := row; i < k; i++ {
			if !m[i][col].IsZero() {
				sel = i
				break
			}
		}
		if sel == -1 {
			continue
		}
		m[sel], m[row] = m[row], m[sel]

		pivot := m[row][col]
		for j := col; j <= k; j++ {
			v, err := m[row][j].Div(pivot)
			if err != nil {
				return nil, err
			}
			m[row][j] = v
		}

		for i := 0; i < k; i++ {
			if i == row {
				continue
			}
			factor := m[i][col]
			if factor.IsZero() {
				continue
			}
			for j := col; j <= k; j++ {
				m[i][j] = m[i][j].Sub(m[row][j].Mul(factor))
			}
		}
		row++
	}

	coeffs := make(Polynomial, k)
	for i := range coeffs {
		coeffs[i] = rational.Zero()
	}

	for i := 0; i < k; i++ {
		pivotCol := -1
		for j := 0; j < k; j++ {
			if !m[i][j].IsZero() {
				pivotCol = j
				break
			}
		}
		if pivotCol == -1 {
			if !m[i][k].IsZero() {
				return nil, ErrInconsistentSystem
			}
			continue
		}
		coeffs[pivotCol] = m[i][k]
	}

	return coeffs, nil
}

// vandermonde builds the augmented matrix whose row i is
// [x_i^0, x_i^1, ..., x_i^(k-1), y_i].
func vandermonde(xs, ys []*big.Int) [][]rational.Fraction {
	k := len(xs)
	m := make([][]rational.Fraction, k)
	for i := range m {
		m[i] = make([]rational.Fraction, k+1)
		pow := big.NewInt(1)
		for j := 0; j < k; j++ {
			m[i][j] = rational.ValueOf(pow)
			pow = new(big.Int).Mul(pow, xs[i])
		}
		m[i][k] = rational.ValueOf(ys[i])
	}
	return m
}
