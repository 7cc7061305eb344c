// Package split generates integer Shamir shares. It produces payloads for
// exercising recovery, including deliberately corrupted ones.
package split

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/ruteri/shamir-reconstruct/interfaces"
)

// CoefficientBits bounds the random polynomial coefficients to [0, 2^CoefficientBits).
const CoefficientBits = 64

var (
	ErrInvalidParameters = errors.New("invalid split parameters")
	ErrNegativeSecret    = errors.New("secret must be non-negative")
	ErrShareIndex        = errors.New("share index out of range")
)

// Split draws a random polynomial of degree k-1 with the secret as its
// constant term and evaluates it at x = 1..n. A nil rnd uses crypto/rand.
// All coefficients are non-negative so every share value is too.
func Split(secret *big.Int, n, k int, rnd io.Reader) (*interfaces.SharePayload, error) {
	if k < 1 || n < k {
		return nil, fmt.Errorf("%w: need 1 <= k <= n, got n=%d k=%d", ErrInvalidParameters, n, k)
	}
	if secret.Sign() < 0 {
		return nil, ErrNegativeSecret
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	bound := new(big.Int).Lsh(big.NewInt(1), CoefficientBits)
	coeffs := make([]*big.Int, k)
	coeffs[0] = new(big.Int).Set(secret)
	for i := 1; i < k; i++ {
		c, err := rand.Int(rnd, bound)
		if err != nil {
			return nil, fmt.Errorf("could not draw coefficient: %w", err)
		}
		coeffs[i] = c
	}

	payload := &interfaces.SharePayload{
		N:      n,
		K:      k,
		Shares: make([]interfaces.Share, n),
		Bases:  make([]int, n),
	}
	for i := 0; i < n; i++ {
		x := big.NewInt(int64(i + 1))
		payload.Shares[i] = interfaces.Share{Label: x, Value: evaluate(coeffs, x)}
		payload.Bases[i] = 10
	}

	return payload, nil
}

// evaluate uses Horner's rule.
func evaluate(coeffs []*big.Int, x *big.Int) *big.Int {
	y := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		y.Mul(y, x)
		y.Add(y, coeffs[i])
	}
	return y
}

// Corrupt adds delta to the value of the share at index. The result must stay
// non-negative. The payload is modified in place.
func Corrupt(p *interfaces.SharePayload, index int, delta *big.Int) error {
	if index < 0 || index >= len(p.Shares) {
		return fmt.Errorf("%w: %d of %d", ErrShareIndex, index, len(p.Shares))
	}
	if delta.Sign() == 0 {
		return fmt.Errorf("%w: delta must not be zero", ErrInvalidParameters)
	}

	v := new(big.Int).Add(p.Shares[index].Value, delta)
	if v.Sign() < 0 {
		return fmt.Errorf("%w: corrupted value would be negative", ErrInvalidParameters)
	}
	p.Shares[index].Value = v
	return nil
}
