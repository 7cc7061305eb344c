package split

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ruteri/shamir-reconstruct/reconstruct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Recover(t *testing.T) {
	secret, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	for _, tc := range []struct{ n, k int }{{1, 1}, {3, 1}, {3, 3}, {5, 3}, {7, 4}} {
		p, err := Split(secret, tc.n, tc.k, nil)
		require.NoError(t, err)
		require.Len(t, p.Shares, tc.n)
		assert.Equal(t, tc.n, p.N)
		assert.Equal(t, tc.k, p.K)

		for i, s := range p.Shares {
			assert.Equal(t, int64(i+1), s.Label.Int64())
			assert.GreaterOrEqual(t, s.Value.Sign(), 0)
		}

		res, err := reconstruct.Reconstruct(p.Shares, tc.k)
		require.NoError(t, err)
		assert.Equal(t, secret.String(), res.Secret.String())
		assert.Equal(t, reconstruct.NoOutlier, res.OutlierLabel())
	}
}

func TestSplit_Deterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 1024)

	a, err := Split(big.NewInt(7), 4, 3, bytes.NewReader(seed))
	require.NoError(t, err)
	b, err := Split(big.NewInt(7), 4, 3, bytes.NewReader(seed))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSplit_InvalidParameters(t *testing.T) {
	_, err := Split(big.NewInt(1), 2, 3, nil)
	assert.ErrorIs(t, err, ErrInvalidParameters)

	_, err = Split(big.NewInt(1), 2, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidParameters)

	_, err = Split(big.NewInt(-1), 3, 2, nil)
	assert.ErrorIs(t, err, ErrNegativeSecret)

	_, err = Split(big.NewInt(1), 3, 2, bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestCorrupt(t *testing.T) {
	p, err := Split(big.NewInt(42), 5, 3, nil)
	require.NoError(t, err)

	require.NoError(t, Corrupt(p, 2, big.NewInt(1000)))

	res, err := reconstruct.Reconstruct(p.Shares, 3)
	require.NoError(t, err)
	assert.Equal(t, "42", res.Secret.String())
	assert.Equal(t, "3", res.OutlierLabel())
	assert.Equal(t, 2, res.OutlierIndex)

	assert.ErrorIs(t, Corrupt(p, 5, big.NewInt(1)), ErrShareIndex)
	assert.ErrorIs(t, Corrupt(p, 0, big.NewInt(0)), ErrInvalidParameters)

	v := new(big.Int).Neg(p.Shares[0].Value)
	v.Sub(v, big.NewInt(1))
	assert.ErrorIs(t, Corrupt(p, 0, v), ErrInvalidParameters)
}
