package reconstruct

import (
	"math/big"
	"testing"

	"github.com/ruteri/shamir-reconstruct/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shares(points ...[2]int64) []interfaces.Share {
	out := make([]interfaces.Share, len(points))
	for i, p := range points {
		out[i] = interfaces.NewShare(p[0], p[1])
	}
	return out
}

func TestReconstruct_NoFault(t *testing.T) {
	// y = x^2 + x + 1
	res, err := Reconstruct(shares([2]int64{1, 3}, [2]int64{2, 7}, [2]int64{3, 13}), 3)
	require.NoError(t, err)

	assert.Equal(t, "1", res.Secret.String())
	assert.Nil(t, res.Outlier)
	assert.Equal(t, -1, res.OutlierIndex)
	assert.Equal(t, NoOutlier, res.OutlierLabel())
	assert.Equal(t, []int{0, 1, 2}, res.Subset)
	assert.Equal(t, []string{"1", "1", "1"}, res.Coefficients.Strings())
	assert.Equal(t, 1, res.Candidates)
}

func TestReconstruct_SingleFault(t *testing.T) {
	res, err := Reconstruct(shares([2]int64{1, 3}, [2]int64{2, 7}, [2]int64{3, 13}, [2]int64{4, 999}), 3)
	require.NoError(t, err)

	assert.Equal(t, "1", res.Secret.String())
	require.NotNil(t, res.Outlier)
	assert.Equal(t, "4", res.OutlierLabel())
	assert.Equal(t, 3, res.OutlierIndex)
	assert.Equal(t, "999", res.Outlier.Value.String())
}

func TestReconstruct_FaultAmongLaterShares(t *testing.T) {
	// the corrupted share sits in the middle; the first subset containing it
	// mismatches two shares and is rejected
	res, err := Reconstruct(shares([2]int64{1, 3}, [2]int64{2, 50}, [2]int64{3, 13}, [2]int64{4, 21}, [2]int64{5, 31}), 3)
	require.NoError(t, err)

	assert.Equal(t, "1", res.Secret.String())
	assert.Equal(t, "2", res.OutlierLabel())
	assert.Equal(t, []int{0, 2, 3}, res.Subset)
}

func TestReconstruct_FirstFoundNotBestFound(t *testing.T) {
	// The corrupted share comes first. The first subset {(4,999),(1,3),(2,7)}
	// interpolates 164x^2 - 488x + 327, which disagrees only with (3,13), so it
	// is accepted even though {(1,3),(2,7),(3,13)} would fit every good share.
	res, err := Reconstruct(shares([2]int64{4, 999}, [2]int64{1, 3}, [2]int64{2, 7}, [2]int64{3, 13}), 3)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, res.Subset)
	assert.Equal(t, "327", res.Secret.String())
	assert.Equal(t, "3", res.OutlierLabel())
	assert.Equal(t, 3, res.OutlierIndex)
}

func TestReconstruct_InsufficientShares(t *testing.T) {
	_, err := Reconstruct(shares([2]int64{1, 3}, [2]int64{2, 7}), 3)
	assert.ErrorIs(t, err, ErrInsufficientShares)
	assert.Contains(t, err.Error(), "not enough shares provided")
}

func TestReconstruct_InvalidThreshold(t *testing.T) {
	_, err := Reconstruct(shares([2]int64{1, 3}), 0)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestReconstruct_TwoFaults(t *testing.T) {
	// y = 2x + 1 with (3, 100) and (4, 200) corrupted
	_, err := Reconstruct(shares([2]int64{1, 3}, [2]int64{2, 5}, [2]int64{3, 100}, [2]int64{4, 200}), 2)
	assert.ErrorIs(t, err, ErrNoConsistentPolynomial)
	assert.Contains(t, err.Error(), "no valid polynomial found")
}

func TestReconstruct_FractionalSecret(t *testing.T) {
	// y = 7/2 + x/2
	res, err := Reconstruct(shares([2]int64{1, 4}, [2]int64{3, 5}, [2]int64{5, 6}), 2)
	require.NoError(t, err)

	assert.Equal(t, "7/2", res.Secret.String())
	assert.False(t, res.Secret.IsInt())
	assert.Equal(t, NoOutlier, res.OutlierLabel())
}

func TestReconstruct_DuplicateLabelsAreSkipped(t *testing.T) {
	res, err := Reconstruct(shares([2]int64{2, 7}, [2]int64{2, 8}, [2]int64{1, 3}, [2]int64{3, 13}), 3)
	require.NoError(t, err)

	// {0,1,2} and {0,1,3} contain both x=2 points and are inconsistent
	assert.Equal(t, []int{0, 2, 3}, res.Subset)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, "1", res.Secret.String())
	assert.Equal(t, "2", res.OutlierLabel())
	assert.Equal(t, 1, res.OutlierIndex)
}

func TestReconstruct_LargeValues(t *testing.T) {
	secret, ok := new(big.Int).SetString("340282366920938463463374607431768211457", 10)
	require.True(t, ok)
	a1, _ := new(big.Int).SetString("98765432109876543210987654321", 10)
	a2, _ := new(big.Int).SetString("12345678901234567890123456789", 10)

	var in []interfaces.Share
	for x := int64(1); x <= 6; x++ {
		bx := big.NewInt(x)
		y := new(big.Int).Set(secret)
		y.Add(y, new(big.Int).Mul(a1, bx))
		y.Add(y, new(big.Int).Mul(a2, new(big.Int).Mul(bx, bx)))
		in = append(in, interfaces.Share{Label: bx, Value: y})
	}
	in[4].Value = new(big.Int).Add(in[4].Value, big.NewInt(1))

	res, err := Reconstruct(in, 3)
	require.NoError(t, err)
	assert.Equal(t, secret.String(), res.Secret.String())
	assert.Equal(t, "5", res.OutlierLabel())
}

func TestReconstruct_Deterministic(t *testing.T) {
	in := shares([2]int64{4, 999}, [2]int64{1, 3}, [2]int64{2, 7}, [2]int64{3, 13}, [2]int64{5, 31})

	first, err := Reconstruct(in, 3)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Reconstruct(in, 3)
		require.NoError(t, err)
		assert.Equal(t, first.Subset, again.Subset)
		assert.Equal(t, first.OutlierLabel(), again.OutlierLabel())
		assert.True(t, first.Secret.Equal(again.Secret))
	}
}

func TestReconstruct_DoesNotMutateInput(t *testing.T) {
	in := shares([2]int64{1, 3}, [2]int64{2, 7}, [2]int64{3, 13}, [2]int64{4, 999})
	_, err := Reconstruct(in, 3)
	require.NoError(t, err)

	assert.Equal(t, shares([2]int64{1, 3}, [2]int64{2, 7}, [2]int64{3, 13}, [2]int64{4, 999}), in)
}
