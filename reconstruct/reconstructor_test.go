package reconstruct

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"math/rand"
	"testing"

	"github.com/ruteri/shamir-reconstruct/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// randomShares builds n shares of a random degree-(k-1) polynomial over small
// integers and corrupts `faults` of them.
func randomShares(rng *rand.Rand, n, k, faults int) []interfaces.Share {
	coeffs := make([]int64, k)
	for i := range coeffs {
		coeffs[i] = int64(rng.Intn(2000) - 1000)
	}

	out := make([]interfaces.Share, n)
	for i := range out {
		x := big.NewInt(int64(i + 1))
		y := new(big.Int)
		pow := big.NewInt(1)
		for _, c := range coeffs {
			y.Add(y, new(big.Int).Mul(big.NewInt(c), pow))
			pow = new(big.Int).Mul(pow, x)
		}
		out[i] = interfaces.Share{Label: x, Value: y}
	}

	for _, i := range rng.Perm(n)[:faults] {
		out[i].Value = new(big.Int).Add(out[i].Value, big.NewInt(int64(1+rng.Intn(50))))
	}
	return out
}

func TestReconstructor_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	for _, workers := range []int{0, 1, 2, 4, 16} {
		r := New(Config{Workers: workers, Log: testLogger()})

		for trial := 0; trial < 40; trial++ {
			k := 1 + rng.Intn(4)
			n := k + rng.Intn(4)
			faults := rng.Intn(3)
			if faults > n {
				faults = n
			}
			in := randomShares(rng, n, k, faults)

			want, wantErr := Reconstruct(in, k)
			got, gotErr := r.Reconstruct(ctx, in, k)

			if wantErr != nil {
				assert.ErrorIs(t, gotErr, wantErr, "workers=%d trial=%d", workers, trial)
				continue
			}
			require.NoError(t, gotErr, "workers=%d trial=%d", workers, trial)
			assert.Equal(t, want.Subset, got.Subset, "workers=%d trial=%d", workers, trial)
			assert.Equal(t, want.OutlierIndex, got.OutlierIndex)
			assert.Equal(t, want.Candidates, got.Candidates)
			assert.True(t, want.Secret.Equal(got.Secret))
		}
	}
}

func TestReconstructor_FirstFoundWithWorkers(t *testing.T) {
	r := New(Config{Workers: 8, Log: testLogger()})
	in := shares([2]int64{4, 999}, [2]int64{1, 3}, [2]int64{2, 7}, [2]int64{3, 13})

	res, err := r.Reconstruct(context.Background(), in, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Subset)
	assert.Equal(t, "327", res.Secret.String())
	assert.Equal(t, "3", res.OutlierLabel())
}

func TestReconstructor_Errors(t *testing.T) {
	r := New(Config{Workers: 4, Log: testLogger()})
	ctx := context.Background()

	_, err := r.Reconstruct(ctx, shares([2]int64{1, 3}), 2)
	assert.ErrorIs(t, err, ErrInsufficientShares)

	_, err = r.Reconstruct(ctx, shares([2]int64{1, 3}, [2]int64{2, 5}, [2]int64{3, 100}, [2]int64{4, 200}), 2)
	assert.ErrorIs(t, err, ErrNoConsistentPolynomial)

	_, err = r.Reconstruct(ctx, shares([2]int64{1, 3}), -1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestReconstructor_MaxCandidates(t *testing.T) {
	in := shares([2]int64{1, 3}, [2]int64{2, 5}, [2]int64{3, 7}, [2]int64{4, 9}, [2]int64{5, 11})

	r := New(Config{MaxCandidates: 9, Log: testLogger()})
	_, err := r.Reconstruct(context.Background(), in, 2)
	assert.ErrorIs(t, err, ErrSearchTooLarge)

	r = New(Config{MaxCandidates: 10, Log: testLogger()})
	res, err := r.Reconstruct(context.Background(), in, 2)
	require.NoError(t, err)
	assert.Equal(t, "1", res.Secret.String())
}

func TestReconstructor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := shares([2]int64{1, 3}, [2]int64{2, 7}, [2]int64{3, 13})
	for _, workers := range []int{1, 4} {
		r := New(Config{Workers: workers, Log: testLogger()})
		_, err := r.Reconstruct(ctx, in, 3)
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
	}
}

func TestNew_DefaultLogger(t *testing.T) {
	r := New(Config{})
	require.NotNil(t, r.log)
}
