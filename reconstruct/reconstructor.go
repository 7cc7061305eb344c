package reconstruct

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"sync"
	"time"

	"github.com/ruteri/shamir-reconstruct/combinatorics"
	"github.com/ruteri/shamir-reconstruct/interfaces"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Config contains the parameters of a Reconstructor.
type Config struct {
	// Workers is the number of subsets evaluated concurrently. Values <= 1
	// run the search on the calling goroutine.
	Workers int

	// MaxCandidates bounds C(n, k). Zero disables the bound.
	MaxCandidates uint64

	// Log receives debug and summary lines. Defaults to slog.Default().
	Log *slog.Logger
}

// Reconstructor runs the fault-tolerant search with a candidate bound,
// cancellation and an optional worker pool.
type Reconstructor struct {
	cfg Config
	log *slog.Logger
}

// New creates a Reconstructor.
func New(cfg Config) *Reconstructor {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Reconstructor{cfg: cfg, log: log}
}

// Reconstruct returns the same result as the package level Reconstruct.
// With several workers, subsets are evaluated out of order but only the one
// with the smallest enumeration position is ever committed.
func (r *Reconstructor) Reconstruct(ctx context.Context, shares []interfaces.Share, k int) (*Result, error) {
	if err := validate(shares, k); err != nil {
		return nil, err
	}

	candidates := combinatorics.Count(len(shares), k)
	if r.cfg.MaxCandidates > 0 && candidates.Cmp(new(big.Int).SetUint64(r.cfg.MaxCandidates)) > 0 {
		return nil, fmt.Errorf("%w: C(%d, %d) = %s > %d", ErrSearchTooLarge, len(shares), k, candidates, r.cfg.MaxCandidates)
	}

	start := time.Now()
	var (
		res *Result
		err error
	)
	if r.cfg.Workers <= 1 {
		res, err = r.sequential(ctx, shares, k)
	} else {
		res, err = r.concurrent(ctx, shares, k)
	}
	if err != nil {
		r.log.Info("Reconstruction failed",
			slog.Int("shares", len(shares)),
			slog.Int("threshold", k),
			slog.String("candidates", candidates.String()),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, err
	}

	r.log.Info("Reconstruction succeeded",
		slog.Int("shares", len(shares)),
		slog.Int("threshold", k),
		slog.Int("position", res.Candidates),
		slog.String("outlier", res.OutlierLabel()),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

func (r *Reconstructor) sequential(ctx context.Context, shares []interfaces.Share, k int) (*Result, error) {
	pos := 0
	for subset := range combinatorics.Subsets(len(shares), k) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pos++
		if res, ok := tryCandidate(shares, subset); ok {
			res.Candidates = pos
			r.log.Debug("Accepted candidate", slog.Any("subset", subset), slog.Int("position", pos))
			return res, nil
		}
	}
	return nil, ErrNoConsistentPolynomial
}

// concurrent hands subsets to a bounded errgroup. best holds the smallest
// accepted enumeration index; any subset past it can no longer win and is
// skipped, so every subset before the final best has been evaluated.
func (r *Reconstructor) concurrent(ctx context.Context, shares []interfaces.Share, k int) (*Result, error) {
	best := atomic.NewInt64(math.MaxInt64)

	var mu sync.Mutex
	accepted := make(map[int64]*Result)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	var idx int64
	for subset := range combinatorics.Subsets(len(shares), k) {
		if idx > best.Load() || gctx.Err() != nil {
			break
		}

		i, s := idx, subset
		g.Go(func() error {
			if i > best.Load() {
				return nil
			}
			res, ok := tryCandidate(shares, s)
			if !ok {
				return nil
			}
			res.Candidates = int(i + 1)

			mu.Lock()
			accepted[i] = res
			mu.Unlock()

			for {
				cur := best.Load()
				if i >= cur || best.CompareAndSwap(cur, i) {
					break
				}
			}
			r.log.Debug("Accepted candidate", slog.Any("subset", s), slog.Int64("position", i+1))
			return nil
		})
		idx++
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := best.Load()
	if b == math.MaxInt64 {
		return nil, ErrNoConsistentPolynomial
	}
	return accepted[b], nil
}
