// Package reconstruct recovers a Shamir secret from integer shares while
// tolerating at most one corrupted share.
//
// Every k-subset of the shares is tried in lexicographic index order. A
// subset is interpolated exactly; the resulting polynomial is checked against
// all shares and accepted as soon as it disagrees with at most one of them.
// The first acceptable subset wins, even if a later subset would agree with
// every share, so results are reproducible run to run.
//
// Reconstruct is the plain single-threaded search. Reconstructor adds a
// candidate bound, context cancellation and a worker pool whose commit point
// still selects the lexicographically first acceptable subset:
//
//	r := reconstruct.New(reconstruct.Config{Workers: 8, MaxCandidates: 1_000_000, Log: logger})
//	res, err := r.Reconstruct(ctx, payload.Shares, payload.K)
//	switch {
//	case errors.Is(err, reconstruct.ErrInsufficientShares):
//	case errors.Is(err, reconstruct.ErrNoConsistentPolynomial):
//	}
//	fmt.Println(res.Secret)
//	fmt.Println(res.OutlierLabel())
package reconstruct
