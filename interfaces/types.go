package interfaces

import (
	"fmt"
	"math/big"
)

// Share is a single point of a threshold secret sharing.
type Share struct {
	// Label identifies the share and is used directly as the x-coordinate.
	Label *big.Int
	// Value is the decoded y-coordinate.
	Value *big.Int
}

// NewShare builds a share from int64 coordinates.
func NewShare(label, value int64) Share {
	return Share{Label: big.NewInt(label), Value: big.NewInt(value)}
}

func (s Share) String() string {
	return fmt.Sprintf("(%s, %s)", s.Label, s.Value)
}

// SharePayload is the decoded input of a reconstruction.
type SharePayload struct {
	// N is the declared total number of shares. It is advisory only: the
	// reconstruction always operates on len(Shares).
	N int
	// K is the reconstruction threshold, the number of coefficients of the
	// polynomial to recover.
	K int
	// Shares are kept in input order.
	Shares []Share
	// Bases records the numeric base each share value was encoded in, by
	// position. It is only used to re-encode a payload.
	Bases []int
}
