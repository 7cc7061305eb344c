package rational

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrDivisionByZero is returned when a fraction would end up with a zero denominator.
var ErrDivisionByZero = errors.New("division by zero")

// Fraction is an immutable arbitrary-precision rational number.
//
// A Fraction is always kept in lowest terms with a strictly positive
// denominator, so two fractions are mathematically equal exactly when their
// numerators and denominators match. The zero value is 0/1.
type Fraction struct {
	r *big.Rat
}

var one = big.NewInt(1)

// New returns num/den in lowest terms. A zero denominator fails with ErrDivisionByZero.
func New(num, den *big.Int) (Fraction, error) {
	if den.Sign() == 0 {
		return Fraction{}, ErrDivisionByZero
	}
	// SetFrac normalises: sign moves to the numerator, gcd is divided out.
	return Fraction{r: new(big.Rat).SetFrac(num, den)}, nil
}

// MustNew is like New but panics on a zero denominator. Intended for constants and tests.
func MustNew(num, den int64) Fraction {
	f, err := New(big.NewInt(num), big.NewInt(den))
	if err != nil {
		panic(err)
	}
	return f
}

// ValueOf returns the fraction v/1.
func ValueOf(v *big.Int) Fraction {
	return Fraction{r: new(big.Rat).SetInt(v)}
}

// FromInt64 returns the fraction v/1.
func FromInt64(v int64) Fraction {
	return Fraction{r: new(big.Rat).SetInt64(v)}
}

// Zero returns 0/1.
func Zero() Fraction { return FromInt64(0) }

// One returns 1/1.
func One() Fraction { return FromInt64(1) }

func (f Fraction) rat() *big.Rat {
	if f.r == nil {
		return new(big.Rat)
	}
	return f.r
}

// Num returns a copy of the numerator.
func (f Fraction) Num() *big.Int {
	return new(big.Int).Set(f.rat().Num())
}

// Den returns a copy of the denominator. It is always positive.
func (f Fraction) Den() *big.Int {
	return new(big.Int).Set(f.rat().Denom())
}

func (f Fraction) Add(o Fraction) Fraction {
	return Fraction{r: new(big.Rat).Add(f.rat(), o.rat())}
}

func (f Fraction) Sub(o Fraction) Fraction {
	return Fraction{r: new(big.Rat).Sub(f.rat(), o.rat())}
}

func (f Fraction) Mul(o Fraction) Fraction {
	return Fraction{r: new(big.Rat).Mul(f.rat(), o.rat())}
}

// Div returns f/o. Dividing by a zero fraction fails with ErrDivisionByZero.
func (f Fraction) Div(o Fraction) (Fraction, error) {
	if o.IsZero() {
		return Fraction{}, ErrDivisionByZero
	}
	return Fraction{r: new(big.Rat).Quo(f.rat(), o.rat())}, nil
}

func (f Fraction) Neg() Fraction {
	return Fraction{r: new(big.Rat).Neg(f.rat())}
}

func (f Fraction) IsZero() bool {
	return f.rat().Sign() == 0
}

// IsInt reports whether the denominator is 1.
func (f Fraction) IsInt() bool {
	return f.rat().Denom().Cmp(one) == 0
}

// Equal compares the normalised numerator and denominator.
func (f Fraction) Equal(o Fraction) bool {
	a, b := f.rat(), o.rat()
	return a.Num().Cmp(b.Num()) == 0 && a.Denom().Cmp(b.Denom()) == 0
}

// String renders an integer as a plain number and anything else as "num/den".
func (f Fraction) String() string {
	r := f.rat()
	if f.IsInt() {
		return r.Num().String()
	}
	return r.Num().String() + "/" + r.Denom().String()
}

// DecimalString renders the fraction as a decimal rounded to the given number of places.
func (f Fraction) DecimalString(places int32) string {
	r := f.rat()
	num := decimal.NewFromBigInt(r.Num(), 0)
	den := decimal.NewFromBigInt(r.Denom(), 0)
	return num.DivRound(den, places).StringFixed(places)
}
