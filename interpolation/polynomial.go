package interpolation

import (
	"math/big"
	"strings"

	"github.com/ruteri/shamir-reconstruct/rational"
)

// Polynomial is a coefficient vector; index i multiplies x^i.
type Polynomial []rational.Fraction

// Evaluate computes the exact value of the polynomial at x.
func (p Polynomial) Evaluate(x *big.Int) rational.Fraction {
	res := rational.Zero()
	pow := big.NewInt(1)
	for _, c := range p {
		res = res.Add(c.Mul(rational.ValueOf(pow)))
		pow = new(big.Int).Mul(pow, x)
	}
	return res
}

// Constant returns the coefficient of x^0, or zero for an empty polynomial.
func (p Polynomial) Constant() rational.Fraction {
	if len(p) == 0 {
		return rational.Zero()
	}
	return p[0]
}

// Strings renders every coefficient, lowest degree first.
func (p Polynomial) Strings() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.String()
	}
	return out
}

func (p Polynomial) String() string {
	return "[" + strings.Join(p.Strings(), " ") + "]"
}
