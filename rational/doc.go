// Package rational provides Fraction, an exact arbitrary-precision rational
// number used by the interpolation and reconstruction packages.
//
// Every Fraction is stored in lowest terms with a positive denominator and
// every operation returns a new value, so structural equality is
// mathematical equality:
//
//	half := rational.MustNew(1, 2)
//	third := rational.MustNew(1, 3)
//	sum := half.Add(third)        // 5/6
//	q, err := sum.Div(third)      // 5/2
//	if errors.Is(err, rational.ErrDivisionByZero) {
//	    // divisor was zero
//	}
//	fmt.Println(q, q.DecimalString(3)) // 5/2 2.500
package rational
