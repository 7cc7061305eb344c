// Package interpolation fits polynomials through integer points with exact
// rational arithmetic.
//
// Solve sets up the Vandermonde system for k points and reduces it with
// Gauss-Jordan elimination; Polynomial.Evaluate checks a candidate against
// further points. Floating point never enters the computation, so the
// recovered coefficients are bit-exact regardless of the size of the inputs.
package interpolation
