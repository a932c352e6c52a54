// Package numeric provides the small numerical kernels shared by the pricing
// models: stable binomial coefficients, Poisson mass vectors and bracketed
// bisection with an iteration ceiling.
package numeric
