// Package optimizer implements the in-place parameter update kernels for
// the Strata operator library: SGD, SGD with momentum, mixed-precision
// SGD, Adam, and two RMSProp variants.
//
// Every rule runs over dense and row-sparse storage. Dense kernels are
// embarrassingly parallel per element; sparse kernels are parallel per
// populated row with a sequential column loop. Entry points inspect the
// storage kind of each input and route to the matching kernel family, or
// to the densify fallback where a rule has no native kernel for the
// combination. Adam deliberately has no fallback: an unsupported
// combination is a hard error there.
//
// State tensors (momentum, moments, running statistics) are mutated in
// place on every call. The caller owns serialization per parameter; this
// package performs no locking.
package optimizer
