// Package kernel provides core domain primitives shared by the order lifecycle model.
//
// The package currently contains a single primitive:
//   - UUID: a value object for unique identifiers with validation and comparison
//
// Primitives in this package are immutable and thread-safe, and enforce their own
// invariants so that domain objects built on top of them are always in a valid state.
package kernel
