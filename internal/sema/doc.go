// Package sema validates a parsed unit: it resolves names through a chain of
// scopes, infers a type for every expression and checks declarations,
// conversions, conditions and returns. The first error is fatal for the unit.
package sema
