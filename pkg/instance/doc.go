// Package instance models typed relational data: atoms, types with an
// ascending hierarchy, and named relations over ordered tuples. It is the
// input side of the layout engine.
//
// The [DataInstance] interface is the contract the layout engine consumes.
// Format-specific adapters (model-checker XML, SMT model text, and friends)
// implement it elsewhere; this package ships [Store], an in-memory
// implementation backed by plain slices and maps, together with a JSON wire
// format for the CLI and tests.
//
// # Projection
//
// Projecting a type collapses it to a single representative atom: the
// projected atoms disappear from the instance and every relation column of
// that type is restricted to the representative and then dropped. See
// [Store.ApplyProjections].
//
// # Graph materialization
//
// [Store.GenerateGraph] turns the instance into a working [Graph]: one node
// per atom, one edge per relation tuple (n-ary tuples keep their middle
// atoms in the edge label). The layout engine mutates this graph freely.
package instance
