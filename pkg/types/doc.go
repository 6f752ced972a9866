// Package types defines the shared domain types for docgap: chunks and
// file units produced by the packing core, gaps reported by the model,
// and the per-chunk and synthesized result shapes that flow between the
// analyzer, the report renderer, and the run-history store.
//
// Values of these types are built once by their producing stage and never
// mutated afterward; each pipeline stage hands an immutable value to the
// next.
package types
