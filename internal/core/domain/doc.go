// Package domain defines the core types of the model-to-ontology engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Package, Class, Feature, Enum, DataType: the meta-model
//   - Object, Model: instance graphs conforming to a meta-model
//   - Term, Triple and the *Ref types: ontology artifacts
//   - Datatype: the closed primitive type mapping table
//   - TransformReport: counters and diagnostics of one run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
