// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Transformer is the lowering engine: it walks a meta-model and its
// instance graphs once and emits ontology artifacts through a
// driven.OntologyStore. TransformService wraps it with document loading,
// store selection and serialization.
package services
