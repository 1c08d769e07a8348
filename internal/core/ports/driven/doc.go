// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ModelLoader: Reads meta-model and model documents
//   - OntologyStore: Get-or-create sink for ontology artifacts
//   - OntologyStoreFactory: Opens an OntologyStore for a run
//   - TripleStore: Append-only statement storage behind an OntologyStore
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MetricsRecorder: Counts artifacts and diagnostics. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
