package driven

import "time"

// MetricsRecorder observes transformation runs.
type MetricsRecorder interface {
	// IncArtifact counts one emitted artifact of the given kind
	// (package, class, enum, property, individual, statement, proxy).
	IncArtifact(kind string)

	// IncDiagnostic counts one recoverable problem.
	IncDiagnostic(kind string)

	// ObserveRun records the outcome and duration of a run.
	ObserveRun(status string, duration time.Duration)
}
