package metrics

import "time"

// ResultLabel enumerates package build results for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultSkipped  ResultLabel = "skipped"
	ResultCanceled ResultLabel = "canceled"
)

// RunOutcome is the final status of a scheduler or run-all invocation.
type RunOutcome string

const (
	OutcomeSuccess  RunOutcome = "success"
	OutcomeFailed   RunOutcome = "failed"
	OutcomeCanceled RunOutcome = "canceled"
)

// Recorder defines observability hooks for package builds and whole runs.
type Recorder interface {
	ObservePackageDuration(pkg string, d time.Duration, result ResultLabel)
	IncPackageResult(result ResultLabel)
	ObserveRunDuration(d time.Duration)
	SetTimeSaved(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePackageDuration(string, time.Duration, ResultLabel) {}
func (NoopRecorder) IncPackageResult(ResultLabel)                              {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                          {}
func (NoopRecorder) SetTimeSaved(time.Duration)                                {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                                  {}
func (NoopRecorder) SetWorkers(int)                                            {}
