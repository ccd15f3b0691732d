package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls; the scheduler tests use the same shape.
type testRecorder struct {
	mu             sync.Mutex
	packageResults map[ResultLabel]int
	runDurations   int
	outcomes       map[RunOutcome]int
}

var _ Recorder = (*testRecorder)(nil)

func newTestRecorder() *testRecorder {
	return &testRecorder{packageResults: map[ResultLabel]int{}, outcomes: map[RunOutcome]int{}}
}

func (t *testRecorder) ObservePackageDuration(string, time.Duration, ResultLabel) {}
func (t *testRecorder) IncPackageResult(result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.packageResults[result]++
}
func (t *testRecorder) ObserveRunDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runDurations++
}
func (t *testRecorder) SetTimeSaved(time.Duration) {}
func (t *testRecorder) IncRunOutcome(outcome RunOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcomes[outcome]++
}
func (t *testRecorder) SetWorkers(int) {}
