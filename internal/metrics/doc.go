// Package metrics records build scheduler metrics.
//
// Components receive a Recorder through injection and default to NoopRecorder,
// so nothing needs a nil check:
//
//	sched := scheduler.New(registry, builder, scheduler.Options{
//	    Recorder: metrics.NoopRecorder{},
//	})
//
// When `metrics.textfile` is configured the CLI injects a PrometheusRecorder
// and, after the run, writes its registry in the node_exporter textfile format
// with WriteTextfile.
package metrics
