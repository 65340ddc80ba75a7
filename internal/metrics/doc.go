// Package metrics records build metrics.
//
// Components receive a Recorder and default to NoopRecorder, so nothing
// needs nil checks:
//
//	b := build.New(site, build.WithRecorder(metrics.NewPrometheusRecorder(nil)))
//
// The Prometheus implementation keeps its own registry; the CLI writes it
// to a textfile after a build (`docsite build --metrics-textfile`).
package metrics
