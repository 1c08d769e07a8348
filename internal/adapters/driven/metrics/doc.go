// Package metrics exposes transformation counters to Prometheus.
package metrics
